package models

import (
	"time"

	"gorm.io/datatypes"
)

// RawStreamEvent keeps the raw websocket frames from the engine for
// debugging and replay. Rows are pruned on a retention schedule.
type RawStreamEvent struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement"`
	EventType string         `gorm:"type:varchar(50);not null;index"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`

	ReceivedAt time.Time `gorm:"type:timestamptz;not null;index"`
}

func (RawStreamEvent) TableName() string {
	return "raw_stream_events"
}
