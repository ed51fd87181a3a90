package models

import (
	"time"

	"gorm.io/datatypes"
)

// Signal is a raw trading signal delivered on the engine stream.
type Signal struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	SignalType string `gorm:"type:varchar(50);not null;index" json:"signal_type"`
	Symbol     string `gorm:"type:varchar(30);not null;index" json:"symbol"`
	Direction  string `gorm:"type:varchar(10)" json:"direction"`

	Strength float64        `gorm:"not null" json:"strength"`
	Payload  datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (Signal) TableName() string {
	return "trade_signals"
}
