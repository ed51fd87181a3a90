package models

import "time"

// SyncState is the per-scope polling cursor so restarts resume from the
// last ingested record instead of refetching history.
type SyncState struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement"`
	Scope string `gorm:"type:varchar(50);uniqueIndex;not null"`

	LastTimestamp *time.Time `gorm:"type:timestamptz"`
	LastRunAt     time.Time  `gorm:"type:timestamptz"`

	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (SyncState) TableName() string {
	return "sync_states"
}
