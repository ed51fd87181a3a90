package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is an open position reported by the trading engine.
type Position struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	Symbol string `gorm:"type:varchar(30);uniqueIndex;not null" json:"symbol"`
	Side   string `gorm:"type:varchar(10);not null" json:"side"`

	// Money-like values stay numeric to avoid float errors.
	Quantity      decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"quantity"`
	EntryPrice    decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"entry_price"`
	MarkPrice     decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"mark_price"`
	UnrealizedPnL decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"unrealized_pnl"`

	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Position) TableName() string {
	return "positions"
}
