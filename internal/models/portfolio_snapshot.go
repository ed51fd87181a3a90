package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot is a point-in-time copy of portfolio state, taken on
// every portfolio poll so the dashboard can chart equity over time.
type PortfolioSnapshot struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"-"`

	Equity        decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"equity"`
	Balance       decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"balance"`
	UnrealizedPnL decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"unrealized_pnl"`
	OpenPositions int             `gorm:"not null" json:"open_positions"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (PortfolioSnapshot) TableName() string {
	return "portfolio_snapshots"
}
