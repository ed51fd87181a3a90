package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Execution decision values as reported by the trading engine.
const (
	ExecutionExecuted = "EXECUTED"
	ExecutionRejected = "REJECTED"
	ExecutionPending  = "PENDING"
)

// Outcome values recorded after the fact.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
	OutcomePending = "PENDING"
)

// Decision types emitted by the engine.
const (
	DecisionTypeSignalGeneration   = "signal_generation"
	DecisionTypeRiskValidation     = "risk_validation"
	DecisionTypeExecution          = "execution"
	DecisionTypePositionManagement = "position_management"
)

// Decision is one AI trade evaluation received from the trading engine.
// Records are immutable once ingested; only the outcome field is filled
// in later by the engine.
type Decision struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	EngineID string `gorm:"type:varchar(100);uniqueIndex;not null" json:"id"`

	Symbol       string    `gorm:"type:varchar(30);not null;index" json:"symbol"`
	DecisionType string    `gorm:"type:varchar(40);not null;index" json:"decision_type"`
	Timestamp    time.Time `gorm:"type:timestamptz;not null;index" json:"timestamp"`

	// Scores are fractions in [0,1], never percentages.
	Confidence     float64 `gorm:"not null" json:"confidence"`
	TechnicalScore float64 `gorm:"not null" json:"technical_score"`
	SentimentScore float64 `gorm:"not null" json:"sentiment_score"`

	Indicators      datatypes.JSON `gorm:"type:jsonb" json:"indicators,omitempty"`
	MarketSentiment *string        `gorm:"type:varchar(20)" json:"market_sentiment,omitempty"`
	Summary         *string        `gorm:"type:text" json:"summary,omitempty"`
	ModelVersion    *string        `gorm:"type:varchar(50)" json:"model_version,omitempty"`

	ExecutionDecision    *string        `gorm:"type:varchar(10);index" json:"execution_decision,omitempty"`
	ExecutionProbability *float64       `json:"execution_probability,omitempty"`
	RejectionReasons     datatypes.JSON `gorm:"type:jsonb" json:"rejection_reasons,omitempty"`

	// Threshold snapshot in effect at evaluation time, if the engine sent one.
	MinConfidence  *float64 `json:"min_confidence,omitempty"`
	MinTechnical   *float64 `json:"min_technical,omitempty"`
	MinSentiment   *float64 `json:"min_sentiment,omitempty"`
	MinFusionScore *float64 `json:"min_fusion_score,omitempty"`

	OutcomeResult *string `gorm:"type:varchar(10);index" json:"outcome,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"-"`
}

func (Decision) TableName() string {
	return "decisions"
}

// ExecutionStatus returns the execution decision with the absent-means-PENDING
// rule applied. Every consumer must go through this instead of reading the
// pointer directly, so the fallback cannot drift.
func (d Decision) ExecutionStatus() string {
	if d.ExecutionDecision == nil {
		return ExecutionPending
	}
	v := strings.ToUpper(strings.TrimSpace(*d.ExecutionDecision))
	if v == "" {
		return ExecutionPending
	}
	return v
}

// Outcome returns the recorded outcome, PENDING when absent.
func (d Decision) Outcome() string {
	if d.OutcomeResult == nil {
		return OutcomePending
	}
	v := strings.ToUpper(strings.TrimSpace(*d.OutcomeResult))
	if v == "" {
		return OutcomePending
	}
	return v
}

// ReasoningSummary returns the free-text summary, empty when absent.
func (d Decision) ReasoningSummary() string {
	if d.Summary == nil {
		return ""
	}
	return *d.Summary
}
