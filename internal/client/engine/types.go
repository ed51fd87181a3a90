// Package engine is the client for the external trading/AI engine that
// produces decisions, signals, and portfolio state. The dashboard only
// reads from it.
package engine

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"tradedash/internal/models"
)

// Stream message types delivered by the engine websocket.
const (
	EventAIDecision      = "ai_decision"
	EventSignalGenerated = "signal_generated"
	EventRegimeChange    = "regime_change"
	EventPortfolioUpdate = "portfolio_update"
	EventPositionUpdate  = "position_update"
)

// DecisionRecord mirrors the engine's wire shape. All scores are fractions
// in [0,1]; the threshold comparison semantics depend on that scale.
type DecisionRecord struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	Timestamp    Timestamp `json:"timestamp"`
	DecisionType string    `json:"decisionType"`
	Confidence   float64   `json:"confidence"`

	Reasoning ReasoningBlock `json:"reasoning"`

	ExecutionDecision    string             `json:"executionDecision,omitempty"`
	ExecutionProbability *float64           `json:"executionProbability,omitempty"`
	RejectionReasons     []string           `json:"rejectionReasons,omitempty"`
	ExecutionThresholds  *ThresholdSnapshot `json:"executionThresholds,omitempty"`

	Outcome *OutcomeBlock `json:"outcome,omitempty"`
}

type ReasoningBlock struct {
	TechnicalScore  float64  `json:"technicalScore"`
	SentimentScore  float64  `json:"sentimentScore"`
	Indicators      []string `json:"indicators,omitempty"`
	MarketSentiment string   `json:"marketSentiment,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	ModelVersion    string   `json:"modelVersion,omitempty"`
}

type ThresholdSnapshot struct {
	MinConfidence  float64 `json:"minConfidence"`
	MinTechnical   float64 `json:"minTechnical"`
	MinSentiment   float64 `json:"minSentiment"`
	MinFusionScore float64 `json:"minFusionScore"`
}

type OutcomeBlock struct {
	Result string `json:"result"`
}

// ThresholdConfigRecord is the engine's threshold config shape.
type ThresholdConfigRecord struct {
	Name           string  `json:"name"`
	MinConfidence  float64 `json:"minConfidence"`
	MinTechnical   float64 `json:"minTechnical"`
	MinSentiment   float64 `json:"minSentiment"`
	MinFusionScore float64 `json:"minFusionScore"`
	MaxRiskScore   float64 `json:"maxRiskScore"`
	MinVolumeScore float64 `json:"minVolumeScore"`
}

type PortfolioRecord struct {
	Equity        decimal.Decimal `json:"equity"`
	Balance       decimal.Decimal `json:"balance"`
	UnrealizedPnL decimal.Decimal `json:"unrealizedPnl"`
	OpenPositions int             `json:"openPositions"`
}

type PositionRecord struct {
	Symbol        string          `json:"symbol"`
	Side          string          `json:"side"`
	Quantity      decimal.Decimal `json:"quantity"`
	EntryPrice    decimal.Decimal `json:"entryPrice"`
	MarkPrice     decimal.Decimal `json:"markPrice"`
	UnrealizedPnL decimal.Decimal `json:"unrealizedPnl"`
}

type SignalRecord struct {
	SignalType string          `json:"signalType"`
	Symbol     string          `json:"symbol"`
	Direction  string          `json:"direction"`
	Strength   float64         `json:"strength"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Timestamp accepts both RFC3339 strings and epoch milliseconds, which the
// engine mixes across endpoints.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		t.Time = parsed.UTC()
		return nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// ToModel converts a wire record into the persisted shape.
func (r DecisionRecord) ToModel() models.Decision {
	d := models.Decision{
		EngineID:       strings.TrimSpace(r.ID),
		Symbol:         strings.TrimSpace(r.Symbol),
		DecisionType:   strings.TrimSpace(r.DecisionType),
		Timestamp:      r.Timestamp.Time,
		Confidence:     r.Confidence,
		TechnicalScore: r.Reasoning.TechnicalScore,
		SentimentScore: r.Reasoning.SentimentScore,
	}
	if len(r.Reasoning.Indicators) > 0 {
		if raw, err := json.Marshal(r.Reasoning.Indicators); err == nil {
			d.Indicators = datatypes.JSON(raw)
		}
	}
	if v := strings.TrimSpace(r.Reasoning.MarketSentiment); v != "" {
		d.MarketSentiment = &v
	}
	if v := strings.TrimSpace(r.Reasoning.Summary); v != "" {
		d.Summary = &v
	}
	if v := strings.TrimSpace(r.Reasoning.ModelVersion); v != "" {
		d.ModelVersion = &v
	}
	if v := strings.ToUpper(strings.TrimSpace(r.ExecutionDecision)); v != "" {
		d.ExecutionDecision = &v
	}
	d.ExecutionProbability = r.ExecutionProbability
	if len(r.RejectionReasons) > 0 {
		if raw, err := json.Marshal(r.RejectionReasons); err == nil {
			d.RejectionReasons = datatypes.JSON(raw)
		}
	}
	if snap := r.ExecutionThresholds; snap != nil {
		d.MinConfidence = &snap.MinConfidence
		d.MinTechnical = &snap.MinTechnical
		d.MinSentiment = &snap.MinSentiment
		d.MinFusionScore = &snap.MinFusionScore
	}
	if r.Outcome != nil {
		if v := strings.ToUpper(strings.TrimSpace(r.Outcome.Result)); v != "" {
			d.OutcomeResult = &v
		}
	}
	return d
}

// ToModel converts a wire threshold config into the persisted shape.
func (r ThresholdConfigRecord) ToModel() models.ThresholdConfig {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = "default"
	}
	return models.ThresholdConfig{
		Name:           name,
		MinConfidence:  r.MinConfidence,
		MinTechnical:   r.MinTechnical,
		MinSentiment:   r.MinSentiment,
		MinFusionScore: r.MinFusionScore,
		MaxRiskScore:   r.MaxRiskScore,
		MinVolumeScore: r.MinVolumeScore,
	}
}

// ToModel converts a wire position into the persisted shape.
func (r PositionRecord) ToModel() models.Position {
	return models.Position{
		Symbol:        strings.TrimSpace(r.Symbol),
		Side:          strings.ToUpper(strings.TrimSpace(r.Side)),
		Quantity:      r.Quantity,
		EntryPrice:    r.EntryPrice,
		MarkPrice:     r.MarkPrice,
		UnrealizedPnL: r.UnrealizedPnL,
	}
}

// ToModel converts a wire portfolio into a snapshot row.
func (r PortfolioRecord) ToModel() models.PortfolioSnapshot {
	return models.PortfolioSnapshot{
		Equity:        r.Equity,
		Balance:       r.Balance,
		UnrealizedPnL: r.UnrealizedPnL,
		OpenPositions: r.OpenPositions,
	}
}

// ToModel converts a wire signal into the persisted shape.
func (r SignalRecord) ToModel() models.Signal {
	s := models.Signal{
		SignalType: strings.TrimSpace(r.SignalType),
		Symbol:     strings.TrimSpace(r.Symbol),
		Direction:  strings.ToUpper(strings.TrimSpace(r.Direction)),
		Strength:   r.Strength,
	}
	if len(r.Payload) > 0 {
		s.Payload = datatypes.JSON(r.Payload)
	}
	return s
}
