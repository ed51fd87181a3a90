package decision

import (
	"tradedash/internal/models"
)

// DefaultThresholds is the single source for fallback bounds. Both the
// comparison engine and any display path must read from here; the values
// are not duplicated anywhere else.
var DefaultThresholds = models.ThresholdConfig{
	Name:           "default",
	MinConfidence:  0.6,
	MinTechnical:   0.5,
	MinSentiment:   0.4,
	MinFusionScore: 0.6,
	MaxRiskScore:   0.8,
	MinVolumeScore: 0.3,
}

// closeBand is the margin below which a failed comparison renders as
// "close" instead of "fail". Display-only; it carries no business meaning.
const closeBand = 0.1

// Comparison statuses.
const (
	StatusPass  = "pass"
	StatusFail  = "fail"
	StatusClose = "close"
)

// Comparison is one realized score measured against its configured bound.
type Comparison struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
	IsRisk    bool    `json:"is_risk"`
	Passed    bool    `json:"passed"`
	Margin    float64 `json:"margin"`
	Status    string  `json:"status"`
}

// FusionScore is the weighted combination of technical and sentiment.
func FusionScore(d models.Decision) float64 {
	return 0.6*d.TechnicalScore + 0.4*d.SentimentScore
}

// RiskScore derives a risk proxy purely from confidence. The engine sends
// no real risk figure on decision records; treat this as a placeholder,
// not a genuine risk signal.
func RiskScore(d models.Decision) float64 {
	return clamp01((1 - d.Confidence) * 1.1)
}

// VolumeScore derives a volume proxy purely from confidence. Placeholder
// for the same reason as RiskScore.
func VolumeScore(d models.Decision) float64 {
	return 0.3 + d.Confidence*0.4
}

// CompareThresholds measures one decision against a threshold config and
// returns the six comparisons in display order. The decision's own
// threshold snapshot, when present, wins over the config; zero-valued
// config bounds fall back to DefaultThresholds.
func CompareThresholds(d models.Decision, cfg models.ThresholdConfig) []Comparison {
	return []Comparison{
		compare("Confidence", d.Confidence, resolve(d.MinConfidence, cfg.MinConfidence, DefaultThresholds.MinConfidence), false),
		compare("Technical", d.TechnicalScore, resolve(d.MinTechnical, cfg.MinTechnical, DefaultThresholds.MinTechnical), false),
		compare("Sentiment", d.SentimentScore, resolve(d.MinSentiment, cfg.MinSentiment, DefaultThresholds.MinSentiment), false),
		compare("Fusion", FusionScore(d), resolve(d.MinFusionScore, cfg.MinFusionScore, DefaultThresholds.MinFusionScore), false),
		compare("Risk", RiskScore(d), resolve(nil, cfg.MaxRiskScore, DefaultThresholds.MaxRiskScore), true),
		compare("Volume", VolumeScore(d), resolve(nil, cfg.MinVolumeScore, DefaultThresholds.MinVolumeScore), false),
	}
}

// compare evaluates one score against its bound. For risk-style bounds the
// direction inverts: passing means staying at or below the threshold, and
// the margin flips sign with it so margin >= 0 always means passed.
func compare(name string, score, threshold float64, isRisk bool) Comparison {
	var passed bool
	var margin float64
	if isRisk {
		passed = score <= threshold
		margin = threshold - score
	} else {
		passed = score >= threshold
		margin = score - threshold
	}

	status := StatusPass
	if !passed {
		status = StatusClose
		if margin <= -closeBand {
			status = StatusFail
		}
	}

	return Comparison{
		Name:      name,
		Score:     score,
		Threshold: threshold,
		IsRisk:    isRisk,
		Passed:    passed,
		Margin:    margin,
		Status:    status,
	}
}

// resolve picks the effective bound: decision snapshot, then config, then
// the centralized default.
func resolve(snapshot *float64, configured, fallback float64) float64 {
	if snapshot != nil {
		return *snapshot
	}
	if configured > 0 {
		return configured
	}
	return fallback
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
