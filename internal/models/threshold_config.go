package models

import (
	"fmt"
	"math"
	"time"
)

// ThresholdConfig is a named set of score bounds gating execution.
// All bounds are fractions in [0,1].
type ThresholdConfig struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`

	MinConfidence  float64 `gorm:"not null" json:"min_confidence"`
	MinTechnical   float64 `gorm:"not null" json:"min_technical"`
	MinSentiment   float64 `gorm:"not null" json:"min_sentiment"`
	MinFusionScore float64 `gorm:"not null" json:"min_fusion_score"`
	MaxRiskScore   float64 `gorm:"not null" json:"max_risk_score"`
	MinVolumeScore float64 `gorm:"not null" json:"min_volume_score"`

	Active    bool   `gorm:"default:false;index" json:"active"`
	UpdatedBy string `gorm:"type:varchar(100)" json:"updated_by,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (ThresholdConfig) TableName() string {
	return "threshold_configs"
}

// Validate returns a hard error when any bound is outside [0,1], and a
// non-empty warning when minFusionScore exceeds the lesser of
// minTechnical/minSentiment. The warning never blocks a save; the engine
// side does not enforce it either.
func (c ThresholdConfig) Validate() (warning string, err error) {
	bounds := map[string]float64{
		"min_confidence":   c.MinConfidence,
		"min_technical":    c.MinTechnical,
		"min_sentiment":    c.MinSentiment,
		"min_fusion_score": c.MinFusionScore,
		"max_risk_score":   c.MaxRiskScore,
		"min_volume_score": c.MinVolumeScore,
	}
	for name, v := range bounds {
		if v < 0 || v > 1 {
			return "", fmt.Errorf("%s must be in [0,1], got %v", name, v)
		}
	}
	if c.MinFusionScore > math.Min(c.MinTechnical, c.MinSentiment) {
		warning = "min_fusion_score exceeds the lesser of min_technical/min_sentiment; fusion gate may dominate"
	}
	return warning, nil
}
