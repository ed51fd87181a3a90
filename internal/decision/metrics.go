// Package decision holds the pure derivation functions behind the dashboard:
// aggregate metrics, list filtering/sorting/pagination, threshold comparison,
// and trend bucketing. Everything here is total over its input, synchronous,
// and free of side effects; callers recompute on every request.
package decision

import (
	"math"

	"tradedash/internal/models"
)

// highConfidenceFloor marks the subset used for precision.
const highConfidenceFloor = 0.8

// Metrics is the fixed-shape summary computed from a decision list.
// Rates are fractions in [0,1]; the remaining fields are percentages.
type Metrics struct {
	ExecutionRate          float64 `json:"execution_rate"`
	AvgConfidence          float64 `json:"avg_confidence"`
	Accuracy               float64 `json:"accuracy"`
	Precision              float64 `json:"precision"`
	Recall                 float64 `json:"recall"`
	F1Score                float64 `json:"f1_score"`
	ImprovementRate        float64 `json:"improvement_rate"`
	ThresholdEffectiveness float64 `json:"threshold_effectiveness"`
	AvgExecutedConfidence  float64 `json:"avg_executed_confidence"`
	AvgRejectedConfidence  float64 `json:"avg_rejected_confidence"`
}

// ComputeMetrics derives the summary metrics for a decision list. An empty
// list yields the zero value; no division by zero anywhere.
//
// Recall is deliberately the same number as accuracy: the engine records no
// notion of missed opportunities, so there are no false negatives to count.
// Changing that here would silently shift every F1 score.
func ComputeMetrics(ds []models.Decision) Metrics {
	total := len(ds)
	if total == 0 {
		return Metrics{}
	}

	var (
		executed      int
		rejected      int
		confSum       float64
		execConfSum   float64
		rejConfSum    float64
		goodRejection int
	)
	for _, d := range ds {
		confSum += d.Confidence
		switch d.ExecutionStatus() {
		case models.ExecutionExecuted:
			executed++
			execConfSum += d.Confidence
		case models.ExecutionRejected:
			rejected++
			rejConfSum += d.Confidence
			if d.Outcome() != models.OutcomeSuccess {
				goodRejection++
			}
		}
	}

	accuracy := accuracyOf(ds)
	precision := precisionOf(ds)
	recall := accuracy

	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	// Records arrive newest-first, so the first half is the recent window.
	mid := total / 2
	improvement := accuracyOf(ds[:mid]) - accuracyOf(ds[mid:])

	effectiveness := 0.0
	if rejected > 0 {
		effectiveness = float64(goodRejection) / float64(rejected) * 100
	}

	m := Metrics{
		ExecutionRate:          float64(executed) / float64(total),
		AvgConfidence:          math.Round(confSum / float64(total) * 100),
		Accuracy:               accuracy,
		Precision:              precision,
		Recall:                 recall,
		F1Score:                f1,
		ImprovementRate:        improvement,
		ThresholdEffectiveness: effectiveness,
	}
	if executed > 0 {
		m.AvgExecutedConfidence = math.Round(execConfSum / float64(executed) * 100)
	}
	if rejected > 0 {
		m.AvgRejectedConfidence = math.Round(rejConfSum / float64(rejected) * 100)
	}
	return m
}

// accuracyOf is the overall success rate in percent, 0 on empty input.
func accuracyOf(ds []models.Decision) float64 {
	if len(ds) == 0 {
		return 0
	}
	success := 0
	for _, d := range ds {
		if d.Outcome() == models.OutcomeSuccess {
			success++
		}
	}
	return float64(success) / float64(len(ds)) * 100
}

// precisionOf is the success rate within the high-confidence subset.
func precisionOf(ds []models.Decision) float64 {
	subset := 0
	success := 0
	for _, d := range ds {
		if d.Confidence < highConfidenceFloor {
			continue
		}
		subset++
		if d.Outcome() == models.OutcomeSuccess {
			success++
		}
	}
	if subset == 0 {
		return 0
	}
	return float64(success) / float64(subset) * 100
}
