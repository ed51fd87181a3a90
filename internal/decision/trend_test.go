package decision

import (
	"testing"
	"time"

	"tradedash/internal/models"
)

func mkAt(ts time.Time, outcome string) models.Decision {
	d := models.Decision{
		EngineID:   "t-" + ts.Format(time.RFC3339Nano),
		Symbol:     "BTC/USDT",
		Timestamp:  ts,
		Confidence: 0.8,
	}
	if outcome != "" {
		d.OutcomeResult = strPtr(outcome)
	}
	return d
}

func TestAggregateTrend_HourlyBuckets(t *testing.T) {
	base := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	ds := []models.Decision{
		mkAt(base.Add(5*time.Minute), models.OutcomeSuccess),
		mkAt(base.Add(20*time.Minute), models.OutcomeFailure),
		mkAt(base.Add(3*time.Hour), models.OutcomeSuccess),
	}
	points := AggregateTrend(ds, Range24h)
	if len(points) != 2 {
		t.Fatalf("points=%d want=2", len(points))
	}
	if points[0].Count != 2 || points[1].Count != 1 {
		t.Fatalf("counts=%d,%d want=2,1", points[0].Count, points[1].Count)
	}
	if points[0].Accuracy != 50 || points[1].Accuracy != 100 {
		t.Fatalf("accuracies=%v,%v", points[0].Accuracy, points[1].Accuracy)
	}
}

func TestAggregateTrend_NoEmptyBucketsAscending(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	var ds []models.Decision
	// Sparse days with a deliberate gap.
	for _, day := range []int{0, 2, 3, 9} {
		ds = append(ds, mkAt(base.AddDate(0, 0, day), models.OutcomeSuccess))
	}
	points := AggregateTrend(ds, Range7d)
	if len(points) != 4 {
		t.Fatalf("points=%d want=4", len(points))
	}
	for i, p := range points {
		if p.Count == 0 {
			t.Fatalf("bucket %d has zero records", i)
		}
		if i > 0 && !points[i-1].Bucket.Before(p.Bucket) {
			t.Fatalf("bucket keys not strictly increasing at %d", i)
		}
	}
}

func TestAggregateTrend_WeekStartsSunday(t *testing.T) {
	// 2026-08-26 is a Wednesday; its week starts Sunday 2026-08-23.
	wed := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)
	points := AggregateTrend([]models.Decision{mkAt(wed, "")}, Range30d)
	if len(points) != 1 {
		t.Fatalf("points=%d want=1", len(points))
	}
	want := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	if !points[0].Bucket.Equal(want) {
		t.Fatalf("bucket=%v want=%v", points[0].Bucket, want)
	}
}

func trendPoints(accuracies ...float64) []TrendPoint {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	out := make([]TrendPoint, len(accuracies))
	for i, a := range accuracies {
		out[i] = TrendPoint{Bucket: base.AddDate(0, 0, i), Count: 1, Metrics: Metrics{Accuracy: a}}
	}
	return out
}

func TestTrendDirection(t *testing.T) {
	cases := []struct {
		name   string
		points []TrendPoint
		want   string
	}{
		{"empty", nil, TrendStable},
		{"single", trendPoints(80), TrendStable},
		{"improving", trendPoints(40, 40, 40, 80, 80, 80), TrendImproving},
		{"declining", trendPoints(80, 80, 80, 40, 40, 40), TrendDeclining},
		{"flat", trendPoints(50, 50, 50, 52, 51, 50), TrendStable},
		{"short improving", trendPoints(40, 90), TrendImproving},
	}
	for _, tc := range cases {
		if got := TrendDirection(tc.points); got != tc.want {
			t.Fatalf("%s: direction=%s want=%s", tc.name, got, tc.want)
		}
	}
}
