package decision

import (
	"sort"
	"time"

	"tradedash/internal/models"
)

// Range selects the trend bucketing granularity.
type Range string

const (
	Range24h Range = "24h" // hourly buckets
	Range7d  Range = "7d"  // daily buckets
	Range30d Range = "30d" // weekly buckets, Sunday start
)

// Trend directions.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// trendBand is the accuracy delta (in percentage points) beyond which the
// trend counts as moving rather than stable.
const trendBand = 5.0

// TrendPoint is one bucket's metrics annotated with its key and size.
type TrendPoint struct {
	Bucket time.Time `json:"bucket"`
	Count  int       `json:"count"`
	Metrics
}

// AggregateTrend groups decisions into time buckets and computes metrics
// per bucket, returned in ascending bucket order. Buckets with no records
// never appear, so the series is not necessarily contiguous.
func AggregateTrend(ds []models.Decision, r Range) []TrendPoint {
	buckets := map[time.Time][]models.Decision{}
	for _, d := range ds {
		key := bucketKey(d.Timestamp, r)
		buckets[key] = append(buckets[key], d)
	}

	points := make([]TrendPoint, 0, len(buckets))
	for key, group := range buckets {
		points = append(points, TrendPoint{
			Bucket:  key,
			Count:   len(group),
			Metrics: ComputeMetrics(group),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Bucket.Before(points[j].Bucket)
	})
	return points
}

// bucketKey truncates a record timestamp to its bucket boundary in the
// record's own location.
func bucketKey(t time.Time, r Range) time.Time {
	switch r {
	case Range24h:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case Range30d:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		return day.AddDate(0, 0, -int(day.Weekday()))
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// TrendDirection compares the mean accuracy of the last three points with
// the three before them. Fewer than two points reads as stable; an empty
// earlier window counts as zero, matching how the dashboard always scored
// a brand-new series as improving.
func TrendDirection(points []TrendPoint) string {
	n := len(points)
	if n < 2 {
		return TrendStable
	}

	recentStart := n - 3
	if recentStart < 0 {
		recentStart = 0
	}
	prevStart := recentStart - 3
	if prevStart < 0 {
		prevStart = 0
	}

	diff := meanAccuracy(points[recentStart:]) - meanAccuracy(points[prevStart:recentStart])
	switch {
	case diff > trendBand:
		return TrendImproving
	case diff < -trendBand:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanAccuracy(points []TrendPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Accuracy
	}
	return sum / float64(len(points))
}
