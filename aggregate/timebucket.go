package aggregate

import (
	"time"

	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

// Bucket selects the calendar granularity for time-bucketed metrics.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

func (b Bucket) IsValid() bool {
	return b == BucketDay || b == BucketWeek || b == BucketMonth
}

// Key returns the bucket key for a record: the date itself for day, the
// Monday of its week for week, the YYYY-MM prefix for month. A date that
// does not parse falls back to its raw key.
func (b Bucket) Key(r track.Record) string {
	date := r.DateKey()
	switch b {
	case BucketWeek:
		day, err := time.Parse(track.DateLayout, date)
		if err != nil {
			return date
		}
		back := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -back).Format(track.DateLayout)
	case BucketMonth:
		if len(date) >= 7 {
			return date[:7]
		}
		return date
	default:
		return date
	}
}

// TimeMetrics is the rollup of one calendar bucket.
type TimeMetrics struct {
	Period string `json:"period"`

	Sessions           int `json:"sessions"`
	Employees          int `json:"employees"`
	CompletedShipments int `json:"completedShipments"`

	TotalDistanceKm float64 `json:"totalDistanceKm"`
	TotalTimeSec    float64 `json:"totalTimeSec"`
	FuelLiters      float64 `json:"fuelLiters"`
	FuelCost        float64 `json:"fuelCost"`
	AverageSpeedKmh float64 `json:"averageSpeedKmh"`

	// PeakHours counts tracking events by hour of day, from timestamps
	// rather than the (possibly client-supplied) date key.
	PeakHours [24]int `json:"peakHours"`
}

// TimeBucketMetrics rolls the batch up per calendar bucket, ordered by
// period key (chronological, since keys are ISO-formed).
func TimeBucketMetrics(records []track.Record, bucket Bucket, cfg *params.FuelConfig) []TimeMetrics {
	if !bucket.IsValid() {
		bucket = BucketDay
	}
	groups := groupBy(records, func(r track.Record) string { return bucket.Key(r) })
	out := make([]TimeMetrics, 0, len(groups))
	for _, period := range sortedKeys(groups) {
		group := groups[period]
		t := sessionTotals(group, cfg)
		tm := TimeMetrics{
			Period:   period,
			Sessions: t.Sessions,
			Employees: distinctValues(group, func(r track.Record) string {
				return r.EmployeeID
			}),
			CompletedShipments: distinctShipments(group),
			TotalDistanceKm:    t.DistanceKm,
			TotalTimeSec:       t.TimeSec,
			FuelLiters:         t.FuelLiters,
			FuelCost:           t.FuelCost,
			AverageSpeedKmh:    t.AverageSpeedKmh(),
		}
		for _, r := range group {
			tm.PeakHours[r.Time.Hour()]++
		}
		out = append(out, tm)
	}
	return out
}
