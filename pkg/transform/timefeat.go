package transform

import (
	"fmt"
	"math"
	"time"

	"github.com/chronolab/chronopack/pkg/freq"
	"github.com/chronolab/chronopack/pkg/series"
)

// Cyclic calendar components encoded as sin/cos pairs, with their natural
// periods.
var calendarComponents = []struct {
	name   string
	period float64
	value  func(t time.Time) float64
}{
	{"hour_of_day", 24, func(t time.Time) float64 { return float64(t.Hour()) }},
	{"day_of_week", 7, func(t time.Time) float64 { return float64(t.Weekday()) }},
	{"day_of_month", 30.5, func(t time.Time) float64 { return float64(t.Day() - 1) }},
	{"day_of_year", 365, func(t time.Time) float64 { return float64(t.YearDay() - 1) }},
	{"month_of_year", 12, func(t time.Time) float64 { return float64(int(t.Month()) - 1) }},
}

// NumTimeFeatures is the feature dimension produced by AddTimeFeatures:
// a sin/cos pair per calendar component, a running index and a scaled year.
const NumTimeFeatures = 2*5 + 2

// AddTimeFeatures derives calendar features from the record's start
// timestamp and frequency: cyclic sin/cos encodings of hour of day, day of
// week, day of month, day of year and month of year, plus a running index
// in [0, 1] and the year scaled by 0.001. The output has shape (T, C) with
// T equal to the target length plus PredictionLength extra steps when
// Extend is set (inference mode).
type AddTimeFeatures struct {
	Freq             freq.Freq
	PredictionLength int
	// Extend appends PredictionLength future steps to the feature matrix.
	Extend bool

	// TargetField defaults to series.FieldTarget.
	TargetField string
	// OutputField defaults to series.FieldTimeFeatures.
	OutputField string
}

// Apply computes the feature matrix.
func (t AddTimeFeatures) Apply(rec series.Record) (series.Record, error) {
	targetField := t.TargetField
	if targetField == "" {
		targetField = series.FieldTarget
	}
	outputField := t.OutputField
	if outputField == "" {
		outputField = series.FieldTimeFeatures
	}

	target, ok := rec[targetField]
	if !ok {
		return nil, fmt.Errorf("transform: timefeat: record is missing field %q", targetField)
	}
	start, ok := rec[series.FieldStart]
	if !ok {
		return nil, fmt.Errorf("transform: timefeat: record is missing field %q", series.FieldStart)
	}

	length := target.Len()
	if t.Extend {
		length += t.PredictionLength
	}
	if length == 0 {
		return nil, fmt.Errorf("transform: timefeat: empty target")
	}

	origin := time.Unix(start.IntAt(0), 0).UTC()
	buf := make([]float32, 0, length*NumTimeFeatures)
	ts := origin
	for i := 0; i < length; i++ {
		if i > 0 {
			ts = t.Freq.Advance(origin, i)
		}
		for _, c := range calendarComponents {
			angle := 2 * math.Pi * c.value(ts) / (c.period - 1)
			buf = append(buf, float32(math.Sin(angle)), float32(math.Cos(angle)))
		}
		running := float32(0)
		if length > 1 {
			running = float32(i) / float32(length-1)
		}
		buf = append(buf, running, float32(ts.Year())*0.001)
	}

	out := rec.Clone()
	out[outputField] = series.FromFloat32(buf, length, NumTimeFeatures)
	return out, nil
}
