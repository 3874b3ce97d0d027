package transform

import (
	"fmt"
	"time"

	"github.com/chronolab/chronopack/pkg/freq"
	"github.com/chronolab/chronopack/pkg/sampler"
	"github.com/chronolab/chronopack/pkg/series"
)

// DefaultMaxRetries bounds how often SplitInstance re-invokes a stochastic
// sampler that returned no indices before giving up.
const DefaultMaxRetries = 100

// SplitInstance extracts a (past, future) instance from a record at a split
// index chosen by the configured sampler.
//
// The past segment holds the last PastLength observations before the split
// index, left-padded with DummyValue when the index is closer than
// PastLength to the series origin. The future segment holds FutureLength
// observations starting LeadTime periods after the index. Every field listed
// in TimeSeriesFields is split at the same index as the target; split fields
// are replaced by their "past_" and "future_" variants.
type SplitInstance struct {
	PastLength   int
	FutureLength int
	LeadTime     int
	Sampler      sampler.Sampler
	Freq         freq.Freq

	// TargetField defaults to series.FieldTarget.
	TargetField string
	// TimeSeriesFields are additional fields split alongside the target.
	TimeSeriesFields []string
	// DummyValue fills left-padded past positions.
	DummyValue float64
	// MaxRetries defaults to DefaultMaxRetries.
	MaxRetries int
}

// Apply splits the record, retrying the sampler on empty draws. It fails
// with series.ErrExhaustedSampler once the retry budget is spent; callers
// deciding to skip the record instead of aborting do so above this layer.
func (s *SplitInstance) Apply(rec series.Record) (series.Record, error) {
	targetField := s.TargetField
	if targetField == "" {
		targetField = series.FieldTarget
	}
	target, ok := rec[targetField]
	if !ok {
		return nil, fmt.Errorf("transform: split: record is missing field %q", targetField)
	}

	retries := s.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}
	var indices []int
	for i := 0; i < retries; i++ {
		if indices = s.Sampler.Sample(target); len(indices) > 0 {
			break
		}
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("transform: split: no valid split index for target of length %d after %d attempts: %w",
			target.Len(), retries, series.ErrExhaustedSampler)
	}

	return s.splitAt(rec, targetField, indices[0])
}

func (s *SplitInstance) splitAt(rec series.Record, targetField string, idx int) (series.Record, error) {
	out := rec.Clone()

	splitFields := append([]string{targetField}, s.TimeSeriesFields...)
	for _, name := range splitFields {
		arr, ok := rec[name]
		if !ok {
			return nil, fmt.Errorf("transform: split: record is missing time series field %q", name)
		}
		past, future, err := s.splitArray(arr, idx)
		if err != nil {
			return nil, fmt.Errorf("transform: split: field %q: %w", name, err)
		}
		out[series.PastField(name)] = past
		out[series.FutureField(name)] = future
		delete(out, name)
	}

	// 1 marks left-padded positions, 0 true observations.
	isPad := make([]float32, s.PastLength)
	for i := 0; i < s.PastLength-idx; i++ {
		isPad[i] = 1
	}
	out[series.PastField(series.FieldIsPad)] = series.FromFloat32(isPad, s.PastLength)

	start, ok := rec[series.FieldStart]
	if !ok {
		return nil, fmt.Errorf("transform: split: record is missing field %q", series.FieldStart)
	}
	origin := time.Unix(start.IntAt(0), 0).UTC()
	forecastStart := s.Freq.Advance(origin, idx+s.LeadTime)
	out[series.FieldForecastStart] = series.Int64Scalar(forecastStart.Unix())

	return out, nil
}

func (s *SplitInstance) splitArray(arr series.Array, idx int) (past, future series.Array, err error) {
	if idx > arr.Len() {
		return series.Array{}, series.Array{}, fmt.Errorf("split index %d beyond length %d: %w",
			idx, arr.Len(), series.ErrLengthConstraint)
	}
	if idx >= s.PastLength {
		past = arr.Slice(idx-s.PastLength, idx)
	} else {
		past = arr.Slice(0, idx).PadLeft(s.PastLength-idx, s.DummyValue)
	}

	lo := idx + s.LeadTime
	hi := lo + s.FutureLength
	if hi > arr.Len() {
		return series.Array{}, series.Array{}, fmt.Errorf("future window [%d:%d] beyond length %d: %w",
			lo, hi, arr.Len(), series.ErrLengthConstraint)
	}
	future = arr.Slice(lo, hi)
	return past, future, nil
}
