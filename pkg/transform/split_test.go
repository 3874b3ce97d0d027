package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/chronolab/chronopack/pkg/freq"
	"github.com/chronolab/chronopack/pkg/sampler"
	"github.com/chronolab/chronopack/pkg/series"
)

// fixedSampler always returns the same split index.
type fixedSampler struct{ idx int }

func (s fixedSampler) Sample(series.Array) []int { return []int{s.idx} }

// emptySampler never finds an index.
type emptySampler struct{}

func (emptySampler) Sample(series.Array) []int { return nil }

func splitInput(n int, start time.Time) series.Record {
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = float32(i)
	}
	return series.Record{
		series.FieldTarget: series.FromFloat32(buf, n),
		series.FieldStart:  series.Int64Scalar(start.Unix()),
	}
}

func TestSplitInstance(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := &SplitInstance{
		PastLength:   4,
		FutureLength: 2,
		Sampler:      fixedSampler{idx: 6},
		Freq:         freq.MustParse("H"),
	}

	out, err := s.Apply(splitInput(10, start))
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	past := out[series.PastField(series.FieldTarget)]
	wantPast := series.FromFloat32([]float32{2, 3, 4, 5}, 4)
	if !past.Equal(wantPast) {
		t.Errorf("past_target = %v, want %v", past.Float32s(), wantPast.Float32s())
	}

	future := out[series.FutureField(series.FieldTarget)]
	wantFuture := series.FromFloat32([]float32{6, 7}, 2)
	if !future.Equal(wantFuture) {
		t.Errorf("future_target = %v, want %v", future.Float32s(), wantFuture.Float32s())
	}

	if _, ok := out[series.FieldTarget]; ok {
		t.Error("split record still carries the unsplit target")
	}

	isPad := out[series.PastField(series.FieldIsPad)]
	wantPad := series.FromFloat32([]float32{0, 0, 0, 0}, 4)
	if !isPad.Equal(wantPad) {
		t.Errorf("past_is_pad = %v, want %v", isPad.Float32s(), wantPad.Float32s())
	}

	forecastStart := time.Unix(out[series.FieldForecastStart].IntAt(0), 0).UTC()
	want := start.Add(6 * time.Hour)
	if !forecastStart.Equal(want) {
		t.Errorf("forecast_start = %v, want %v", forecastStart, want)
	}
}

func TestSplitInstancePadsShortHistory(t *testing.T) {
	s := &SplitInstance{
		PastLength:   5,
		FutureLength: 2,
		Sampler:      fixedSampler{idx: 2},
		Freq:         freq.MustParse("D"),
		DummyValue:   -1,
	}

	out, err := s.Apply(splitInput(8, time.Unix(0, 0)))
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	past := out[series.PastField(series.FieldTarget)]
	wantPast := series.FromFloat32([]float32{-1, -1, -1, 0, 1}, 5)
	if !past.Equal(wantPast) {
		t.Errorf("past_target = %v, want %v", past.Float32s(), wantPast.Float32s())
	}

	isPad := out[series.PastField(series.FieldIsPad)]
	wantPad := series.FromFloat32([]float32{1, 1, 1, 0, 0}, 5)
	if !isPad.Equal(wantPad) {
		t.Errorf("past_is_pad = %v, want %v", isPad.Float32s(), wantPad.Float32s())
	}
}

func TestSplitInstanceLeadTime(t *testing.T) {
	s := &SplitInstance{
		PastLength:   2,
		FutureLength: 2,
		LeadTime:     3,
		Sampler:      fixedSampler{idx: 4},
		Freq:         freq.MustParse("H"),
	}

	out, err := s.Apply(splitInput(10, time.Unix(0, 0)))
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	future := out[series.FutureField(series.FieldTarget)]
	wantFuture := series.FromFloat32([]float32{7, 8}, 2)
	if !future.Equal(wantFuture) {
		t.Errorf("future_target = %v, want %v", future.Float32s(), wantFuture.Float32s())
	}
}

func TestSplitInstanceSplitsAuxiliaryFields(t *testing.T) {
	rec := splitInput(10, time.Unix(0, 0))
	obs := make([]float32, 10)
	for i := range obs {
		obs[i] = 1
	}
	rec[series.FieldObserved] = series.FromFloat32(obs, 10)

	s := &SplitInstance{
		PastLength:       3,
		FutureLength:     2,
		Sampler:          fixedSampler{idx: 5},
		Freq:             freq.MustParse("H"),
		TimeSeriesFields: []string{series.FieldObserved},
	}
	out, err := s.Apply(rec)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if got := out[series.PastField(series.FieldObserved)].Len(); got != 3 {
		t.Errorf("past_observed_values length = %d, want 3", got)
	}
	if got := out[series.FutureField(series.FieldObserved)].Len(); got != 2 {
		t.Errorf("future_observed_values length = %d, want 2", got)
	}
}

func TestSplitInstanceExhaustedSampler(t *testing.T) {
	s := &SplitInstance{
		PastLength:   4,
		FutureLength: 2,
		Sampler:      emptySampler{},
		Freq:         freq.MustParse("H"),
		MaxRetries:   3,
	}
	_, err := s.Apply(splitInput(10, time.Unix(0, 0)))
	if !errors.Is(err, series.ErrExhaustedSampler) {
		t.Errorf("Apply() error = %v, want ErrExhaustedSampler", err)
	}
}

func TestSplitInstanceFutureOutOfRange(t *testing.T) {
	s := &SplitInstance{
		PastLength:   2,
		FutureLength: 5,
		Sampler:      fixedSampler{idx: 8},
		Freq:         freq.MustParse("H"),
	}
	_, err := s.Apply(splitInput(10, time.Unix(0, 0)))
	if !errors.Is(err, series.ErrLengthConstraint) {
		t.Errorf("Apply() error = %v, want ErrLengthConstraint", err)
	}
}

func TestValidationSamplerCoversSeriesEnd(t *testing.T) {
	s := &SplitInstance{
		PastLength:   4,
		FutureLength: 3,
		Sampler:      sampler.NewValidationSplit(sampler.Bounds{MinFuture: 3}),
		Freq:         freq.MustParse("D"),
	}
	out, err := s.Apply(splitInput(10, time.Unix(0, 0)))
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	future := out[series.FutureField(series.FieldTarget)]
	wantFuture := series.FromFloat32([]float32{7, 8, 9}, 3)
	if !future.Equal(wantFuture) {
		t.Errorf("future_target = %v, want %v", future.Float32s(), wantFuture.Float32s())
	}
}
