package loader

import (
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/chronolab/chronopack/pkg/collate"
	"github.com/chronolab/chronopack/pkg/dataset"
	"github.com/chronolab/chronopack/pkg/series"
)

func testSource(t *testing.T, lengths ...int) dataset.Source {
	t.Helper()
	records := make([]series.Record, len(lengths))
	for i, n := range lengths {
		buf := make([]float32, n)
		for j := range buf {
			buf[j] = float32(i)
		}
		records[i] = series.Record{
			series.FieldTarget: series.FromFloat32(buf, n),
		}
	}
	return dataset.NewInMemory(records)
}

func padCollate(t *testing.T, maxLength int) collate.Collate {
	t.Helper()
	c, err := collate.NewPad(collate.Config{MaxLength: maxLength})
	if err != nil {
		t.Fatalf("NewPad() error: %v", err)
	}
	return c
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "minimal", opts: Options{BatchSize: 4}},
		{name: "zero batch size", opts: Options{}, wantErr: true},
		{name: "negative factor", opts: Options{BatchSize: 4, BatchSizeFactor: -1}, wantErr: true},
		{name: "epoch cap without cycle", opts: Options{BatchSize: 4, NumBatchesPerEpoch: 10}, wantErr: true},
		{name: "epoch cap with cycle", opts: Options{BatchSize: 4, NumBatchesPerEpoch: 10, Cycle: true}},
		{name: "shuffle without rand", opts: Options{BatchSize: 4, Shuffle: true}, wantErr: true},
		{name: "weights without rand", opts: Options{BatchSize: 4, Weights: []float64{1}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, series.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDataLoaderSinglePass(t *testing.T) {
	src := testSource(t, 5, 3, 4, 2, 6, 1, 3, 2, 4)
	dl, err := New(src, padCollate(t, 8), Options{BatchSize: 4})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	epoch, err := dl.Iter()
	if err != nil {
		t.Fatalf("Iter() error: %v", err)
	}

	var lens []int
	total := 0
	for epoch.HasNext() {
		b, err := epoch.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		lens = append(lens, b.Len())
		total += b.Len()
	}
	if total != 9 {
		t.Errorf("iterated %d records, want 9", total)
	}
	want := []int{4, 4, 1}
	if len(lens) != len(want) {
		t.Fatalf("batch lengths = %v, want %v", lens, want)
	}
	for i := range want {
		if lens[i] != want[i] {
			t.Errorf("batch %d Len() = %d, want %d", i, lens[i], want[i])
		}
	}

	if _, err := epoch.Next(); err != io.EOF {
		t.Errorf("Next() after the pass = %v, want io.EOF", err)
	}
}

func TestDataLoaderWeightsLengthCheck(t *testing.T) {
	src := testSource(t, 3, 3)
	_, err := New(src, padCollate(t, 8), Options{
		BatchSize: 2,
		Weights:   []float64{1, 2, 3},
		Rand:      rand.New(rand.NewSource(1)),
	})
	if !errors.Is(err, series.ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestDataLoaderEpochCap(t *testing.T) {
	src := testSource(t, 3, 3, 3, 3, 3)
	dl, err := New(src, padCollate(t, 8), Options{
		BatchSize:          2,
		Cycle:              true,
		NumBatchesPerEpoch: 3,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	for e := 0; e < 3; e++ {
		epoch, err := dl.Iter()
		if err != nil {
			t.Fatalf("Iter() error: %v", err)
		}
		count := 0
		for epoch.HasNext() {
			b, err := epoch.Next()
			if err != nil {
				t.Fatalf("epoch %d Next() error: %v", e, err)
			}
			if b.Len() != 2 {
				t.Errorf("epoch %d batch Len() = %d, want 2", e, b.Len())
			}
			count++
		}
		if count != 3 {
			t.Errorf("epoch %d produced %d batches, want 3", e, count)
		}
	}
}

func TestDataLoaderCycleCrossesPassBoundary(t *testing.T) {
	// 5 records with batch size 4: a cycling loader carries the remainder
	// into the next pass instead of emitting a short batch.
	src := testSource(t, 3, 3, 3, 3, 3)
	dl, err := New(src, padCollate(t, 8), Options{
		BatchSize:          4,
		Cycle:              true,
		NumBatchesPerEpoch: 5,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	epoch, err := dl.Iter()
	if err != nil {
		t.Fatalf("Iter() error: %v", err)
	}
	for i := 0; i < 5; i++ {
		b, err := epoch.Next()
		if err != nil {
			t.Fatalf("Next() %d error: %v", i, err)
		}
		if b.Len() != 4 {
			t.Errorf("batch %d Len() = %d, want 4", i, b.Len())
		}
	}
}

func TestDataLoaderShuffleIsSeeded(t *testing.T) {
	order := func(seed int64) []float32 {
		src := testSource(t, 2, 2, 2, 2, 2, 2, 2, 2)
		dl, err := New(src, padCollate(t, 4), Options{
			BatchSize: 8,
			Shuffle:   true,
			Rand:      rand.New(rand.NewSource(seed)),
		})
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		epoch, err := dl.Iter()
		if err != nil {
			t.Fatalf("Iter() error: %v", err)
		}
		b, err := epoch.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		target, _ := b.Field(series.FieldTarget)
		out := make([]float32, b.Len())
		for i := range out {
			out[i] = target.Float32s()[i*4]
		}
		return out
	}

	a, b := order(42), order(42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different orders: %v vs %v", a, b)
		}
	}

	c := order(43)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced the identical order")
	}
}

func TestDrawWeighted(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	weights := []float64{0.1, 0.0, 0.9}
	counts := make([]int, 3)
	for _, idx := range drawWeighted(weights, 10000, rnd) {
		counts[idx]++
	}
	if counts[1] != 0 {
		t.Errorf("zero-weight index drawn %d times", counts[1])
	}
	if counts[2] < 8500 || counts[2] > 9500 {
		t.Errorf("heavy index drawn %d times, want about 9000", counts[2])
	}
	if counts[0] < 700 || counts[0] > 1300 {
		t.Errorf("light index drawn %d times, want about 1000", counts[0])
	}
}
