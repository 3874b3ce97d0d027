// Package pipeline assembles a full batch preparation pipeline from CLI
// configuration: dataset source, transform chain, collate strategy and
// dataloader.
package pipeline

import (
	"fmt"
	"math/rand"

	"github.com/chronolab/chronopack/internal/cliconfig"
	"github.com/chronolab/chronopack/pkg/collate"
	"github.com/chronolab/chronopack/pkg/dataset"
	"github.com/chronolab/chronopack/pkg/freq"
	"github.com/chronolab/chronopack/pkg/loader"
	"github.com/chronolab/chronopack/pkg/log"
	"github.com/chronolab/chronopack/pkg/sampler"
	"github.com/chronolab/chronopack/pkg/series"
	"github.com/chronolab/chronopack/pkg/transform"
)

// Pipeline is a fully wired batch preparation pipeline.
type Pipeline struct {
	Dataset *dataset.JSONL
	Source  dataset.Source
	Freq    freq.Freq
	Loader  *loader.DataLoader
}

// Build wires a pipeline from validated CLI configuration.
func Build(cfg cliconfig.Config, logger log.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	ds, err := dataset.OpenJSONL(cfg.Data)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset opened",
		log.String("pattern", cfg.Data), log.Int("records", ds.Len()))

	freqTag := cfg.Freq
	if freqTag == "" {
		freqTag = ds.Freq()
	}
	if freqTag == "" {
		return nil, fmt.Errorf("pipeline: data carries no frequency tag, set freq explicitly")
	}
	fq, err := freq.Parse(freqTag)
	if err != nil {
		return nil, err
	}

	rnd := rand.New(rand.NewSource(cfg.Seed))

	src, lengths, err := subsample(ds, cfg, rnd)
	if err != nil {
		return nil, err
	}

	var weights []float64
	if cfg.Sampling == cliconfig.SamplingProportional {
		weights = dataset.ProportionalWeights(lengths)
	}

	tf, coll, err := buildStages(cfg, fq, rnd)
	if err != nil {
		return nil, err
	}

	dl, err := loader.New(src, coll, loader.Options{
		BatchSize:          cfg.BatchSize,
		BatchSizeFactor:    cfg.BatchSizeFactor,
		Cycle:              cfg.Cycle,
		NumBatchesPerEpoch: cfg.NumBatchesPerEpoch,
		DropLast:           cfg.DropLast,
		FillLast:           cfg.FillLast,
		Shuffle:            cfg.Shuffle,
		Weights:            weights,
		Rand:               rnd,
		Transform:          tf,
		Logger:             logger,
	})
	if err != nil {
		return nil, err
	}

	return &Pipeline{Dataset: ds, Source: src, Freq: fq, Loader: dl}, nil
}

// subsample applies the one-time limit or fraction subsampling and returns
// the resulting source along with per-record target lengths.
func subsample(ds *dataset.JSONL, cfg cliconfig.Config, rnd *rand.Rand) (dataset.Source, []int, error) {
	var src dataset.Source = ds
	var err error
	switch {
	case cfg.Limit > 0:
		src, err = dataset.Limit(ds, cfg.Limit, rnd)
	case cfg.Fraction > 0 && cfg.Fraction < 1:
		src, err = dataset.Fraction(ds, cfg.Fraction, rnd)
	}
	if err != nil {
		return nil, nil, err
	}

	lengths := ds.Lengths()
	if sub, ok := src.(*dataset.Subset); ok {
		picked := make([]int, sub.Len())
		for i, idx := range sub.Indices() {
			picked[i] = lengths[idx]
		}
		lengths = picked
	}
	return src, lengths, nil
}

// buildStages creates the transform chain and collate strategy.
//
// The pad strategy works on fixed windows, so it is preceded by the
// instance splitter; the pack strategy consumes whole series capped at the
// maximum length, matching how packed pretraining batches are built.
func buildStages(cfg cliconfig.Config, fq freq.Freq, rnd *rand.Rand) (transform.Transform, collate.Collate, error) {
	method, err := imputeMethod(cfg)
	if err != nil {
		return nil, nil, err
	}

	steps := []transform.Transform{
		transform.AddObservedValues{},
		transform.Impute{Method: method},
	}
	seqFields := []string{series.FieldObserved}
	if cfg.TimeFeatures {
		steps = append(steps, transform.AddTimeFeatures{Freq: fq, PredictionLength: cfg.FutureLength})
		seqFields = append(seqFields, series.FieldTimeFeatures)
	}

	switch cfg.Collate {
	case cliconfig.CollatePad:
		bounds := sampler.Bounds{MinFuture: cfg.FutureLength}
		steps = append(steps, &transform.SplitInstance{
			PastLength:       cfg.PastLength,
			FutureLength:     cfg.FutureLength,
			Sampler:          sampler.NewExpectedCount(1, bounds, rnd),
			Freq:             fq,
			TimeSeriesFields: seqFields,
			DummyValue:       cfg.DummyValue,
		})
		pastFields := make([]string, 0, len(seqFields)+1)
		for _, name := range seqFields {
			pastFields = append(pastFields, series.PastField(name))
		}
		pastFields = append(pastFields, series.PastField(series.FieldIsPad))
		coll, err := collate.NewPad(collate.Config{
			MaxLength:   cfg.MaxLength,
			TargetField: series.PastField(series.FieldTarget),
			SeqFields:   pastFields,
		})
		if err != nil {
			return nil, nil, err
		}
		return transform.NewChain(steps...), coll, nil

	case cliconfig.CollatePack:
		cropFields := append([]string{series.FieldTarget}, seqFields...)
		steps = append(steps, transform.ApplyOffset{Offset: cfg.MaxLength, Fields: cropFields})
		coll, err := collate.NewPack(collate.Config{
			MaxLength: cfg.MaxLength,
			SeqFields: seqFields,
		})
		if err != nil {
			return nil, nil, err
		}
		return transform.NewChain(steps...), coll, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown collate strategy %q", series.ErrInvalidConfig, cfg.Collate)
	}
}

func imputeMethod(cfg cliconfig.Config) (transform.ImputeMethod, error) {
	switch cfg.Imputation {
	case cliconfig.ImputeLastValue, "":
		return transform.LastValue{}, nil
	case cliconfig.ImputeDummy:
		return transform.DummyValue{Value: cfg.DummyValue}, nil
	default:
		return nil, fmt.Errorf("%w: unknown imputation method %q", series.ErrInvalidConfig, cfg.Imputation)
	}
}
