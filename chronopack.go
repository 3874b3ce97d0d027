// Package chronopack prepares time series batches for model training.
//
// The building blocks live in pkg/: dataset sources (pkg/dataset), the
// per-record transform pipeline (pkg/transform), instance samplers
// (pkg/sampler), collate strategies (pkg/collate) and the dataloader
// (pkg/loader). This package offers a configuration-driven entry point that
// wires them together the same way the CLI does.
//
// Example usage:
//
//	cfg := chronopack.DefaultConfig()
//	cfg.Data = "data/*.jsonl"
//	cfg.Collate = "pack"
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	p, err := chronopack.Build(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	epoch, err := p.Loader.Iter()
//	for epoch.HasNext() {
//	    batch, err := epoch.Next()
//	    ...
//	}
package chronopack

import (
	"github.com/chronolab/chronopack/internal/cliconfig"
	"github.com/chronolab/chronopack/internal/pipeline"
	"github.com/chronolab/chronopack/pkg/log"
)

// Config holds the pipeline configuration. Use DefaultConfig for sensible
// defaults; at minimum, set Data before building.
type Config = cliconfig.Config

// Pipeline is a fully wired batch preparation pipeline.
type Pipeline = pipeline.Pipeline

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Build wires a Pipeline from a validated Config. A nil logger disables
// logging.
func Build(cfg Config, logger log.Logger) (*Pipeline, error) {
	return pipeline.Build(cfg, logger)
}
