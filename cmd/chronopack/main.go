package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/chronolab/chronopack/internal/cliconfig"
	"github.com/chronolab/chronopack/internal/pipeline"
	"github.com/chronolab/chronopack/pkg/dataset"
	"github.com/chronolab/chronopack/pkg/log"
	"github.com/chronolab/chronopack/pkg/series"
)

const longHelp = `chronopack prepares time series batches for model training.

It reads JSON Lines datasets, applies per-record transforms (imputation,
observed-value masks, calendar features, instance windowing) and collates
records into fixed-shape batches by padding or first-fit-decreasing packing.
Configure via file ($HOME/.chronopack/config.toml), CHRONOPACK_* environment
variables, or flags; later sources win.`

const exampleUsage = `  chronopack inspect --data 'data/*.jsonl'
  chronopack batches --data 'data/*.jsonl' --collate pack --batch-size 16 --num 10
  chronopack plot --data 'data/*.jsonl' --out lengths.png`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var logger log.Logger = log.NewNoopLogger()

	root := &cobra.Command{
		Use:     "chronopack",
		Short:   "Prepare time series batches for model training",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level, err := log.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			logger = log.NewZerolog(level)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.chronopack/config.toml)")
	pf.StringVar(&cfg.Data, "data", cfg.Data, "glob pattern selecting JSON Lines input files")
	pf.StringVar(&cfg.Freq, "freq", cfg.Freq, "frequency tag override, e.g. H, 15min, D")
	pf.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "records per emitted batch")
	pf.Float64Var(&cfg.BatchSizeFactor, "batch-size-factor", cfg.BatchSizeFactor, "upstream fetch size relative to batch size")
	pf.IntVar(&cfg.MaxLength, "max-length", cfg.MaxLength, "fixed time-axis length of batch rows")
	pf.IntVar(&cfg.PastLength, "past-length", cfg.PastLength, "history window length for the instance splitter")
	pf.IntVar(&cfg.FutureLength, "future-length", cfg.FutureLength, "forecast window length for the instance splitter")
	pf.StringVar(&cfg.Collate, "collate", cfg.Collate, "collate strategy: pad or pack")
	pf.BoolVar(&cfg.DropLast, "drop-last", cfg.DropLast, "discard the final short batch of a pass")
	pf.BoolVar(&cfg.FillLast, "fill-last", cfg.FillLast, "top up the final short batch with padding records")
	pf.BoolVar(&cfg.Cycle, "cycle", cfg.Cycle, "restart the dataset pass indefinitely")
	pf.IntVar(&cfg.NumBatchesPerEpoch, "batches-per-epoch", cfg.NumBatchesPerEpoch, "fixed number of batches per epoch (requires --cycle)")
	pf.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for shuffling, sampling and subsampling")
	pf.IntVar(&cfg.Limit, "limit", cfg.Limit, "subsample the dataset to at most this many records")
	pf.Float64Var(&cfg.Fraction, "fraction", cfg.Fraction, "subsample the dataset to this fraction of records")
	pf.BoolVar(&cfg.Shuffle, "shuffle", cfg.Shuffle, "shuffle the record order each pass")
	pf.StringVar(&cfg.Sampling, "sampling", cfg.Sampling, "record sampling weights: uniform or proportional")
	pf.StringVar(&cfg.Imputation, "imputation", cfg.Imputation, "missing value imputation: last_value or dummy")
	pf.Float64Var(&cfg.DummyValue, "dummy-value", cfg.DummyValue, "fill value for dummy imputation and window padding")
	pf.BoolVar(&cfg.TimeFeatures, "time-features", cfg.TimeFeatures, "add calendar time features to each record")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	root.AddCommand(inspectCmd(&cfg, &logger))
	root.AddCommand(batchesCmd(&cfg, &logger))
	root.AddCommand(plotCmd(&cfg, &logger))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "chronopack:", err)
		os.Exit(1)
	}
}

// inspectCmd reports dataset statistics, optionally re-reporting whenever the
// backing files change.
func inspectCmd(cfg *cliconfig.Config, logger *log.Logger) *cobra.Command {
	var watch bool
	var watchDir string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Report dataset statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := report(cmd.OutOrStdout(), cfg.Data); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			if watchDir == "" {
				return fmt.Errorf("--watch requires --watch-dir")
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			w := dataset.NewWatcher(watchDir, "*.jsonl", *logger)
			go func() {
				for range w.Changes() {
					if err := report(cmd.OutOrStdout(), cfg.Data); err != nil {
						(*logger).Error("re-reading dataset failed", log.Err(err))
					}
				}
			}()
			if err := w.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and re-report when the dataset changes")
	cmd.Flags().StringVar(&watchDir, "watch-dir", "", "directory to watch for dataset changes")
	return cmd
}

func report(out io.Writer, pattern string) error {
	ds, err := dataset.OpenJSONL(pattern)
	if err != nil {
		return err
	}
	lengths := ds.Lengths()
	minLen, maxLen, total := lengths[0], lengths[0], 0
	for _, l := range lengths {
		if l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
		total += l
	}
	fmt.Fprintf(out, "records:        %d\n", ds.Len())
	fmt.Fprintf(out, "freq:           %s\n", ds.Freq())
	fmt.Fprintf(out, "observations:   %d\n", total)
	fmt.Fprintf(out, "length min/avg/max: %d / %.1f / %d\n",
		minLen, float64(total)/float64(len(lengths)), maxLen)
	return nil
}

// batchesCmd runs the pipeline for a number of batches and reports shapes
// and packing efficiency.
func batchesCmd(cfg *cliconfig.Config, logger *log.Logger) *cobra.Command {
	var num int

	cmd := &cobra.Command{
		Use:   "batches",
		Short: "Run the batch pipeline and report shapes and efficiency",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.Build(*cfg, *logger)
			if err != nil {
				return err
			}
			epoch, err := p.Loader.Iter()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i := 0; i < num; i++ {
				b, err := epoch.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				id, ok := b.Field(series.FieldSampleID)
				used := 0.0
				if ok {
					ids := id.Int64s()
					nonzero := 0
					for _, v := range ids {
						if v != 0 {
							nonzero++
						}
					}
					used = float64(nonzero) / float64(len(ids))
				}
				target, _ := b.Field(firstTargetField(b))
				fmt.Fprintf(out, "batch %3d: rows=%d target=%v used=%.1f%%\n",
					i, b.Len(), target.Shape(), 100*used)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&num, "num", 10, "number of batches to produce")
	return cmd
}

func firstTargetField(b *series.Batch) string {
	if _, ok := b.Field(series.FieldTarget); ok {
		return series.FieldTarget
	}
	return series.PastField(series.FieldTarget)
}

// plotCmd renders a histogram of record lengths.
func plotCmd(cfg *cliconfig.Config, logger *log.Logger) *cobra.Command {
	var outPath string
	var bins int

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render a histogram of record lengths",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.OpenJSONL(cfg.Data)
			if err != nil {
				return err
			}
			values := make(plotter.Values, ds.Len())
			for i, l := range ds.Lengths() {
				values[i] = float64(l)
			}

			p := plot.New()
			p.Title.Text = "Record lengths"
			p.X.Label.Text = "length"
			p.Y.Label.Text = "count"

			hist, err := plotter.NewHist(values, bins)
			if err != nil {
				return err
			}
			p.Add(hist)

			if err := p.Save(8*vg.Inch, 5*vg.Inch, outPath); err != nil {
				return err
			}
			(*logger).Info("histogram written", log.String("path", outPath))
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "lengths.png", "output image path")
	cmd.Flags().IntVar(&bins, "bins", 40, "number of histogram bins")
	return cmd
}
