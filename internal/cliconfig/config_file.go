package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config for TOML decoding. Booleans are pointers so an
// absent key can be told apart from an explicit false.
type FileConfig struct {
	Data string `toml:"data"`
	Freq string `toml:"freq"`

	BatchSize       int     `toml:"batch_size"`
	BatchSizeFactor float64 `toml:"batch_size_factor"`
	MaxLength       int     `toml:"max_length"`
	PastLength      int     `toml:"past_length"`
	FutureLength    int     `toml:"future_length"`

	Collate  string `toml:"collate"`
	DropLast *bool  `toml:"drop_last"`
	FillLast *bool  `toml:"fill_last"`

	Cycle              *bool `toml:"cycle"`
	NumBatchesPerEpoch int   `toml:"batches_per_epoch"`

	Seed     *int64  `toml:"seed"`
	Limit    int     `toml:"limit"`
	Fraction float64 `toml:"fraction"`
	Shuffle  *bool   `toml:"shuffle"`
	Sampling string  `toml:"sampling"`

	Imputation string  `toml:"imputation"`
	DummyValue float64 `toml:"dummy_value"`

	TimeFeatures *bool `toml:"time_features"`

	LogLevel string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.chronopack/config.toml if the user home
// directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".chronopack", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("data", fc.Data, &cfg.Data)
	s.setString("freq", fc.Freq, &cfg.Freq)
	s.setString("collate", fc.Collate, &cfg.Collate)
	s.setString("sampling", fc.Sampling, &cfg.Sampling)
	s.setString("imputation", fc.Imputation, &cfg.Imputation)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("batch-size", fc.BatchSize, &cfg.BatchSize)
	s.setInt("max-length", fc.MaxLength, &cfg.MaxLength)
	s.setInt("past-length", fc.PastLength, &cfg.PastLength)
	s.setInt("future-length", fc.FutureLength, &cfg.FutureLength)
	s.setInt("batches-per-epoch", fc.NumBatchesPerEpoch, &cfg.NumBatchesPerEpoch)
	s.setInt("limit", fc.Limit, &cfg.Limit)

	s.setFloat("batch-size-factor", fc.BatchSizeFactor, &cfg.BatchSizeFactor)
	s.setFloat("fraction", fc.Fraction, &cfg.Fraction)
	s.setFloat("dummy-value", fc.DummyValue, &cfg.DummyValue)

	if fc.Seed != nil && !changed["seed"] {
		cfg.Seed = *fc.Seed
	}

	s.setBool("drop-last", fc.DropLast, &cfg.DropLast)
	s.setBool("fill-last", fc.FillLast, &cfg.FillLast)
	s.setBool("cycle", fc.Cycle, &cfg.Cycle)
	s.setBool("shuffle", fc.Shuffle, &cfg.Shuffle)
	s.setBool("time-features", fc.TimeFeatures, &cfg.TimeFeatures)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
