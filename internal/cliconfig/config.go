// Package cliconfig holds the chronopack CLI configuration: defaults, a
// TOML config file, CHRONOPACK_* environment variables and command line
// flags, applied in that order of increasing precedence.
package cliconfig

import (
	"fmt"
	"strconv"
)

// Collate strategy names accepted by the CLI.
const (
	CollatePad  = "pad"
	CollatePack = "pack"
)

// Sampling weight scheme names accepted by the CLI.
const (
	SamplingUniform      = "uniform"
	SamplingProportional = "proportional"
)

// Imputation method names accepted by the CLI.
const (
	ImputeLastValue = "last_value"
	ImputeDummy     = "dummy"
)

// Config holds CLI configuration for chronopack.
type Config struct {
	// Data selects the input files, e.g. "data/*.jsonl".
	Data string
	// Freq overrides the frequency tag recorded in the data.
	Freq string

	BatchSize       int
	BatchSizeFactor float64
	MaxLength       int
	PastLength      int
	FutureLength    int

	Collate  string
	DropLast bool
	FillLast bool

	Cycle              bool
	NumBatchesPerEpoch int

	Seed     int64
	Limit    int
	Fraction float64
	Shuffle  bool
	Sampling string

	Imputation string
	DummyValue float64

	TimeFeatures bool

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BatchSize:       32,
		BatchSizeFactor: 2.0,
		MaxLength:       512,
		PastLength:      96,
		FutureLength:    24,
		Collate:         CollatePad,
		Seed:            42,
		Sampling:        SamplingUniform,
		Imputation:      ImputeLastValue,
		LogLevel:        "info",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Data == "" {
		return fmt.Errorf("data is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.BatchSizeFactor <= 0 {
		return fmt.Errorf("batch size factor must be positive")
	}
	if c.MaxLength <= 0 {
		return fmt.Errorf("max length must be positive")
	}
	if c.PastLength <= 0 || c.FutureLength < 0 {
		return fmt.Errorf("past length must be positive and future length non-negative")
	}
	if c.PastLength+c.FutureLength > c.MaxLength {
		return fmt.Errorf("window length %d exceeds max length %d",
			c.PastLength+c.FutureLength, c.MaxLength)
	}
	if c.Collate != CollatePad && c.Collate != CollatePack {
		return fmt.Errorf("unknown collate strategy %q", c.Collate)
	}
	if c.NumBatchesPerEpoch < 0 {
		return fmt.Errorf("batches per epoch must not be negative")
	}
	if c.NumBatchesPerEpoch > 0 && !c.Cycle {
		return fmt.Errorf("batches-per-epoch requires cycle")
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	if c.Fraction < 0 || c.Fraction > 1 {
		return fmt.Errorf("fraction must be in [0, 1]")
	}
	if c.Limit > 0 && c.Fraction > 0 {
		return fmt.Errorf("limit and fraction are mutually exclusive")
	}
	if c.Sampling != SamplingUniform && c.Sampling != SamplingProportional {
		return fmt.Errorf("unknown sampling scheme %q", c.Sampling)
	}
	if c.Imputation != ImputeLastValue && c.Imputation != ImputeDummy {
		return fmt.Errorf("unknown imputation method %q", c.Imputation)
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setInt64FromString parses a string to int64 and sets the destination.
func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setFloatFromString parses a string to float64 and sets the destination if valid.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
