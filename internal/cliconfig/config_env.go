package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (CHRONOPACK_*). It respects flags that have been explicitly set (changed
// map) and returns an error if a variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("data", os.Getenv("CHRONOPACK_DATA"), &cfg.Data)
	s.setString("freq", os.Getenv("CHRONOPACK_FREQ"), &cfg.Freq)
	s.setString("collate", os.Getenv("CHRONOPACK_COLLATE"), &cfg.Collate)
	s.setString("sampling", os.Getenv("CHRONOPACK_SAMPLING"), &cfg.Sampling)
	s.setString("imputation", os.Getenv("CHRONOPACK_IMPUTATION"), &cfg.Imputation)
	s.setString("log-level", os.Getenv("CHRONOPACK_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("batch-size", os.Getenv("CHRONOPACK_BATCH_SIZE"), &cfg.BatchSize); err != nil {
		return err
	}
	if err := s.setIntFromString("max-length", os.Getenv("CHRONOPACK_MAX_LENGTH"), &cfg.MaxLength); err != nil {
		return err
	}
	if err := s.setIntFromString("past-length", os.Getenv("CHRONOPACK_PAST_LENGTH"), &cfg.PastLength); err != nil {
		return err
	}
	if err := s.setIntFromString("future-length", os.Getenv("CHRONOPACK_FUTURE_LENGTH"), &cfg.FutureLength); err != nil {
		return err
	}
	if err := s.setIntFromString("batches-per-epoch", os.Getenv("CHRONOPACK_BATCHES_PER_EPOCH"), &cfg.NumBatchesPerEpoch); err != nil {
		return err
	}
	if err := s.setIntFromString("limit", os.Getenv("CHRONOPACK_LIMIT"), &cfg.Limit); err != nil {
		return err
	}

	if err := s.setFloatFromString("batch-size-factor", os.Getenv("CHRONOPACK_BATCH_SIZE_FACTOR"), &cfg.BatchSizeFactor); err != nil {
		return err
	}
	if err := s.setFloatFromString("fraction", os.Getenv("CHRONOPACK_FRACTION"), &cfg.Fraction); err != nil {
		return err
	}
	if err := s.setFloatFromString("dummy-value", os.Getenv("CHRONOPACK_DUMMY_VALUE"), &cfg.DummyValue); err != nil {
		return err
	}
	if err := s.setInt64FromString("seed", os.Getenv("CHRONOPACK_SEED"), &cfg.Seed); err != nil {
		return err
	}

	s.setBoolFromString("drop-last", os.Getenv("CHRONOPACK_DROP_LAST"), &cfg.DropLast)
	s.setBoolFromString("fill-last", os.Getenv("CHRONOPACK_FILL_LAST"), &cfg.FillLast)
	s.setBoolFromString("cycle", os.Getenv("CHRONOPACK_CYCLE"), &cfg.Cycle)
	s.setBoolFromString("shuffle", os.Getenv("CHRONOPACK_SHUFFLE"), &cfg.Shuffle)
	s.setBoolFromString("time-features", os.Getenv("CHRONOPACK_TIME_FEATURES"), &cfg.TimeFeatures)

	return nil
}
