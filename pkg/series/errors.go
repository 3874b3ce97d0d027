package series

import "errors"

// Pipeline errors returned by the public API. They can be checked with
// errors.Is; callers get wrapped variants carrying field names and sizes.
var (
	// ErrSchemaMismatch is returned when a batch disagrees with the schema
	// established by the first batch appended to a queue.
	ErrSchemaMismatch = errors.New("chronopack: schema mismatch")

	// ErrInsufficientData is returned when more records are requested than
	// are currently buffered.
	ErrInsufficientData = errors.New("chronopack: insufficient data")

	// ErrLengthConstraint is returned when a record's sequence fields
	// disagree in length or exceed the configured maximum length.
	ErrLengthConstraint = errors.New("chronopack: length constraint violated")

	// ErrExhaustedSampler is returned by the instance splitter when the
	// sampler yields no valid split index within the retry budget.
	ErrExhaustedSampler = errors.New("chronopack: instance sampler exhausted retries")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("chronopack: invalid configuration")
)
