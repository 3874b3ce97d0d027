package series

// Well-known field names shared across the pipeline. Datasets, transforms
// and collate strategies agree on these keys; everything else is opaque.
const (
	// FieldTarget is the primary observation sequence of a record.
	FieldTarget = "target"

	// FieldStart is the record's origin timestamp, stored as a
	// zero-dimensional int64 array of Unix seconds.
	FieldStart = "start"

	// FieldObserved marks which target positions were observed (1) versus
	// missing and imputed (0).
	FieldObserved = "observed_values"

	// FieldTimeFeatures holds calendar features with shape (T, C).
	FieldTimeFeatures = "time_feat"

	// FieldIsPad marks left-padded past positions produced by the
	// instance splitter.
	FieldIsPad = "is_pad"

	// FieldForecastStart is the timestamp of the first forecast step,
	// stored like FieldStart.
	FieldForecastStart = "forecast_start"

	// FieldSampleID disambiguates records within a collated batch row:
	// zero marks padding, positive integers index packed records.
	FieldSampleID = "sample_id"
)

// PastField returns the name of the past segment of a split field.
func PastField(name string) string { return "past_" + name }

// FutureField returns the name of the future segment of a split field.
func FutureField(name string) string { return "future_" + name }
