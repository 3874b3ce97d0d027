// Package series defines the data model shared by the chronopack pipeline:
// typed numeric arrays with a leading time (or batch) axis, records mapping
// field names to arrays, and sliceable stacked batches.
//
// Arrays are stored as flat row-major buffers with an explicit shape. Axis 0
// is the time axis for per-record fields and the batch axis for stacked
// batch fields. Scalars are zero-dimensional arrays, which lets timestamps
// and other per-record values flow through batching unchanged.
package series
