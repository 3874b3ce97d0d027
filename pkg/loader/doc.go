// Package loader assembles fixed-size training batches from a dataset
// source. A DataLoader draws an index order per pass, fetches and transforms
// records, hands them to a collate strategy, and re-slices the resulting
// variable-size batches into batches of exactly the configured size.
//
// Streams signal exhaustion with io.EOF. Epoch boundaries, final-batch
// policies (drop, fill, or emit short) and cycling are handled by the
// Iterator and DataLoader; upstream components never see them.
package loader
