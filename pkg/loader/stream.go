package loader

import (
	"fmt"
	"io"

	"github.com/chronolab/chronopack/pkg/collate"
	"github.com/chronolab/chronopack/pkg/dataset"
	"github.com/chronolab/chronopack/pkg/series"
	"github.com/chronolab/chronopack/pkg/transform"
)

// fetchStream walks a fixed index order over a dataset source, applies the
// transform chain to each fetched record and collates the results. Each
// Next call fetches up to fetchSize records; the stream ends with io.EOF
// once the index order is consumed.
type fetchStream struct {
	src       dataset.Source
	tf        transform.Transform
	collate   collate.Collate
	indices   []int
	pos       int
	fetchSize int
}

func newFetchStream(src dataset.Source, tf transform.Transform, c collate.Collate, indices []int, fetchSize int) *fetchStream {
	if tf == nil {
		tf = transform.Identity{}
	}
	if fetchSize < 1 {
		fetchSize = 1
	}
	return &fetchStream{
		src:       src,
		tf:        tf,
		collate:   c,
		indices:   indices,
		fetchSize: fetchSize,
	}
}

// Next fetches, transforms and collates the next slice of the index order.
func (s *fetchStream) Next() (*series.Batch, error) {
	if s.pos >= len(s.indices) {
		return nil, io.EOF
	}
	end := s.pos + s.fetchSize
	if end > len(s.indices) {
		end = len(s.indices)
	}
	chunk := s.indices[s.pos:end]
	s.pos = end

	records, err := s.src.Select(chunk)
	if err != nil {
		return nil, fmt.Errorf("loader: fetching records: %w", err)
	}
	for i, rec := range records {
		out, err := s.tf.Apply(rec)
		if err != nil {
			return nil, fmt.Errorf("loader: transforming record %d: %w", chunk[i], err)
		}
		records[i] = out
	}
	return s.collate.Collate(records)
}

// cycleStream restarts an underlying stream whenever it is exhausted, by
// asking the factory for a fresh one. The factory reshuffles or redraws the
// index order, so each pass sees a new epoch.
type cycleStream struct {
	factory func() (Stream, error)
	current Stream
}

func newCycleStream(factory func() (Stream, error)) *cycleStream {
	return &cycleStream{factory: factory}
}

// Next returns the next batch, transparently rolling over to a fresh stream
// at exhaustion. An upstream that is empty from the start is reported as
// io.EOF rather than retried, so an empty dataset cannot spin forever.
func (s *cycleStream) Next() (*series.Batch, error) {
	for attempt := 0; attempt < 2; attempt++ {
		if s.current == nil {
			st, err := s.factory()
			if err != nil {
				return nil, err
			}
			s.current = st
		}
		b, err := s.current.Next()
		if err == io.EOF {
			s.current = nil
			continue
		}
		return b, err
	}
	return nil, io.EOF
}
