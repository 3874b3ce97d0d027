package loader

import (
	"fmt"
	"io"

	"github.com/chronolab/chronopack/pkg/log"
	"github.com/chronolab/chronopack/pkg/series"
)

// Stream yields batches of arbitrary size. io.EOF signals exhaustion; it is
// the loop-termination signal, not a failure.
type Stream interface {
	Next() (*series.Batch, error)
}

// Iterator re-slices an upstream stream of variable-size batches into
// batches of exactly batchSize records. It buffers upstream batches in a
// Queue and pulls more on demand.
//
// At upstream exhaustion the remaining records are handled by policy:
// dropped (dropLast), topped up with zero-filled padding records (fillLast),
// or emitted once as a final short batch.
type Iterator struct {
	upstream  Stream
	batchSize int
	dropLast  bool
	fillLast  bool
	queue     *Queue
	done      bool
	logger    log.Logger
}

// NewIterator creates an Iterator over upstream.
func NewIterator(upstream Stream, batchSize int, dropLast, fillLast bool, logger log.Logger) (*Iterator, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", series.ErrInvalidConfig, batchSize)
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Iterator{
		upstream:  upstream,
		batchSize: batchSize,
		dropLast:  dropLast,
		fillLast:  fillLast,
		queue:     NewQueue(),
		logger:    logger,
	}, nil
}

// Next returns the next batch of exactly batchSize records, or a final
// shorter batch depending on policy. It returns io.EOF when the upstream is
// drained and nothing remains to emit.
func (it *Iterator) Next() (*series.Batch, error) {
	if it.done {
		return nil, io.EOF
	}

	for it.queue.Len() < it.batchSize {
		b, err := it.upstream.Next()
		if err == io.EOF {
			if it.dropLast || it.queue.Len() == 0 {
				if it.queue.Len() > 0 {
					it.logger.Debug("dropping final short batch",
						log.Int("remaining", it.queue.Len()),
						log.Int("batch_size", it.batchSize))
				}
				it.done = true
				return nil, io.EOF
			}
			if it.fillLast {
				if err := it.padQueue(it.batchSize - it.queue.Len()); err != nil {
					return nil, err
				}
			}
			break
		}
		if err != nil {
			return nil, err
		}
		if err := it.queue.Append(b); err != nil {
			return nil, err
		}
	}

	n := it.batchSize
	if it.queue.Len() < n {
		n = it.queue.Len()
	}
	return it.queue.PopFront(n)
}

// HasNext reports whether another batch is available without losing data:
// when it must probe the upstream it pushes the probed batch back to the
// front of the queue.
func (it *Iterator) HasNext() bool {
	if it.done {
		return false
	}
	if it.queue.Len() >= it.batchSize {
		return true
	}
	b, err := it.Next()
	if err == io.EOF {
		return false
	}
	if err != nil {
		it.logger.Error("lookahead probe failed", log.Err(err))
		return false
	}
	if err := it.queue.AppendLeft(b); err != nil {
		it.logger.Error("pushing probed batch back failed", log.Err(err))
		return false
	}
	return true
}

// padQueue appends a zero-filled batch of the given size, built from the
// queue's established schema.
func (it *Iterator) padQueue(size int) error {
	schema := it.queue.Schema()
	if schema == nil {
		return fmt.Errorf("loader: cannot pad queue before schema is established")
	}
	fields := make(map[string]series.Array, len(schema))
	for name, md := range schema {
		fields[name] = series.Zeros(append([]int{size}, md.Shape...), md.DType)
	}
	pad, err := series.NewBatch(fields)
	if err != nil {
		return fmt.Errorf("loader: building padding batch: %w", err)
	}
	it.logger.Debug("filling final batch with padding records", log.Int("count", size))
	return it.queue.Append(pad)
}
