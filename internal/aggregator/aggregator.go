// Package aggregator splits category lists into fixed-size chunks, computes
// a pure function over each chunk on its own worker and merges the partial
// results.
package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kosarica/feed-service/internal/workers"
)

// DefaultChunkSize is the number of records handed to one worker
const DefaultChunkSize = 50

var tracer = otel.Tracer("github.com/kosarica/feed-service/internal/aggregator")

// Options configures a single aggregation run
type Options struct {
	Name       string
	ChunkSize  int
	MaxWorkers int
	Logger     *zerolog.Logger
	Hooks      workers.Hooks
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Name == "" {
		o.Name = "aggregate"
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}

// ChunkFailure records a chunk whose contribution was dropped
type ChunkFailure struct {
	Index int
	Size  int
	Err   error
}

func (f ChunkFailure) Error() string {
	return fmt.Sprintf("chunk %d (%d records): %v", f.Index, f.Size, f.Err)
}

func (f ChunkFailure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index int    `json:"index"`
		Size  int    `json:"size"`
		Error string `json:"error"`
	}{f.Index, f.Size, f.Err.Error()})
}

// Result holds the successful partial results in chunk order plus the failures
type Result[R any] struct {
	Parts    []R
	Failures []ChunkFailure
	Chunks   int
}

// Chunk partitions items into contiguous chunks of at most size elements
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// Run dispatches every chunk of items to its own worker and waits until all of
// them have reported or ctx is done. Failed chunks are dropped from Parts and
// listed in Failures. On cancellation no result is returned. Every worker is
// terminated and has exited before Run returns, so fn should honour ctx.
func Run[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, chunk []T) (R, error), opts Options) (*Result[R], error) {
	opts = opts.withDefaults()
	if len(items) == 0 {
		return &Result[R]{}, nil
	}

	ctx, span := tracer.Start(ctx, "aggregator."+opts.Name)
	defer span.End()

	start := time.Now()
	chunks := Chunk(items, opts.ChunkSize)
	span.SetAttributes(
		attribute.Int("aggregator.records", len(items)),
		attribute.Int("aggregator.chunks", len(chunks)),
	)

	pool := workers.New(workers.PoolConfig{Name: opts.Name, MaxConcurrent: opts.MaxWorkers}, *opts.Logger, opts.Hooks)
	defer pool.TerminateAll()

	values := make([]R, len(chunks))
	handles := make([]*workers.Handle, len(chunks))
	for i, chunk := range chunks {
		i := i
		own := append([]T(nil), chunk...)
		h, err := pool.Spawn(ctx, i, func(ctx context.Context) error {
			v, err := fn(ctx, own)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to dispatch chunk %d: %w", i, err)
		}
		handles[i] = h
	}

	for _, h := range handles {
		select {
		case <-h.Done():
		case <-ctx.Done():
			pool.TerminateAll()
			pool.Wait()
			aggregationsCancelled.WithLabelValues(opts.Name).Inc()
			span.SetStatus(codes.Error, "cancelled")
			opts.Logger.Warn().
				Str("component", "aggregator").
				Str("aggregation", opts.Name).
				Msg("Aggregation cancelled, discarding worker results")
			return nil, ctx.Err()
		}
	}

	result := &Result[R]{
		Parts:  make([]R, 0, len(chunks)),
		Chunks: len(chunks),
	}
	for i, h := range handles {
		if err := h.Err(); err != nil {
			result.Failures = append(result.Failures, ChunkFailure{Index: i, Size: len(chunks[i]), Err: err})
			chunkFailures.WithLabelValues(opts.Name).Inc()
			opts.Logger.Warn().
				Str("component", "aggregator").
				Str("aggregation", opts.Name).
				Int("chunk", i).
				Err(err).
				Msg("Chunk failed, dropping its contribution")
			continue
		}
		result.Parts = append(result.Parts, values[i])
	}

	aggregationDuration.WithLabelValues(opts.Name).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("aggregator.failures", len(result.Failures)))
	opts.Logger.Debug().
		Str("component", "aggregator").
		Str("aggregation", opts.Name).
		Int("records", len(items)).
		Int("chunks", len(chunks)).
		Int("failures", len(result.Failures)).
		Dur("duration", time.Since(start)).
		Msg("Aggregation complete")

	return result, nil
}
