// Package stream provides the generic channel combinators the ingest and
// analytics pipelines are built from.
package stream

import (
	"context"
	"encoding/json"
	"io"
	"slices"
)

// Slice, et al., taken from:
// https://betterprogramming.pub/writing-a-stream-api-in-go-afbc3c4350e2

func Slice[T any](ctx context.Context, in []T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, element := range in {
			select {
			case <-ctx.Done():
				return
			case out <- element:
			}
		}
	}()
	return out
}

// NDJSON decodes newline-delimited JSON from in. The channel closes at EOF,
// or at the first malformed document; a json.Decoder cannot resync after a
// syntax error.
func NDJSON[T any](ctx context.Context, in io.Reader) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		dec := json.NewDecoder(in)
		for {
			var element T
			if err := dec.Decode(&element); err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case out <- element:
			}
		}
	}()
	return out
}

func Filter[T any](ctx context.Context, predicate func(T) bool, in <-chan T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for element := range in {
			if predicate(element) {
				select {
				case <-ctx.Done():
					return
				case out <- element:
				}
			}
		}
	}()
	return out
}

func Transform[I any, O any](ctx context.Context, transformer func(I) O, in <-chan I) <-chan O {
	out := make(chan O)
	go func() {
		defer close(out)
		for element := range in {
			select {
			case <-ctx.Done():
				return
			case out <- transformer(element):
			}
		}
	}()
	return out
}

func Collect[T any](ctx context.Context, in <-chan T) []T {
	out := make([]T, 0)
	for element := range in {
		select {
		case <-ctx.Done():
			return out
		default:
			out = append(out, element)
		}
	}
	return out
}

// Buffered re-chans in through a buffer of the given size, decoupling
// producer and consumer pacing.
func Buffered[T any](ctx context.Context, in <-chan T, size int) <-chan T {
	out := make(chan T, size)
	go func() {
		defer close(out)
		for element := range in {
			select {
			case <-ctx.Done():
				return
			case out <- element:
			}
		}
	}()
	return out
}

// Batch gathers elements into slices, emitting each batch when full
// returns true (or on channel close, for the remainder).
func Batch[T any](ctx context.Context, full func([]T) bool, in <-chan T) <-chan []T {
	out := make(chan []T)
	go func() {
		defer close(out)
		batch := []T{}
		flush := func() bool {
			if len(batch) == 0 {
				return true
			}
			select {
			case <-ctx.Done():
				return false
			case out <- batch:
				batch = []T{}
				return true
			}
		}
		for element := range in {
			batch = append(batch, element)
			if full != nil && full(batch) {
				if !flush() {
					return
				}
			}
		}
		flush()
	}()
	return out
}

// BatchSort buffers up to size elements, sorts each batch with cmp, and
// emits elements in batch order. Sorting is best-effort across batch
// boundaries: input shuffled wider than size stays partially unsorted.
func BatchSort[T any](ctx context.Context, size int, cmp func(a, b T) int, in <-chan T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		batch := make([]T, 0, size)
		flush := func() bool {
			if cmp != nil {
				slices.SortStableFunc(batch, cmp)
			}
			for _, element := range batch {
				select {
				case <-ctx.Done():
					return false
				case out <- element:
				}
			}
			batch = batch[:0]
			return true
		}
		for element := range in {
			batch = append(batch, element)
			if len(batch) >= size {
				if !flush() {
					return
				}
			}
		}
		flush()
	}()
	return out
}

// Tee fans in out to two identical channels. Both must be drained.
func Tee[T any](ctx context.Context, in <-chan T) (<-chan T, <-chan T) {
	out1, out2 := make(chan T), make(chan T)
	go func() {
		defer close(out1)
		defer close(out2)
		for element := range in {
			var a, b chan T = out1, out2
			for i := 0; i < 2; i++ {
				select {
				case <-ctx.Done():
					return
				case a <- element:
					a = nil
				case b <- element:
					b = nil
				}
			}
		}
	}()
	return out1, out2
}
