package api

import (
	"context"
	"io"
	"time"

	"github.com/printo/riderpro/cache"
	"github.com/printo/riderpro/events"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/stream"
	"github.com/printo/riderpro/types/track"
)

// storeBatchSize bounds one store transaction during populate.
const storeBatchSize = 5_000

// PopulateReader decodes NDJSON records from in and populates them.
func (f *Fleet) PopulateReader(ctx context.Context, sort bool, in io.Reader) error {
	return f.Populate(ctx, sort, stream.NDJSON[track.Record](ctx, in))
}

// Populate persists incoming tracking records: validate, dedupe, optionally
// sort into session/time order, then store in batches. Stored batches are
// published on the stored-record feed. Blocking; returns after in closes or
// ctx is done.
func (f *Fleet) Populate(ctx context.Context, sort bool, in <-chan track.Record) error {
	started := time.Now()
	stored := 0
	defer func() {
		f.logger.Info("Populate done", "stored", stored,
			"elapsed", time.Since(started).Round(time.Millisecond))
	}()

	dedupe := cache.NewDedupeFunc()
	validated := stream.Filter(ctx, func(r track.Record) bool {
		if err := r.Validate(); err != nil {
			f.logger.Error("Invalid record", "error", err)
			return false
		}
		if !dedupe(r) {
			f.logger.Warn("Deduped record", "record", r.StringPretty())
			return false
		}
		return true
	}, in)

	piped := validated
	if sort {
		// Sorting is blocking per batch.
		piped = stream.BatchSort(ctx, params.DefaultBatchSize,
			track.SlicesSortFunc, validated)
	}

	batches := stream.Batch(ctx, func(b []track.Record) bool {
		return len(b) >= storeBatchSize
	}, piped)

	for batch := range batches {
		if err := f.Store.Append(batch...); err != nil {
			f.logger.Error("Failed to store records", "error", err)
			return err
		}
		stored += len(batch)
		events.NewStoredRecordFeed.Send(batch)
	}
	return ctx.Err()
}
