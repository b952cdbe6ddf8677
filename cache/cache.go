// Package cache holds the small in-memory caches used around the populate
// pipeline: an LRU dedupe gate and a TTL cache of last-known fixes. Both are
// constructed per owner, never process-global.
package cache

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jellydator/ttlcache/v3"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/printo/riderpro/types/track"
)

const dedupeSize = 10_000

// NewDedupeFunc returns a predicate that passes a record the first time its
// hash is seen and rejects repeats, within an LRU horizon of recent records.
// Hash failure rejects; a record that cannot be hashed cannot be deduped.
func NewDedupeFunc() func(track.Record) bool {
	dedupe, err := lru.New[string, struct{}](dedupeSize)
	if err != nil {
		panic(err)
	}
	return func(r track.Record) bool {
		hash, err := hashstructure.Hash(r, hashstructure.FormatV2, nil)
		if err != nil {
			return false
		}
		key := fmt.Sprintf("%d", hash)
		if _, ok := dedupe.Get(key); ok {
			return false
		}
		dedupe.Add(key, struct{}{})
		return true
	}
}

// LastKnown caches the most recent record per employee with a TTL, so a
// courier who stops reporting eventually disappears from "live" views.
type LastKnown struct {
	cache *ttlcache.Cache[string, track.Record]
}

func NewLastKnown(ttl time.Duration) *LastKnown {
	return &LastKnown{
		cache: ttlcache.New[string, track.Record](
			ttlcache.WithTTL[string, track.Record](ttl)),
	}
}

func (lk *LastKnown) Set(r track.Record) {
	lk.cache.Set(r.EmployeeID, r, ttlcache.DefaultTTL)
}

func (lk *LastKnown) Get(employeeID string) (track.Record, bool) {
	item := lk.cache.Get(employeeID)
	if item == nil {
		return track.Record{}, false
	}
	return item.Value(), true
}

// All returns the cached record per employee, unordered.
func (lk *LastKnown) All() []track.Record {
	items := lk.cache.Items()
	out := make([]track.Record, 0, len(items))
	for _, item := range items {
		out = append(out, item.Value())
	}
	return out
}
