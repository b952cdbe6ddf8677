package events

import (
	"github.com/ethereum/go-ethereum/event"
	"github.com/printo/riderpro/types/track"
)

// NewStoredRecordFeed is emitted for every batch of tracking records that is
// successfully persisted.
var NewStoredRecordFeed = event.FeedOf[[]track.Record]{}

// HTTPPopulateFeed is a feed of records as they are pushed to the server.
// The payload is near-raw: decoded, but not yet validated, deduped, nor
// necessarily persisted. Emitted only in the context of an HTTP request;
// stdin population does not pass through here.
var HTTPPopulateFeed = event.FeedOf[[]track.Record]{}
