package publisher

import (
	"context"
	"encoding/json"
	"time"

	"fyndchans/listingworker/internal/crawler"
)

// Publisher represents a service for publishing ranked snapshots
type Publisher interface {
	// Publish publishes a message to a stream under the given field key
	Publish(ctx context.Context, key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams(ctx context.Context) error

	// Close closes the publisher connection
	Close() error
}

// SnapshotKey is the stream field a snapshot message is stored under
const SnapshotKey = "b64_listings"

// SnapshotMessage is the body consumers read off the stream
type SnapshotMessage struct {
	RunID      string            `json:"runId"`
	Provider   string            `json:"provider"`
	CapturedAt time.Time         `json:"capturedAt"`
	Listings   []crawler.Listing `json:"listings"`
}

// PublishSnapshot encodes listings and publishes them as a single message
func PublishSnapshot(ctx context.Context, p Publisher, msg SnapshotMessage) error {
	if msg.Listings == nil {
		msg.Listings = []crawler.Listing{}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.Publish(ctx, SnapshotKey, data)
}
