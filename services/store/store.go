package store

import (
	"context"
	"errors"
	"time"

	"fyndchans/listingworker/internal/crawler"
)

// ErrNotFound is returned by Load when nothing has been persisted yet.
var ErrNotFound = errors.New("store: snapshot not found")

// Snapshot is the persisted result set together with its write time.
type Snapshot struct {
	WrittenAt time.Time         `json:"writtenAt"`
	Listings  []crawler.Listing `json:"listings"`
}

// ListingStore persists one whole snapshot. Save overwrites; there are no
// partial updates.
type ListingStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}

// SameDay reports whether a and b fall on the same calendar date in b's location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsFresh reports whether the stored snapshot was written on now's calendar
// date. A missing or unreadable snapshot is never fresh.
func IsFresh(snapshot Snapshot, err error, now time.Time) bool {
	if err != nil || snapshot.WrittenAt.IsZero() {
		return false
	}
	return SameDay(snapshot.WrittenAt, now)
}

// Fresh loads the snapshot from s and applies IsFresh.
func Fresh(ctx context.Context, s ListingStore, now time.Time) bool {
	snapshot, err := s.Load(ctx)
	return IsFresh(snapshot, err, now)
}
