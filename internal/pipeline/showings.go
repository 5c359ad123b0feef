package pipeline

import (
	"time"

	"fyndchans/listingworker/internal/crawler"
	"fyndchans/listingworker/internal/showing"
)

// UpcomingShowing pairs a listing with its bucketed next showing
type UpcomingShowing struct {
	Listing crawler.Listing
	Bucket  showing.Bucket
}

// ShowingsSoon returns the listings with a showing today or tomorrow,
// earliest first.
func ShowingsSoon(listings []crawler.Listing, now time.Time) []UpcomingShowing {
	candidates := make([]crawler.Listing, len(listings))
	copy(candidates, listings)
	showing.Sort(candidates, func(l crawler.Listing) string { return l.NextShowing }, now)

	var soon []UpcomingShowing
	for _, l := range candidates {
		b, ok := showing.Format(l.NextShowing, now)
		if !ok {
			continue
		}
		if b.Kind == showing.KindToday || b.Kind == showing.KindTomorrow {
			soon = append(soon, UpcomingShowing{Listing: l, Bucket: b})
		}
	}
	return soon
}
