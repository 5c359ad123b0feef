package pipeline

import (
	"sort"

	"fyndchans/listingworker/internal/crawler"
)

// Rank returns a copy of listings ordered by deal score, highest first.
// Equal scores keep their located order.
func Rank(listings []crawler.Listing) []crawler.Listing {
	ranked := make([]crawler.Listing, len(listings))
	copy(ranked, listings)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DealScore > ranked[j].DealScore
	})
	return ranked
}
