package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyndchans/listingworker/internal/graph"
)

func listingEntry(address string) graph.Value {
	return graph.ObjectValue(graph.NewObject().
		Set("__typename", graph.String("Listing")).
		Set("streetAddress", graph.String(address)))
}

// nested wraps v under the given container keys, outermost first.
func nested(v graph.Value, keys ...string) graph.Value {
	for i := len(keys) - 1; i >= 0; i-- {
		v = graph.ObjectValue(graph.NewObject().Set(keys[i], v))
	}
	return v
}

func TestLocatorFindsArrayFourDeep(t *testing.T) {
	g := graph.New(nil)
	listings := graph.Sequence(listingEntry("Storgatan 1"), listingEntry("Storgatan 2"))
	candidate := nested(listings, "result", "results", "result", "listings")

	items, ok := NewLocator(DefaultMaxDepth).Locate(g, candidate)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestLocatorStopsAtDepthBound(t *testing.T) {
	g := graph.New(nil)
	listings := graph.Sequence(listingEntry("Storgatan 1"))
	keys := []string{"listings", "results", "listings", "results", "listings", "results", "listings", "results", "listings", "results"}

	_, ok := NewLocator(DefaultMaxDepth).Locate(g, nested(listings, keys...))
	assert.False(t, ok)

	// a deeper bound reaches it
	_, ok = NewLocator(10).Locate(g, nested(listings, keys...))
	assert.True(t, ok)
}

func TestLocatorTerminatesOnCycle(t *testing.T) {
	entries := graph.NewObject().
		Set("A", graph.ObjectValue(graph.NewObject().Set("listings", graph.Reference("B")))).
		Set("B", graph.ObjectValue(graph.NewObject().Set("results", graph.Reference("A"))))
	g := graph.New(entries)

	_, ok := NewLocator(DefaultMaxDepth).Locate(g, graph.Reference("A"))
	assert.False(t, ok)
}

func TestLocatorShapeCheck(t *testing.T) {
	entries := graph.NewObject().
		Set("Listing:1", graph.ObjectValue(graph.NewObject().Set("listPrice", graph.Number(1)))).
		Set("Ad:1", graph.ObjectValue(graph.NewObject().Set("title", graph.String("banner"))))
	g := graph.New(entries)
	l := NewLocator(DefaultMaxDepth)

	// first element resolved through a reference, matched by price field
	items, ok := l.Locate(g, graph.Sequence(graph.Reference("Listing:1"), graph.Reference("Ad:1")))
	require.True(t, ok)
	ref, isRef := items[0].Ref()
	assert.True(t, isRef, "elements are returned unresolved")
	assert.Equal(t, "Listing:1", ref)

	// a non-matching sequence is not descended into
	_, ok = l.Locate(g, graph.Sequence(graph.Reference("Ad:1"), graph.Reference("Listing:1")))
	assert.False(t, ok)

	_, ok = l.Locate(g, graph.Sequence())
	assert.False(t, ok)

	_, ok = l.Locate(g, graph.String("listings"))
	assert.False(t, ok)
}

func TestLocatorProbeOrder(t *testing.T) {
	g := graph.New(nil)
	first := graph.Sequence(listingEntry("Listings-vägen 1"))
	second := graph.Sequence(listingEntry("Result-vägen 1"))
	obj := graph.ObjectValue(graph.NewObject().
		Set("result", nested(second, "listings")).
		Set("listings", first))

	items, ok := NewLocator(DefaultMaxDepth).Locate(g, obj)
	require.True(t, ok)
	address, _ := items[0].Field("streetAddress").AsString()
	assert.Equal(t, "Listings-vägen 1", address)
}

func TestFindListings(t *testing.T) {
	root := graph.NewObject().
		Set("user", graph.Absent()).
		Set("searchSold({})", nested(graph.Sequence(graph.String("nope")), "result")).
		Set("recommendations", nested(graph.Sequence(listingEntry("Fel 1")), "listings")).
		Set("searchForSale({})", nested(graph.Sequence(listingEntry("Rätt 1")), "result", "listings"))
	g := graph.New(graph.NewObject().Set(DefaultRootQueryKey, graph.ObjectValue(root)))
	l := NewLocator(DefaultMaxDepth)

	items, ok := l.FindListings(g, DefaultRootQueryKey, DefaultSearchKeyPrefixes)
	require.True(t, ok)
	address, _ := items[0].Field("streetAddress").AsString()
	assert.Equal(t, "Rätt 1", address)

	_, ok = l.FindListings(g, DefaultRootQueryKey, []string{"nothing"})
	assert.False(t, ok)

	_, ok = l.FindListings(graph.New(nil), DefaultRootQueryKey, DefaultSearchKeyPrefixes)
	assert.False(t, ok)
}
