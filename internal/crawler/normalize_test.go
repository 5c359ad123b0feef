package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyndchans/listingworker/internal/graph"
)

func decodeGraph(t *testing.T, state string) *graph.Graph {
	t.Helper()
	v, err := graph.Decode([]byte(state))
	require.NoError(t, err)
	obj, ok := v.AsObject()
	require.True(t, ok)
	return graph.New(obj)
}

func TestNormalize(t *testing.T) {
	g := decodeGraph(t, `{
		"Listing:1": {
			"__typename": "Listing",
			"streetAddress": "Hornsgatan 12",
			"listPrice": {"raw": 3995000, "formatted": "3 995 000 kr"},
			"estimate": {"__ref": "Estimate:1"},
			"url": "/annons/123",
			"nextShowing": {"fullDateAndTime": "Sön 22 feb kl 13:30"}
		},
		"Estimate:1": {"price": {"__ref": "Price:1"}},
		"Price:1": {"raw": 4200000}
	}`)

	listing, ok := Normalizer{SiteOrigin: "https://www.booli.se"}.Normalize(g, graph.Reference("Listing:1"))
	require.True(t, ok)
	require.NotNil(t, listing.Address)
	assert.Equal(t, "Hornsgatan 12", *listing.Address)
	assert.Equal(t, 3995000.0, listing.ListPrice)
	require.NotNil(t, listing.Valuation)
	assert.Equal(t, 4200000.0, *listing.Valuation)
	assert.Equal(t, 205000.0, listing.DealScore)
	assert.Equal(t, "https://www.booli.se/annons/123", listing.URL)
	assert.Equal(t, "Sön 22 feb kl 13:30", listing.NextShowing)
}

func TestNormalizeDefaults(t *testing.T) {
	g := decodeGraph(t, `{
		"NoEstimate": {"streetAddress": "A", "listPrice": 2500000},
		"ZeroEstimate": {"streetAddress": "B", "listPrice": 2500000, "estimate": {"price": {"raw": 0}}},
		"NoPrice": {"streetAddress": "C", "estimate": {"price": {"raw": 3000000}}},
		"BadPrice": {"listPrice": {"raw": "n/a"}, "estimate": {"price": {"raw": "3100000"}}},
		"Nested": {"location": {"address": {"streetAddress": "D"}}, "listPrice": 1000, "estimate": {"price": {}}}
	}`)
	n := Normalizer{}

	noEstimate, ok := n.Normalize(g, graph.Reference("NoEstimate"))
	require.True(t, ok)
	assert.Equal(t, 2500000.0, noEstimate.ListPrice)
	assert.Nil(t, noEstimate.Valuation)
	assert.Zero(t, noEstimate.DealScore)
	assert.Empty(t, noEstimate.URL)

	zero, _ := n.Normalize(g, graph.Reference("ZeroEstimate"))
	assert.Nil(t, zero.Valuation)
	assert.Zero(t, zero.DealScore)

	// valuation kept even though the missing price zeroes the score
	noPrice, _ := n.Normalize(g, graph.Reference("NoPrice"))
	assert.Zero(t, noPrice.ListPrice)
	require.NotNil(t, noPrice.Valuation)
	assert.Equal(t, 3000000.0, *noPrice.Valuation)
	assert.Zero(t, noPrice.DealScore)

	bad, _ := n.Normalize(g, graph.Reference("BadPrice"))
	assert.Zero(t, bad.ListPrice)
	assert.Nil(t, bad.Address)
	require.NotNil(t, bad.Valuation)
	assert.Equal(t, 3100000.0, *bad.Valuation)

	nestedAddr, _ := n.Normalize(g, graph.Reference("Nested"))
	require.NotNil(t, nestedAddr.Address)
	assert.Equal(t, "D", *nestedAddr.Address)
	assert.Nil(t, nestedAddr.Valuation)
}

func TestNormalizeDropsUnresolvable(t *testing.T) {
	g := decodeGraph(t, `{"Scalar": 5}`)
	n := Normalizer{}

	_, ok := n.Normalize(g, graph.Reference("Missing"))
	assert.False(t, ok)

	_, ok = n.Normalize(g, graph.Reference("Scalar"))
	assert.False(t, ok)
}

func TestNormalizeDealScoreInvariant(t *testing.T) {
	g := decodeGraph(t, `{
		"L1": {"listPrice": 100, "estimate": {"price": {"raw": 150}}},
		"L2": {"listPrice": 200, "estimate": {"price": {"raw": 120}}},
		"L3": {"listPrice": -5, "estimate": {"price": {"raw": 120}}},
		"L4": {"listPrice": 100, "estimate": {"price": {"raw": -1}}}
	}`)

	for _, key := range g.Keys() {
		listing, ok := Normalizer{}.Normalize(g, graph.Reference(key))
		require.True(t, ok)
		if listing.Valuation != nil && listing.ListPrice > 0 {
			assert.Equal(t, *listing.Valuation-listing.ListPrice, listing.DealScore, key)
		} else {
			assert.Zero(t, listing.DealScore, key)
		}
		if listing.Valuation != nil {
			assert.Greater(t, *listing.Valuation, 0.0, key)
		}
	}
}
