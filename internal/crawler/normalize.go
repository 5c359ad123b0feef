package crawler

import (
	"math"
	"strconv"
	"strings"

	"fyndchans/listingworker/internal/graph"
)

// DefaultSiteOrigin prefixes the relative listing paths.
const DefaultSiteOrigin = "https://www.booli.se"

// Normalizer maps raw listing entries to canonical records.
type Normalizer struct {
	SiteOrigin string
}

// Normalize converts one raw listing entry. It reports false when the entry
// does not resolve to an object; missing fields fall back to defaults.
//
// A missing list price reads as 0, so such a listing keeps a zero deal
// score even with a known valuation.
func (n Normalizer) Normalize(g *graph.Graph, raw graph.Value) (Listing, bool) {
	entry := g.Resolve(raw)
	if _, ok := entry.AsObject(); !ok {
		return Listing{}, false
	}

	listPrice := priceValue(g, entry.Field("listPrice"))
	valuation := finite(numberValue(g.Path(entry, "estimate", "price", "raw")))

	listing := Listing{
		Address:     address(g, entry),
		ListPrice:   listPrice,
		URL:         n.url(g.Resolve(entry.Field("url"))),
		NextShowing: stringValue(g.Path(entry, "nextShowing", "fullDateAndTime")),
	}

	if valuation > 0 {
		listing.Valuation = &valuation
		if listPrice > 0 {
			listing.DealScore = valuation - listPrice
		}
	}

	return listing, true
}

func (n Normalizer) url(v graph.Value) string {
	path, ok := v.AsString()
	if !ok || path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	origin := n.SiteOrigin
	if origin == "" {
		origin = DefaultSiteOrigin
	}
	return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(path, "/")
}

// priceValue reads a price that is either a structured value with a raw
// numeric sub-field or a bare number.
func priceValue(g *graph.Graph, v graph.Value) float64 {
	v = g.Resolve(v)
	if _, ok := v.AsObject(); ok {
		return finite(numberValue(g.Resolve(v.Field("raw"))))
	}
	return finite(numberValue(v))
}

// numberValue coerces numbers and numeric strings; anything else is NaN.
func numberValue(v graph.Value) float64 {
	if f, ok := v.AsNumber(); ok {
		return f
	}
	if s, ok := v.AsString(); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return f
		}
	}
	return math.NaN()
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func stringValue(v graph.Value) string {
	s, _ := v.AsString()
	return strings.TrimSpace(s)
}

func address(g *graph.Graph, entry graph.Value) *string {
	if s, ok := g.Resolve(entry.Field("streetAddress")).AsString(); ok {
		return &s
	}
	if s, ok := g.Path(entry, "location", "address", "streetAddress").AsString(); ok {
		return &s
	}
	return nil
}
