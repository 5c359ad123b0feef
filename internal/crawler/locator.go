package crawler

import (
	"strings"

	"fyndchans/listingworker/internal/graph"
)

const (
	// DefaultMaxDepth bounds the listings search below a root-query entry.
	DefaultMaxDepth = 5
	// DefaultRootQueryKey is the graph entry holding top-level query results.
	DefaultRootQueryKey = "ROOT_QUERY"
	// ListingTypename is the type tag carried by listing entries.
	ListingTypename = "Listing"
	// TypenameKey is the property holding an entry's type tag.
	TypenameKey = "__typename"
)

// DefaultContainerKeys are the properties probed, in order, when descending
// into an object in search of the listings collection.
var DefaultContainerKeys = []string{"listings", "result", "results"}

// DefaultSearchKeyPrefixes select the root-query properties used as entry points.
var DefaultSearchKeyPrefixes = []string{"search"}

// ShapePredicate reports whether an entry looks like a listing.
type ShapePredicate func(obj *graph.Object) bool

// HasTypename matches entries whose type tag equals name.
func HasTypename(name string) ShapePredicate {
	return func(obj *graph.Object) bool {
		v, _ := obj.Get(TypenameKey)
		s, ok := v.AsString()
		return ok && s == name
	}
}

// HasField matches entries carrying the named property.
func HasField(name string) ShapePredicate {
	return func(obj *graph.Object) bool {
		return obj.Has(name)
	}
}

// DefaultShapePredicates recognise a listing by type tag, street address or price.
var DefaultShapePredicates = []ShapePredicate{
	HasTypename(ListingTypename),
	HasField("streetAddress"),
	HasField("listPrice"),
}

// Locator searches the graph for the listings collection without relying
// on a fixed schema.
type Locator struct {
	MaxDepth      int
	ContainerKeys []string
	Shapes        []ShapePredicate
}

// NewLocator returns a locator with the default probes and the given depth
// bound. A non-positive depth selects DefaultMaxDepth.
func NewLocator(maxDepth int) Locator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return Locator{
		MaxDepth:      maxDepth,
		ContainerKeys: DefaultContainerKeys,
		Shapes:        DefaultShapePredicates,
	}
}

// LooksLikeListing reports whether v (already resolved) is an object that
// satisfies any shape predicate.
func (l Locator) LooksLikeListing(v graph.Value) bool {
	obj, ok := v.AsObject()
	if !ok {
		return false
	}
	for _, shape := range l.Shapes {
		if shape(obj) {
			return true
		}
	}
	return false
}

// Locate returns the listings sequence reachable from v. Elements are
// returned as stored and may still be references.
func (l Locator) Locate(g *graph.Graph, v graph.Value) ([]graph.Value, bool) {
	return l.locate(g, v, 0)
}

func (l Locator) locate(g *graph.Graph, v graph.Value, depth int) ([]graph.Value, bool) {
	v = g.Resolve(v)
	if depth > l.MaxDepth {
		return nil, false
	}

	switch v.Kind() {
	case graph.KindSequence:
		items, _ := v.AsSequence()
		// a sequence that fails the shape check is not descended into
		if len(items) > 0 && l.LooksLikeListing(g.Resolve(items[0])) {
			return items, true
		}
		return nil, false
	case graph.KindObject:
		obj, _ := v.AsObject()
		for _, key := range l.ContainerKeys {
			child, ok := obj.Get(key)
			if !ok {
				continue
			}
			if items, found := l.locate(g, child, depth+1); found {
				return items, true
			}
		}
	}
	return nil, false
}

// FindListings tries each root-query property whose name starts with one of
// prefixes, in document order, and returns the first listings collection found.
func (l Locator) FindListings(g *graph.Graph, rootKey string, prefixes []string) ([]graph.Value, bool) {
	root, ok := g.Resolve(graph.Reference(rootKey)).AsObject()
	if !ok {
		return nil, false
	}

	for _, key := range root.Keys() {
		if !hasAnyPrefix(key, prefixes) {
			continue
		}
		candidate, _ := root.Get(key)
		if items, found := l.Locate(g, candidate); found {
			return items, true
		}
	}
	return nil, false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
