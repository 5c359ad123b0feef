package graph

// RefKey is the property name that marks an object as a reference.
const RefKey = "__ref"

// Graph is the normalized store. It is built once per fetch and never mutated.
type Graph struct {
	entries *Object
}

// New wraps the top-level entries object. A nil object gives an empty graph.
func New(entries *Object) *Graph {
	if entries == nil {
		entries = NewObject()
	}
	return &Graph{entries: entries}
}

// Entry returns the entry stored under key.
func (g *Graph) Entry(key string) (Value, bool) {
	return g.entries.Get(key)
}

// Keys returns the entry keys in document order.
func (g *Graph) Keys() []string {
	return g.entries.Keys()
}

func (g *Graph) Len() int {
	return g.entries.Len()
}

// Resolve follows v one hop when it is a reference and returns any other
// value unchanged. A dangling reference resolves to absent. Chains are not
// followed: resolving a reference to a reference yields the inner reference.
func (g *Graph) Resolve(v Value) Value {
	key, ok := v.Ref()
	if !ok {
		return v
	}
	target, _ := g.entries.Get(key)
	return target
}

// Path resolves v and then each named property in turn, resolving at every
// step. Any missing link yields absent.
func (g *Graph) Path(v Value, keys ...string) Value {
	cur := g.Resolve(v)
	for _, key := range keys {
		cur = g.Resolve(cur.Field(key))
		if cur.IsAbsent() {
			return cur
		}
	}
	return cur
}
