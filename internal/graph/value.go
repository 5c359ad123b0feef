// Package graph models the normalized object graph that server-rendered
// pages embed next to their markup: a flat key to entry store whose entries
// may point at each other by key instead of nesting.
package graph

// Kind tags the variant held by a Value.
type Kind int

const (
	// KindAbsent is JSON null, a missing field or a dangling reference.
	KindAbsent Kind = iota
	KindScalar
	KindSequence
	KindObject
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindObject:
		return "object"
	case KindReference:
		return "reference"
	default:
		return "absent"
	}
}

// Value is one graph entry. The zero Value is absent.
type Value struct {
	kind   Kind
	scalar interface{} // string, float64 or bool
	items  []Value
	object *Object
	ref    string
}

// Absent returns the absent value.
func Absent() Value { return Value{} }

// String returns a string scalar.
func String(s string) Value { return Value{kind: KindScalar, scalar: s} }

// Number returns a numeric scalar.
func Number(f float64) Value { return Value{kind: KindScalar, scalar: f} }

// Bool returns a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindScalar, scalar: b} }

// Sequence returns a sequence of the given items.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

// ObjectValue wraps o. A nil object is absent.
func ObjectValue(o *Object) Value {
	if o == nil {
		return Value{}
	}
	return Value{kind: KindObject, object: o}
}

// Reference returns a value pointing at key in the same graph.
func Reference(key string) Value {
	return Value{kind: KindReference, ref: key}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Ref returns the target key when v is a reference.
func (v Value) Ref() (string, bool) {
	return v.ref, v.kind == KindReference
}

func (v Value) AsObject() (*Object, bool) {
	return v.object, v.kind == KindObject
}

func (v Value) AsSequence() ([]Value, bool) {
	return v.items, v.kind == KindSequence
}

func (v Value) AsString() (string, bool) {
	s, ok := v.scalar.(string)
	return s, ok
}

// AsNumber returns the numeric scalar. Strings are not coerced.
func (v Value) AsNumber() (float64, bool) {
	f, ok := v.scalar.(float64)
	return f, ok
}

func (v Value) AsBool() (bool, bool) {
	b, ok := v.scalar.(bool)
	return b, ok
}

// Field returns the named property of an object value, or absent.
// References are not followed.
func (v Value) Field(key string) Value {
	if v.kind != KindObject {
		return Value{}
	}
	f, _ := v.object.Get(key)
	return f
}

// Object is a JSON object that remembers the order its keys were read in.
type Object struct {
	keys   []string
	fields map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

// Set stores value under key. A key keeps its first position when overwritten.
func (o *Object) Set(key string, value Value) *Object {
	if _, exists := o.fields[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = value
	return o
}

// Get returns the property stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.fields[key]
	return v, ok
}

// Has reports whether key is present, even with a null value.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the property names in document order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}
