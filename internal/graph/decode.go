package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// MaxNesting is the deepest array or object nesting Decode accepts.
const MaxNesting = 10000

// Decode parses a JSON document into a Value, keeping object key order and
// turning {"__ref": "Key"} objects into references. null decodes to absent.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("graph: unexpected data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("graph: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		if depth >= MaxNesting {
			return Value{}, fmt.Errorf("graph: exceeded max depth %d", MaxNesting)
		}
		switch t {
		case '{':
			return decodeObject(dec, depth+1)
		case '[':
			return decodeSequence(dec, depth+1)
		}
		return Value{}, fmt.Errorf("graph: unexpected delimiter %q", t)
	case json.Number:
		// out of range literals keep their ±Inf and are dropped by readers
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Value{}, fmt.Errorf("graph: invalid number %q: %w", t, err)
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Absent(), nil
	}
	return Value{}, fmt.Errorf("graph: unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder, depth int) (Value, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("graph: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("graph: object key is %T", tok)
		}
		v, err := decodeValue(dec, depth)
		if err != nil {
			return Value{}, err
		}
		obj.Set(key, v)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("graph: %w", err)
	}

	if obj.Len() == 1 {
		if target, ok := obj.fields[RefKey].AsString(); ok {
			return Reference(target), nil
		}
	}
	return ObjectValue(obj), nil
}

func decodeSequence(dec *json.Decoder, depth int) (Value, error) {
	items := []Value{}
	for dec.More() {
		v, err := decodeValue(dec, depth)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("graph: %w", err)
	}
	return Sequence(items...), nil
}
