package model

import (
	"fmt"
)

// Value is a possibly-random scalar: either a fixed number or a reference
// to a named model node whose current value supplies the number.
type Value struct {
	name  string
	fixed float64
}

// Fixed returns a value that always resolves to v.
func Fixed(v float64) Value {
	return Value{fixed: v}
}

// Ref returns a value that resolves to the named node's current value.
func Ref(name string) Value {
	return Value{name: name}
}

// IsRef reports whether the value references a model node.
func (v Value) IsRef() bool {
	return v.name != ""
}

// Resolve evaluates the value against a point. Referenced nodes must carry
// a single-element array; the resolution happens once per call, so one
// joint evaluation sees one consistent number as long as the caller passes
// the same point throughout.
func (m *Model) Resolve(v Value, point Point) (float64, error) {
	if !v.IsRef() {
		return v.fixed, nil
	}
	value, ok := point[v.name]
	if !ok {
		extended, err := m.EvalDeterministics(point)
		if err != nil {
			return 0, err
		}
		value, ok = extended[v.name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownNode, v.name)
		}
	}
	if value.Size() != 1 {
		return 0, fmt.Errorf("resolve %q: expected a scalar, got shape %v", v.name, value.Shape)
	}
	return value.Data[0], nil
}
