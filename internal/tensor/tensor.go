// Package tensor provides shaped float64 arrays in row-major order.
//
// Arrays are the numeric primitive shared by the distribution and transform
// packages. They are deliberately small: shape bookkeeping, first-axis views,
// and last-axis normalization are the only operations the samplers need.
package tensor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidShape indicates a shape with no axes or a non-positive axis.
var ErrInvalidShape = errors.New("shape must have at least one positive axis")

// ErrShapeMismatch indicates data that does not fit the requested shape.
var ErrShapeMismatch = errors.New("data length does not match shape")

// ErrAxisOutOfRange indicates an index outside the first axis.
var ErrAxisOutOfRange = errors.New("index outside the first axis")

// Array is a shaped float64 array. Data is stored row-major, so the last
// axis is contiguous.
type Array struct {
	Shape []int
	Data  []float64
}

// Size returns the number of elements implied by a shape.
func Size(shape []int) int {
	size := 1
	for _, n := range shape {
		size *= n
	}
	return size
}

func validShape(shape []int) bool {
	if len(shape) == 0 {
		return false
	}
	for _, n := range shape {
		if n <= 0 {
			return false
		}
	}
	return true
}

// New returns a zero-filled array with the given shape.
func New(shape ...int) (*Array, error) {
	if !validShape(shape) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, shape)
	}
	owned := append([]int(nil), shape...)
	return &Array{Shape: owned, Data: make([]float64, Size(owned))}, nil
}

// Full returns an array with every element set to value.
func Full(value float64, shape ...int) (*Array, error) {
	a, err := New(shape...)
	if err != nil {
		return nil, err
	}
	for i := range a.Data {
		a.Data[i] = value
	}
	return a, nil
}

// FromSlice wraps data in an array with the given shape. The data slice is
// not copied; the caller gives up ownership.
func FromSlice(data []float64, shape ...int) (*Array, error) {
	if !validShape(shape) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, shape)
	}
	if len(data) != Size(shape) {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrShapeMismatch, len(data), shape)
	}
	return &Array{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Size returns the total number of elements.
func (a *Array) Size() int {
	return Size(a.Shape)
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	return &Array{
		Shape: append([]int(nil), a.Shape...),
		Data:  append([]float64(nil), a.Data...),
	}
}

// Row returns a view of index i along the first axis. The view shares
// backing storage with the parent array. For a one-axis array the view is a
// single-element array.
func (a *Array) Row(i int) (*Array, error) {
	if i < 0 || i >= a.Shape[0] {
		return nil, fmt.Errorf("%w: %d of %d", ErrAxisOutOfRange, i, a.Shape[0])
	}
	if len(a.Shape) == 1 {
		return &Array{Shape: []int{1}, Data: a.Data[i : i+1]}, nil
	}
	rowSize := Size(a.Shape[1:])
	return &Array{
		Shape: append([]int(nil), a.Shape[1:]...),
		Data:  a.Data[i*rowSize : (i+1)*rowSize],
	}, nil
}

// Stack2 stacks two equal-shape arrays along a new leading axis of length 2.
func Stack2(first, second *Array) (*Array, error) {
	if !ShapeEqual(first.Shape, second.Shape) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, first.Shape, second.Shape)
	}
	shape := append([]int{2}, first.Shape...)
	data := make([]float64, 0, 2*first.Size())
	data = append(data, first.Data...)
	data = append(data, second.Data...)
	return &Array{Shape: shape, Data: data}, nil
}

// NormalizeLastAxis divides each last-axis vector by its Euclidean norm,
// in place. Zero-norm vectors are left untouched.
func (a *Array) NormalizeLastAxis() {
	width := a.Shape[len(a.Shape)-1]
	for start := 0; start < len(a.Data); start += width {
		segment := a.Data[start : start+width]
		norm := floats.Norm(segment, 2)
		if norm == 0 {
			continue
		}
		floats.Scale(1/norm, segment)
	}
}

// ShapeEqual reports whether two shapes are identical.
func ShapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
