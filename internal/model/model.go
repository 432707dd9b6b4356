// Package model implements the variable registry that distributions attach
// to: an addressable graph of named random variables and deterministic
// nodes derived from them.
//
// A model is mutated only while it is being built, single-threaded, before
// sampling begins. After construction it is read-only and safe for
// concurrent readers.
package model

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/perihelionlabs/exoprior/internal/tensor"
	"github.com/perihelionlabs/exoprior/internal/transform"
)

// ErrEmptyName indicates a node registered without a name.
var ErrEmptyName = errors.New("node name must not be empty")

// ErrDuplicateName indicates two nodes registered under the same name.
var ErrDuplicateName = errors.New("node name already registered")

// ErrUnknownNode indicates a reference to a name the model does not hold.
var ErrUnknownNode = errors.New("unknown node name")

// ErrNilVariable indicates a nil random variable or deterministic function.
var ErrNilVariable = errors.New("node must not be nil")

// Point maps node names to their current values.
type Point map[string]*tensor.Array

// RandomVar is the capability set a distribution exposes to the model.
type RandomVar interface {
	Shape() []int
	Default() *tensor.Array
	Transform() transform.Transform
	CitationKeys() []string
	Draw(rng *rand.Rand, point Point) (*tensor.Array, error)
}

// DeterministicFn derives a node value from the current point. It must be a
// pure function of the point.
type DeterministicFn func(point Point) (*tensor.Array, error)

type deterministic struct {
	name string
	fn   DeterministicFn
}

// Model is an addressable graph of random and deterministic nodes.
type Model struct {
	randomOrder []string
	randoms     map[string]RandomVar
	determs     []deterministic
	determSet   map[string]struct{}
	citations   map[string]struct{}
}

// New returns an empty model.
func New() *Model {
	return &Model{
		randoms:   make(map[string]RandomVar),
		determSet: make(map[string]struct{}),
		citations: make(map[string]struct{}),
	}
}

func (m *Model) has(name string) bool {
	if _, ok := m.randoms[name]; ok {
		return true
	}
	_, ok := m.determSet[name]
	return ok
}

// Random registers a named random variable and records its citation keys.
func (m *Model) Random(name string, rv RandomVar) error {
	if name == "" {
		return ErrEmptyName
	}
	if rv == nil {
		return fmt.Errorf("%w: random variable %q", ErrNilVariable, name)
	}
	if m.has(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	m.randomOrder = append(m.randomOrder, name)
	m.randoms[name] = rv
	for _, key := range rv.CitationKeys() {
		m.citations[key] = struct{}{}
	}
	return nil
}

// Deterministic registers a named derived node. Every dependency must
// already be registered, which keeps evaluation order well defined.
func (m *Model) Deterministic(name string, fn DeterministicFn, deps ...string) error {
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return fmt.Errorf("%w: deterministic %q", ErrNilVariable, name)
	}
	if m.has(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	for _, dep := range deps {
		if !m.has(dep) {
			return fmt.Errorf("%w: dependency %q of %q", ErrUnknownNode, dep, name)
		}
	}
	m.determs = append(m.determs, deterministic{name: name, fn: fn})
	m.determSet[name] = struct{}{}
	return nil
}

// RandomNames returns random variable names in registration order.
func (m *Model) RandomNames() []string {
	return append([]string(nil), m.randomOrder...)
}

// RandomVar returns the random variable registered under name.
func (m *Model) RandomVar(name string) (RandomVar, error) {
	rv, ok := m.randoms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return rv, nil
}

// CitationKeys returns the union of citation keys over all registered
// random variables.
func (m *Model) CitationKeys() []string {
	keys := make([]string, 0, len(m.citations))
	for key := range m.citations {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DefaultPoint returns a point holding every random variable's default
// value with all deterministic nodes evaluated on top.
func (m *Model) DefaultPoint() (Point, error) {
	point := make(Point, len(m.randoms)+len(m.determs))
	for name, rv := range m.randoms {
		point[name] = rv.Default().Clone()
	}
	if err := m.evalDeterministics(point); err != nil {
		return nil, err
	}
	return point, nil
}

// EvalDeterministics evaluates all deterministic nodes against the random
// values in point and returns the extended point. The input is not
// modified.
func (m *Model) EvalDeterministics(point Point) (Point, error) {
	extended := make(Point, len(point)+len(m.determs))
	for name, value := range point {
		extended[name] = value
	}
	if err := m.evalDeterministics(extended); err != nil {
		return nil, err
	}
	return extended, nil
}

func (m *Model) evalDeterministics(point Point) error {
	for _, node := range m.determs {
		value, err := node.fn(point)
		if err != nil {
			return fmt.Errorf("evaluate %q: %w", node.name, err)
		}
		point[node.name] = value
	}
	return nil
}
