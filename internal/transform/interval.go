package transform

import (
	"fmt"
	"math"

	"github.com/perihelionlabs/exoprior/internal/tensor"
)

// IntervalTransform squashes each element of unconstrained space onto the
// open interval (lo, hi) with a logistic map.
type IntervalTransform struct {
	lo, hi float64
}

// Interval returns a transform onto the open interval (lo, hi).
func Interval(lo, hi float64) (*IntervalTransform, error) {
	if !(lo < hi) {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrInvalidBounds, lo, hi)
	}
	return &IntervalTransform{lo: lo, hi: hi}, nil
}

// Forward maps each element to lo + (hi-lo)*sigmoid(x).
func (t *IntervalTransform) Forward(unconstrained *tensor.Array) (*tensor.Array, error) {
	out := unconstrained.Clone()
	width := t.hi - t.lo
	for i, x := range unconstrained.Data {
		out.Data[i] = t.lo + width*sigmoid(x)
	}
	return out, nil
}

// Backward maps each element of (lo, hi) back with a logit. Values on or
// outside the interval boundary are rejected.
func (t *IntervalTransform) Backward(constrained *tensor.Array) (*tensor.Array, error) {
	out := constrained.Clone()
	width := t.hi - t.lo
	for i, y := range constrained.Data {
		if y <= t.lo || y >= t.hi {
			return nil, fmt.Errorf("%w: %v outside (%v, %v)", ErrOutOfDomain, y, t.lo, t.hi)
		}
		out.Data[i] = logit((y - t.lo) / width)
	}
	return out, nil
}

// LogAbsDetJacobian sums log((hi-lo) * sigmoid'(x)) over all elements.
func (t *IntervalTransform) LogAbsDetJacobian(unconstrained *tensor.Array) (float64, error) {
	logWidth := math.Log(t.hi - t.lo)
	sum := 0.0
	for _, x := range unconstrained.Data {
		sum += logWidth + logSigmoidPair(x)
	}
	return sum, nil
}
