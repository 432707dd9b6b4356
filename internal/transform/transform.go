// Package transform implements bijections between an unconstrained sampling
// space and constrained parameter manifolds.
//
// Every transform maps whole arrays: Forward takes unconstrained values as
// proposed by a sampler and returns physically valid constrained values,
// Backward inverts the map, and LogAbsDetJacobian returns the log absolute
// determinant correction that keeps density evaluation in the unconstrained
// space correct.
package transform

import (
	"errors"
	"math"

	"github.com/perihelionlabs/exoprior/internal/tensor"
)

// ErrInvalidBounds indicates interval bounds with lo >= hi.
var ErrInvalidBounds = errors.New("lower bound must be strictly below upper bound")

// ErrOutOfDomain indicates a constrained value outside the open manifold
// interior, where the inverse map is undefined.
var ErrOutOfDomain = errors.New("value outside the transform domain")

// ErrFirstAxis indicates an array whose first axis is not exactly 2.
var ErrFirstAxis = errors.New("first axis must be exactly 2")

// Transform is a bijection between unconstrained and constrained space.
type Transform interface {
	// Forward maps unconstrained values onto the constrained manifold.
	Forward(unconstrained *tensor.Array) (*tensor.Array, error)

	// Backward maps constrained values back to unconstrained space.
	Backward(constrained *tensor.Array) (*tensor.Array, error)

	// LogAbsDetJacobian returns the summed log absolute determinant of the
	// forward map's Jacobian, evaluated at an unconstrained point.
	LogAbsDetJacobian(unconstrained *tensor.Array) (float64, error)
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func softplus(x float64) float64 {
	return math.Max(x, 0) + math.Log1p(math.Exp(-math.Abs(x)))
}

// logSigmoidPair is log(sigmoid(x)) + log(sigmoid(-x)), the per-element
// log-Jacobian of the logistic squash onto the unit interval.
func logSigmoidPair(x float64) float64 {
	return -softplus(x) - softplus(-x)
}

func firstAxisTwo(a *tensor.Array) error {
	if a.Shape[0] != 2 {
		return ErrFirstAxis
	}
	return nil
}
