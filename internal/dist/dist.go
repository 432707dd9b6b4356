// Package dist implements the constrained-parameter distributions used to
// sample exoplanet transit and orbit models.
//
// Each distribution owns a shape, a default value, and one transform onto
// its manifold, and can produce independent random draws for
// initialization and diagnostics. The gradient-based proposals themselves
// come from an external sampler that works in the unconstrained space and
// maps through the transform.
//
// Distributions are immutable after construction and safe for concurrent
// use.
package dist

import (
	"errors"
	"fmt"
)

// ErrFirstAxis indicates a shape whose first axis is not exactly 2 for a
// distribution that packs two quantities along it.
var ErrFirstAxis = errors.New("the first dimension should be exactly 2")

// ErrInitLength indicates an initial-value slice that cannot broadcast to
// the planet count.
var ErrInitLength = errors.New("initial values must be a scalar or one value per planet")

// firstAxisTwo validates the leading axis of a packed two-quantity shape.
// A bare shape of (2) is the single-planet case.
func firstAxisTwo(shape []int) error {
	if len(shape) == 0 || shape[0] != 2 {
		return fmt.Errorf("%w: shape %v", ErrFirstAxis, shape)
	}
	return nil
}
