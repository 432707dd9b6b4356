package transform

import (
	"fmt"
	"math"

	"github.com/perihelionlabs/exoprior/internal/tensor"
)

// TriangleTransform maps unconstrained pairs onto the valid quadratic
// limb-darkening region through the Kipping (2013) reparameterization.
//
// The unconstrained pair is first squashed onto the unit square with a
// logistic map, then pushed through the Kipping bijection, which covers the
// physical (u1, u2) triangle exactly and preserves volume.
type TriangleTransform struct{}

// Triangle returns the limb-darkening transform.
func Triangle() *TriangleTransform {
	return &TriangleTransform{}
}

// KippingForward maps (q1, q2) in the unit square to quadratic
// limb-darkening coefficients (u1, u2).
func KippingForward(q1, q2 float64) (u1, u2 float64) {
	sqrtq1 := math.Sqrt(q1)
	u1 = sqrtq1 * 2 * q2
	u2 = sqrtq1 * (1 - 2*q2)
	return u1, u2
}

// KippingBackward inverts KippingForward. It fails when u1+u2 <= 0, where
// the inverse is undefined.
func KippingBackward(u1, u2 float64) (q1, q2 float64, err error) {
	sum := u1 + u2
	if sum <= 0 {
		return 0, 0, fmt.Errorf("%w: u1+u2 = %v", ErrOutOfDomain, sum)
	}
	q1 = sum * sum
	q2 = u1 / (2 * sum)
	return q1, q2, nil
}

// Forward maps an unconstrained (2, ...) array to limb-darkening
// coefficients with the same shape, coefficient index on the first axis.
func (t *TriangleTransform) Forward(unconstrained *tensor.Array) (*tensor.Array, error) {
	if err := firstAxisTwo(unconstrained); err != nil {
		return nil, err
	}
	out := unconstrained.Clone()
	row1, err := out.Row(0)
	if err != nil {
		return nil, err
	}
	row2, err := out.Row(1)
	if err != nil {
		return nil, err
	}
	for i := range row1.Data {
		q1 := sigmoid(row1.Data[i])
		q2 := sigmoid(row2.Data[i])
		row1.Data[i], row2.Data[i] = KippingForward(q1, q2)
	}
	return out, nil
}

// Backward inverts the Kipping map and the logistic squash.
func (t *TriangleTransform) Backward(constrained *tensor.Array) (*tensor.Array, error) {
	if err := firstAxisTwo(constrained); err != nil {
		return nil, err
	}
	out := constrained.Clone()
	row1, err := out.Row(0)
	if err != nil {
		return nil, err
	}
	row2, err := out.Row(1)
	if err != nil {
		return nil, err
	}
	for i := range row1.Data {
		q1, q2, err := KippingBackward(row1.Data[i], row2.Data[i])
		if err != nil {
			return nil, err
		}
		if q1 <= 0 || q1 >= 1 || q2 <= 0 || q2 >= 1 {
			return nil, fmt.Errorf("%w: (q1, q2) = (%v, %v)", ErrOutOfDomain, q1, q2)
		}
		row1.Data[i] = logit(q1)
		row2.Data[i] = logit(q2)
	}
	return out, nil
}

// LogAbsDetJacobian is the logistic-squash term alone: the Kipping map has
// |det J| = 1 everywhere, so it contributes nothing.
func (t *TriangleTransform) LogAbsDetJacobian(unconstrained *tensor.Array) (float64, error) {
	if err := firstAxisTwo(unconstrained); err != nil {
		return 0, err
	}
	sum := 0.0
	for _, x := range unconstrained.Data {
		sum += logSigmoidPair(x)
	}
	return sum, nil
}
