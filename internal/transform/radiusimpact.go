package transform

import (
	"fmt"
	"math"

	"github.com/perihelionlabs/exoprior/internal/tensor"
)

// RadiusImpactTransform maps unconstrained pairs onto the physically
// reachable (radius, impact parameter) region through the Espinoza (2018)
// reparameterization.
//
// The unconstrained pair is squashed onto the unit square, then pushed
// through the piecewise Espinoza bijection with the radius bounds
// (minRadius, maxRadius) baked in. The output packs radius first and
// impact parameter second along the leading axis.
type RadiusImpactTransform struct {
	minRadius, maxRadius float64
}

// RadiusImpact returns the joint radius/impact-parameter transform for
// radii bounded by 0 <= minRadius < maxRadius <= 1.
func RadiusImpact(minRadius, maxRadius float64) (*RadiusImpactTransform, error) {
	if minRadius < 0 || maxRadius > 1 || !(minRadius < maxRadius) {
		return nil, fmt.Errorf("%w: radius bounds [%v, %v]", ErrInvalidBounds, minRadius, maxRadius)
	}
	return &RadiusImpactTransform{minRadius: minRadius, maxRadius: maxRadius}, nil
}

// EspinozaForward maps (r1, r2) in the unit square to (radius, impact
// parameter) for radius bounds (pl, pu). The branch point sits at
// r1 = Ar = (pu-pl)/(2+pu+pl): above it the pair is non-grazing
// (b <= 1+pl), below it grazing. The radius is continuous across the
// branch point.
func EspinozaForward(r1, r2, pl, pu float64) (p, b float64) {
	dr := pu - pl
	ar := dr / (2 + pu + pl)
	if r1 > ar {
		b = (1 + pl) * (1 + (r1-1)/(1-ar))
		p = pl + r2*dr
		return p, b
	}
	q1 := r1 / ar
	sqrtq1 := math.Sqrt(q1)
	b = (1 + pl) + sqrtq1*r2*dr
	p = pu - dr*sqrtq1*(1-r2)
	return p, b
}

// EspinozaBackward inverts EspinozaForward. Grazing pairs with b > 1+pl
// invert through the second branch; the inverse fails outside the reachable
// transit region.
func EspinozaBackward(p, b, pl, pu float64) (r1, r2 float64, err error) {
	dr := pu - pl
	ar := dr / (2 + pu + pl)
	if b < 0 {
		return 0, 0, fmt.Errorf("%w: impact parameter %v < 0", ErrOutOfDomain, b)
	}
	if b <= 1+pl {
		r1 = 1 + (b/(1+pl)-1)*(1-ar)
		r2 = (p - pl) / dr
	} else {
		s := (b - (1 + pl)) / dr
		t := (pu - p) / dr
		sqrtq1 := s + t
		if sqrtq1 <= 0 || sqrtq1 > 1 {
			return 0, 0, fmt.Errorf("%w: (p, b) = (%v, %v)", ErrOutOfDomain, p, b)
		}
		r1 = sqrtq1 * sqrtq1 * ar
		r2 = s / sqrtq1
	}
	if r1 < 0 || r1 > 1 || r2 < 0 || r2 > 1 {
		return 0, 0, fmt.Errorf("%w: (p, b) = (%v, %v)", ErrOutOfDomain, p, b)
	}
	return r1, r2, nil
}

// Forward maps an unconstrained (2, ...) array to (radius, impact
// parameter) with the same shape.
func (t *RadiusImpactTransform) Forward(unconstrained *tensor.Array) (*tensor.Array, error) {
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
		r1 := sigmoid(row1.Data[i])
		r2 := sigmoid(row2.Data[i])
		row1.Data[i], row2.Data[i] = EspinozaForward(r1, r2, t.minRadius, t.maxRadius)
	}
	return out, nil
}

// Backward inverts the Espinoza map and the logistic squash.
func (t *RadiusImpactTransform) Backward(constrained *tensor.Array) (*tensor.Array, error) {
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
		r1, r2, err := EspinozaBackward(row1.Data[i], row2.Data[i], t.minRadius, t.maxRadius)
		if err != nil {
			return nil, err
		}
		if r1 <= 0 || r1 >= 1 || r2 <= 0 || r2 >= 1 {
			return nil, fmt.Errorf("%w: (r1, r2) = (%v, %v)", ErrOutOfDomain, r1, r2)
		}
		row1.Data[i] = logit(r1)
		row2.Data[i] = logit(r2)
	}
	return out, nil
}

// LogAbsDetJacobian sums the logistic-squash term with the per-element
// Espinoza branch determinant: (1+pl)*dr/(1-Ar) above the branch point and
// dr^2/(2*Ar) below it.
func (t *RadiusImpactTransform) LogAbsDetJacobian(unconstrained *tensor.Array) (float64, error) {
	if err := firstAxisTwo(unconstrained); err != nil {
		return 0, err
	}
	pl, pu := t.minRadius, t.maxRadius
	dr := pu - pl
	ar := dr / (2 + pu + pl)
	logDetA := math.Log((1 + pl) * dr / (1 - ar))
	logDetB := math.Log(dr * dr / (2 * ar))

	row1, err := unconstrained.Row(0)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, x := range unconstrained.Data {
		sum += logSigmoidPair(x)
	}
	for _, x := range row1.Data {
		if sigmoid(x) > ar {
			sum += logDetA
		} else {
			sum += logDetB
		}
	}
	return sum, nil
}
