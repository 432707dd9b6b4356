package transform

import (
	"github.com/perihelionlabs/exoprior/internal/tensor"
)

// UnitVectorTransform maps unconstrained vectors onto the unit hypersphere
// by normalizing along the last axis.
type UnitVectorTransform struct{}

// UnitVector returns the unit-sphere transform.
func UnitVector() *UnitVectorTransform {
	return &UnitVectorTransform{}
}

// Forward normalizes each last-axis vector to unit Euclidean length.
func (t *UnitVectorTransform) Forward(unconstrained *tensor.Array) (*tensor.Array, error) {
	out := unconstrained.Clone()
	out.NormalizeLastAxis()
	return out, nil
}

// Backward embeds a point on the sphere back into unconstrained space. The
// unit vector itself is the canonical representative of its ray.
func (t *UnitVectorTransform) Backward(constrained *tensor.Array) (*tensor.Array, error) {
	return constrained.Clone(), nil
}

// LogAbsDetJacobian returns -0.5 * sum(x^2). With this correction a flat
// density on the sphere pulls back to an isotropic Gaussian over the
// unconstrained coordinates, which marginalizes to the uniform distribution
// on the sphere for any last-axis dimensionality.
func (t *UnitVectorTransform) LogAbsDetJacobian(unconstrained *tensor.Array) (float64, error) {
	sum := 0.0
	for _, x := range unconstrained.Data {
		sum -= 0.5 * x * x
	}
	return sum, nil
}
