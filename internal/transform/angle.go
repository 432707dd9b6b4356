package transform

import (
	"math"

	"github.com/perihelionlabs/exoprior/internal/tensor"
)

// AngleTransform maps an unconstrained (sin, cos) pair onto the circle.
//
// The unconstrained representation carries a leading axis of length 2
// holding the two components, so a sampler never evaluates density across
// the branch cut at +/- pi. The constrained value is the recovered angle in
// (-pi, pi].
type AngleTransform struct{}

// Angle returns the circle transform.
func Angle() *AngleTransform {
	return &AngleTransform{}
}

// Forward recovers theta = atan2(y_sin, y_cos) from the leading 2-axis. The
// output drops that axis.
func (t *AngleTransform) Forward(unconstrained *tensor.Array) (*tensor.Array, error) {
	if err := firstAxisTwo(unconstrained); err != nil {
		return nil, err
	}
	sinRow, err := unconstrained.Row(0)
	if err != nil {
		return nil, err
	}
	cosRow, err := unconstrained.Row(1)
	if err != nil {
		return nil, err
	}

	out := sinRow.Clone()
	for i := range out.Data {
		theta := math.Atan2(sinRow.Data[i], cosRow.Data[i])
		if theta <= -math.Pi {
			theta = math.Pi
		}
		out.Data[i] = theta
	}
	return out, nil
}

// Backward lifts angles to their (sin, cos) pair along a new leading axis.
func (t *AngleTransform) Backward(constrained *tensor.Array) (*tensor.Array, error) {
	sines := constrained.Clone()
	cosines := constrained.Clone()
	for i, theta := range constrained.Data {
		sines.Data[i] = math.Sin(theta)
		cosines.Data[i] = math.Cos(theta)
	}
	return tensor.Stack2(sines, cosines)
}

// LogAbsDetJacobian returns -0.5 * sum(y^2): a flat density over the angle
// pulls back to an isotropic Gaussian over the (sin, cos) pair, which has a
// uniform angular marginal.
func (t *AngleTransform) LogAbsDetJacobian(unconstrained *tensor.Array) (float64, error) {
	if err := firstAxisTwo(unconstrained); err != nil {
		return 0, err
	}
	sum := 0.0
	for _, y := range unconstrained.Data {
		sum -= 0.5 * y * y
	}
	return sum, nil
}
