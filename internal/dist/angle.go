package dist

import (
	"math"
	"math/rand"

	"github.com/perihelionlabs/exoprior/internal/model"
	"github.com/perihelionlabs/exoprior/internal/tensor"
	"github.com/perihelionlabs/exoprior/internal/transform"
)

// Angle is an angle constrained to (-pi, pi]. Sampling happens in the two
// dimensional (sin(theta), cos(theta)) space so a sampler never sees the
// discontinuity at pi.
type Angle struct {
	shape        []int
	defaultValue *tensor.Array
	tr           *transform.AngleTransform
}

// NewAngle returns an angle distribution with the given shape and a zero
// default. The shape defaults to a single angle.
func NewAngle(shape ...int) (*Angle, error) {
	if len(shape) == 0 {
		shape = []int{1}
	}
	defaultValue, err := tensor.New(shape...)
	if err != nil {
		return nil, err
	}
	return &Angle{
		shape:        append([]int(nil), shape...),
		defaultValue: defaultValue,
		tr:           transform.Angle(),
	}, nil
}

// Shape returns the distribution shape.
func (d *Angle) Shape() []int {
	return append([]int(nil), d.shape...)
}

// Default returns the zero default value.
func (d *Angle) Default() *tensor.Array {
	return d.defaultValue.Clone()
}

// Transform returns the circle transform.
func (d *Angle) Transform() transform.Transform {
	return d.tr
}

// CitationKeys returns no keys; the construction is standard.
func (d *Angle) CitationKeys() []string {
	return nil
}

// Draw samples each element uniformly over (-pi, pi].
func (d *Angle) Draw(rng *rand.Rand, _ model.Point) (*tensor.Array, error) {
	out, err := tensor.New(d.shape...)
	if err != nil {
		return nil, err
	}
	for i := range out.Data {
		theta := -math.Pi + 2*math.Pi*rng.Float64()
		if theta == -math.Pi {
			theta = math.Pi
		}
		out.Data[i] = theta
	}
	return out, nil
}
