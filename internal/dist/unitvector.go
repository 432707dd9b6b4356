package dist

import (
	"math/rand"

	"github.com/perihelionlabs/exoprior/internal/model"
	"github.com/perihelionlabs/exoprior/internal/tensor"
	"github.com/perihelionlabs/exoprior/internal/transform"
)

// UnitVector is a vector whose sum of squares is fixed to unity. For a
// multidimensional shape the normalization runs along the last axis.
type UnitVector struct {
	shape        []int
	defaultValue *tensor.Array
	tr           *transform.UnitVectorTransform
}

// NewUnitVector returns a unit-vector distribution with the given shape.
// The default value points along the first component of the last axis.
func NewUnitVector(shape ...int) (*UnitVector, error) {
	defaultValue, err := tensor.New(shape...)
	if err != nil {
		return nil, err
	}
	width := shape[len(shape)-1]
	for start := 0; start < len(defaultValue.Data); start += width {
		defaultValue.Data[start] = 1
	}
	return &UnitVector{
		shape:        append([]int(nil), shape...),
		defaultValue: defaultValue,
		tr:           transform.UnitVector(),
	}, nil
}

// Shape returns the distribution shape.
func (d *UnitVector) Shape() []int {
	return append([]int(nil), d.shape...)
}

// Default returns the default value.
func (d *UnitVector) Default() *tensor.Array {
	return d.defaultValue.Clone()
}

// Transform returns the unit-sphere transform.
func (d *UnitVector) Transform() transform.Transform {
	return d.tr
}

// CitationKeys returns no keys; the construction is standard.
func (d *UnitVector) CitationKeys() []string {
	return nil
}

// Draw samples a uniform point on the sphere by normalizing componentwise
// standard normals (Marsaglia's method), which is uniform for any
// dimensionality of the last axis.
func (d *UnitVector) Draw(rng *rand.Rand, _ model.Point) (*tensor.Array, error) {
	out, err := tensor.New(d.shape...)
	if err != nil {
		return nil, err
	}
	for i := range out.Data {
		out.Data[i] = rng.NormFloat64()
	}
	out.NormalizeLastAxis()
	return out, nil
}
