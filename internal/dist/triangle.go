package dist

import (
	"math"
	"math/rand"

	"github.com/perihelionlabs/exoprior/internal/model"
	"github.com/perihelionlabs/exoprior/internal/tensor"
	"github.com/perihelionlabs/exoprior/internal/transform"
)

// CitationKipping13 identifies Kipping (2013), arXiv:1308.0009.
const CitationKipping13 = "kipping13"

// Triangle is an uninformative distribution over quadratic limb-darkening
// coefficients using the Kipping (2013) reparameterization, which maps the
// unit square onto exactly the physically valid coefficient region and so
// needs no rejection.
//
// The two coefficients are packed along the first axis; remaining axes
// batch over planets.
type Triangle struct {
	shape        []int
	defaultValue *tensor.Array
	tr           *transform.TriangleTransform
}

// NewTriangle returns a limb-darkening distribution. The shape defaults to
// (2) and its first axis must be exactly 2. The default value is the
// conservative neutral point (sqrt(0.5), 0).
func NewTriangle(shape ...int) (*Triangle, error) {
	if len(shape) == 0 {
		shape = []int{2}
	}
	if err := firstAxisTwo(shape); err != nil {
		return nil, err
	}
	defaultValue, err := tensor.New(shape...)
	if err != nil {
		return nil, err
	}
	row, err := defaultValue.Row(0)
	if err != nil {
		return nil, err
	}
	for i := range row.Data {
		row.Data[i] = math.Sqrt(0.5)
	}
	return &Triangle{
		shape:        append([]int(nil), shape...),
		defaultValue: defaultValue,
		tr:           transform.Triangle(),
	}, nil
}

// Shape returns the distribution shape.
func (d *Triangle) Shape() []int {
	return append([]int(nil), d.shape...)
}

// Default returns the (sqrt(0.5), 0) default value.
func (d *Triangle) Default() *tensor.Array {
	return d.defaultValue.Clone()
}

// Transform returns the limb-darkening transform.
func (d *Triangle) Transform() transform.Transform {
	return d.tr
}

// CitationKeys returns the Kipping (2013) key.
func (d *Triangle) CitationKeys() []string {
	return []string{CitationKipping13}
}

// Draw samples (q1, q2) uniformly on the unit square and pushes the pair
// through the Kipping map.
func (d *Triangle) Draw(rng *rand.Rand, _ model.Point) (*tensor.Array, error) {
	out, err := tensor.New(d.shape...)
	if err != nil {
		return nil, err
	}
	row1, err := out.Row(0)
	if err != nil {
		return nil, err
	}
	row2, err := out.Row(1)
	if err != nil {
		return nil, err
	}
	for i := range row1.Data {
		row1.Data[i], row2.Data[i] = transform.KippingForward(rng.Float64(), rng.Float64())
	}
	return out, nil
}
