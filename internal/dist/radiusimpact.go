package dist

import (
	"fmt"
	"math/rand"

	"github.com/perihelionlabs/exoprior/internal/model"
	"github.com/perihelionlabs/exoprior/internal/tensor"
	"github.com/perihelionlabs/exoprior/internal/transform"
)

// CitationEspinoza18 identifies Espinoza (2018), RNAAS 2 209.
const CitationEspinoza18 = "espinoza18"

// BoundsFunc resolves the radius bounds against the current model point.
// It is called once per draw, so a single joint evaluation sees one
// consistent pair; callers evaluating density and gradient separately must
// pass the same point to both. A nil point requests the prior-default
// bounds used for the default value and the baked transform.
type BoundsFunc func(point model.Point) (minRadius, maxRadius float64, err error)

// FixedBounds returns a BoundsFunc for constant radius bounds.
func FixedBounds(minRadius, maxRadius float64) BoundsFunc {
	return func(model.Point) (float64, float64, error) {
		return minRadius, maxRadius, nil
	}
}

// RadiusImpactConfig configures a RadiusImpact distribution.
type RadiusImpactConfig struct {
	// Shape of the packed (radius, impact parameter) array. Defaults to
	// (2); the first axis must be exactly 2.
	Shape []int

	// Bounds resolves the radius bounds. Defaults to FixedBounds(0, 1).
	Bounds BoundsFunc

	// Default overrides the computed default value. Must match Shape.
	Default *tensor.Array
}

// RadiusImpact is the Espinoza (2018) joint distribution over planet
// radius and impact parameter. The radius occupies index 0 of the first
// axis and the impact parameter index 1; the pair always lies in the
// physically reachable transit region for the configured radius bounds.
type RadiusImpact struct {
	shape        []int
	bounds       BoundsFunc
	defaultValue *tensor.Array
	tr           *transform.RadiusImpactTransform
}

// NewRadiusImpact validates the shape, bakes the transform from the
// prior-default bounds, and computes the default value (bounds midpoint
// for the radius, 0.5 for the impact parameter). Validation happens before
// anything else, so a failed construction leaves nothing behind.
func NewRadiusImpact(cfg RadiusImpactConfig) (*RadiusImpact, error) {
	shape := cfg.Shape
	if len(shape) == 0 {
		shape = []int{2}
	}
	if err := firstAxisTwo(shape); err != nil {
		return nil, err
	}

	bounds := cfg.Bounds
	if bounds == nil {
		bounds = FixedBounds(0, 1)
	}
	minRadius, maxRadius, err := bounds(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve radius bounds: %w", err)
	}
	tr, err := transform.RadiusImpact(minRadius, maxRadius)
	if err != nil {
		return nil, err
	}

	defaultValue := cfg.Default
	if defaultValue == nil {
		defaultValue, err = tensor.New(shape...)
		if err != nil {
			return nil, err
		}
		radiusRow, err := defaultValue.Row(0)
		if err != nil {
			return nil, err
		}
		impactRow, err := defaultValue.Row(1)
		if err != nil {
			return nil, err
		}
		for i := range radiusRow.Data {
			radiusRow.Data[i] = 0.5 * (minRadius + maxRadius)
			impactRow.Data[i] = 0.5
		}
	} else {
		if !tensor.ShapeEqual(defaultValue.Shape, shape) {
			return nil, fmt.Errorf("%w: default shape %v for shape %v",
				tensor.ErrShapeMismatch, defaultValue.Shape, shape)
		}
		defaultValue = defaultValue.Clone()
	}

	return &RadiusImpact{
		shape:        append([]int(nil), shape...),
		bounds:       bounds,
		defaultValue: defaultValue,
		tr:           tr,
	}, nil
}

// Shape returns the distribution shape.
func (d *RadiusImpact) Shape() []int {
	return append([]int(nil), d.shape...)
}

// Default returns the default value.
func (d *RadiusImpact) Default() *tensor.Array {
	return d.defaultValue.Clone()
}

// Transform returns the joint radius/impact-parameter transform.
func (d *RadiusImpact) Transform() transform.Transform {
	return d.tr
}

// CitationKeys returns the Espinoza (2018) key.
func (d *RadiusImpact) CitationKeys() []string {
	return []string{CitationEspinoza18}
}

// Bounds resolves the radius bounds for the given point.
func (d *RadiusImpact) Bounds(point model.Point) (minRadius, maxRadius float64, err error) {
	return d.bounds(point)
}

// Draw resolves the bounds once against point, samples (r1, r2) uniformly
// on the unit square, and pushes each pair through the Espinoza map.
func (d *RadiusImpact) Draw(rng *rand.Rand, point model.Point) (*tensor.Array, error) {
	minRadius, maxRadius, err := d.bounds(point)
	if err != nil {
		return nil, fmt.Errorf("resolve radius bounds: %w", err)
	}
	if _, err := transform.RadiusImpact(minRadius, maxRadius); err != nil {
		return nil, err
	}

	out, err := tensor.New(d.shape...)
	if err != nil {
		return nil, err
	}
	radiusRow, err := out.Row(0)
	if err != nil {
		return nil, err
	}
	impactRow, err := out.Row(1)
	if err != nil {
		return nil, err
	}
	for i := range radiusRow.Data {
		radiusRow.Data[i], impactRow.Data[i] = transform.EspinozaForward(
			rng.Float64(), rng.Float64(), minRadius, maxRadius)
	}
	return out, nil
}
