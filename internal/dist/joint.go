package dist

import (
	"fmt"

	"github.com/perihelionlabs/exoprior/internal/model"
	"github.com/perihelionlabs/exoprior/internal/tensor"
)

// JointConfig configures the joint radius and impact-parameter
// parameterization.
type JointConfig struct {
	// Name is a prefix added to every node registered by the builder.
	Name string

	// Planets is the number of planets. When zero it is inferred from the
	// initial-value slices, defaulting to 1.
	Planets int

	// MinRadius and MaxRadius bound the radius. When both are zero the
	// bounds default to (0, 1).
	MinRadius float64
	MaxRadius float64

	// StellarRadius, when set, switches the radius node to a radius ratio
	// and derives the physical radius as ratio times the stellar radius.
	// It may reference another model node.
	StellarRadius *model.Value

	// InitRadius and InitImpact seed the initial value. Each may be empty
	// (use the distribution default), a single value (broadcast to all
	// planets), or one value per planet.
	InitRadius []float64
	InitImpact []float64
}

// JointRB holds the nodes registered by NewJointRadiusImpact.
type JointRB struct {
	RB *RadiusImpact

	// Node names under which the builder registered the joint variable and
	// its derived quantities. RorName is empty unless a stellar radius was
	// supplied.
	RBName  string
	RName   string
	BName   string
	RorName string

	// CitationKeys are returned as plain data so the caller decides where
	// to record them.
	CitationKeys []string
}

func fillInitRow(row *tensor.Array, init []float64, fallback float64, planets int) error {
	switch len(init) {
	case 0:
		for i := range row.Data {
			row.Data[i] = fallback
		}
	case 1:
		for i := range row.Data {
			row.Data[i] = init[0]
		}
	case planets:
		copy(row.Data, init)
	default:
		return fmt.Errorf("%w: got %d values for %d planets", ErrInitLength, len(init), planets)
	}
	return nil
}

// NewJointRadiusImpact builds the Espinoza (2018) joint distribution over
// radius and impact parameter and registers it on the model together with
// deterministic views of its two rows: the impact parameter, and either
// the radius directly or a radius ratio plus the scaled radius when a
// stellar radius is supplied.
func NewJointRadiusImpact(m *model.Model, cfg JointConfig) (*JointRB, error) {
	planets := cfg.Planets
	if planets == 0 {
		switch {
		case len(cfg.InitRadius) > 0:
			planets = len(cfg.InitRadius)
		case len(cfg.InitImpact) > 0:
			planets = len(cfg.InitImpact)
		default:
			planets = 1
		}
	}
	if planets < 1 {
		return nil, fmt.Errorf("planet count must be positive, got %d", planets)
	}

	minRadius, maxRadius := cfg.MinRadius, cfg.MaxRadius
	if minRadius == 0 && maxRadius == 0 {
		maxRadius = 1
	}

	initial, err := tensor.New(2, planets)
	if err != nil {
		return nil, err
	}
	radiusRow, err := initial.Row(0)
	if err != nil {
		return nil, err
	}
	impactRow, err := initial.Row(1)
	if err != nil {
		return nil, err
	}
	if err := fillInitRow(radiusRow, cfg.InitRadius, 0.5*(minRadius+maxRadius), planets); err != nil {
		return nil, err
	}
	if err := fillInitRow(impactRow, cfg.InitImpact, 0.5, planets); err != nil {
		return nil, err
	}

	rb, err := NewRadiusImpact(RadiusImpactConfig{
		Shape:   []int{2, planets},
		Bounds:  FixedBounds(minRadius, maxRadius),
		Default: initial,
	})
	if err != nil {
		return nil, err
	}

	rbName := cfg.Name + "rb"
	bName := cfg.Name + "b"
	rName := cfg.Name + "r"

	if err := m.Random(rbName, rb); err != nil {
		return nil, err
	}
	if err := m.Deterministic(bName, rowView(rbName, 1), rbName); err != nil {
		return nil, err
	}

	joint := &JointRB{
		RB:           rb,
		RBName:       rbName,
		RName:        rName,
		BName:        bName,
		CitationKeys: rb.CitationKeys(),
	}

	if cfg.StellarRadius == nil {
		if err := m.Deterministic(rName, rowView(rbName, 0), rbName); err != nil {
			return nil, err
		}
		return joint, nil
	}

	rorName := cfg.Name + "ror"
	stellar := *cfg.StellarRadius
	if err := m.Deterministic(rorName, rowView(rbName, 0), rbName); err != nil {
		return nil, err
	}
	scaled := func(point model.Point) (*tensor.Array, error) {
		ratio, ok := point[rorName]
		if !ok {
			return nil, fmt.Errorf("%w: %q", model.ErrUnknownNode, rorName)
		}
		radius, err := m.Resolve(stellar, point)
		if err != nil {
			return nil, err
		}
		out := ratio.Clone()
		for i := range out.Data {
			out.Data[i] *= radius
		}
		return out, nil
	}
	if err := m.Deterministic(rName, scaled, rorName); err != nil {
		return nil, err
	}
	joint.RorName = rorName
	return joint, nil
}

// rowView returns a deterministic function extracting one first-axis row
// of a named node.
func rowView(name string, index int) model.DeterministicFn {
	return func(point model.Point) (*tensor.Array, error) {
		value, ok := point[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", model.ErrUnknownNode, name)
		}
		row, err := value.Row(index)
		if err != nil {
			return nil, err
		}
		return row.Clone(), nil
	}
}
