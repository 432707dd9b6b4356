package dist

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/perihelionlabs/exoprior/internal/model"
	"github.com/perihelionlabs/exoprior/internal/tensor"
)

const tolerance = 1e-9

func TestUnitVectorDrawIsNormalized(t *testing.T) {
	shapes := [][]int{
		{3},
		{2, 3},
		{4, 2, 5},
	}
	rng := rand.New(rand.NewSource(1))

	for _, shape := range shapes {
		d, err := NewUnitVector(shape...)
		if err != nil {
			t.Fatalf("NewUnitVector(%v) returned error: %v", shape, err)
		}
		sample, err := d.Draw(rng, nil)
		if err != nil {
			t.Fatalf("Draw returned error: %v", err)
		}
		if !tensor.ShapeEqual(sample.Shape, shape) {
			t.Fatalf("sample shape = %v, want %v", sample.Shape, shape)
		}

		width := shape[len(shape)-1]
		for start := 0; start < len(sample.Data); start += width {
			sum := 0.0
			for _, v := range sample.Data[start : start+width] {
				sum += v * v
			}
			if math.Abs(sum-1) > tolerance {
				t.Fatalf("squared norm = %v for shape %v, want 1", sum, shape)
			}
		}
	}
}

func TestUnitVectorDefaultIsOnSphere(t *testing.T) {
	d, err := NewUnitVector(2, 3)
	if err != nil {
		t.Fatalf("NewUnitVector returned error: %v", err)
	}
	def := d.Default()
	for start := 0; start < len(def.Data); start += 3 {
		sum := 0.0
		for _, v := range def.Data[start : start+3] {
			sum += v * v
		}
		if math.Abs(sum-1) > tolerance {
			t.Fatalf("default squared norm = %v, want 1", sum)
		}
	}
}

func TestAngleDrawStaysOnCircle(t *testing.T) {
	d, err := NewAngle(5)
	if err != nil {
		t.Fatalf("NewAngle returned error: %v", err)
	}
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 100; i++ {
		sample, err := d.Draw(rng, nil)
		if err != nil {
			t.Fatalf("Draw returned error: %v", err)
		}
		for _, theta := range sample.Data {
			if theta <= -math.Pi || theta > math.Pi {
				t.Fatalf("angle %v outside (-pi, pi]", theta)
			}
		}
	}
}

func TestAngleDefaultIsZero(t *testing.T) {
	d, err := NewAngle(3)
	if err != nil {
		t.Fatalf("NewAngle returned error: %v", err)
	}
	for i, v := range d.Default().Data {
		if v != 0 {
			t.Fatalf("default element %d = %v, want 0", i, v)
		}
	}
}

func TestTriangleRejectsBadFirstAxis(t *testing.T) {
	for planets := 1; planets <= 5; planets++ {
		if _, err := NewTriangle(3, planets); !errors.Is(err, ErrFirstAxis) {
			t.Fatalf("NewTriangle(3, %d) error = %v, want %v", planets, err, ErrFirstAxis)
		}
	}
	if _, err := NewTriangle(1); !errors.Is(err, ErrFirstAxis) {
		t.Fatalf("NewTriangle(1) error = %v, want %v", err, ErrFirstAxis)
	}
}

func TestTriangleDefaults(t *testing.T) {
	d, err := NewTriangle()
	if err != nil {
		t.Fatalf("NewTriangle returned error: %v", err)
	}
	if !tensor.ShapeEqual(d.Shape(), []int{2}) {
		t.Fatalf("shape = %v, want [2]", d.Shape())
	}
	def := d.Default()
	if math.Abs(def.Data[0]-math.Sqrt(0.5)) > tolerance || def.Data[1] != 0 {
		t.Fatalf("default = %v, want (sqrt(0.5), 0)", def.Data)
	}
}

func TestTriangleDrawStaysInValidRegion(t *testing.T) {
	d, err := NewTriangle(2, 4)
	if err != nil {
		t.Fatalf("NewTriangle returned error: %v", err)
	}
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 200; i++ {
		sample, err := d.Draw(rng, nil)
		if err != nil {
			t.Fatalf("Draw returned error: %v", err)
		}
		u1Row, _ := sample.Row(0)
		u2Row, _ := sample.Row(1)
		for j := range u1Row.Data {
			u1, u2 := u1Row.Data[j], u2Row.Data[j]
			if u1 < 0 || u1 > 2 {
				t.Fatalf("u1 = %v outside [0, 2]", u1)
			}
			if u1+u2 < -tolerance {
				t.Fatalf("u1+u2 = %v < 0", u1+u2)
			}
			if u1-u2 > 2+tolerance {
				t.Fatalf("u1-u2 = %v > 2", u1-u2)
			}
		}
	}
}

func TestRadiusImpactRejectsBadFirstAxis(t *testing.T) {
	for planets := 1; planets <= 5; planets++ {
		_, err := NewRadiusImpact(RadiusImpactConfig{Shape: []int{3, planets}})
		if !errors.Is(err, ErrFirstAxis) {
			t.Fatalf("shape (3, %d) error = %v, want %v", planets, err, ErrFirstAxis)
		}
	}
}

func TestRadiusImpactDefaults(t *testing.T) {
	d, err := NewRadiusImpact(RadiusImpactConfig{
		Shape:  []int{2, 2},
		Bounds: FixedBounds(0.2, 0.6),
	})
	if err != nil {
		t.Fatalf("NewRadiusImpact returned error: %v", err)
	}
	def := d.Default()
	radiusRow, _ := def.Row(0)
	impactRow, _ := def.Row(1)
	for i := range radiusRow.Data {
		if math.Abs(radiusRow.Data[i]-0.4) > tolerance {
			t.Fatalf("default radius = %v, want 0.4", radiusRow.Data[i])
		}
		if impactRow.Data[i] != 0.5 {
			t.Fatalf("default impact parameter = %v, want 0.5", impactRow.Data[i])
		}
	}
}

func TestRadiusImpactDrawStaysInRegion(t *testing.T) {
	minRadius, maxRadius := 0.01, 0.3
	d, err := NewRadiusImpact(RadiusImpactConfig{
		Shape:  []int{2, 3},
		Bounds: FixedBounds(minRadius, maxRadius),
	})
	if err != nil {
		t.Fatalf("NewRadiusImpact returned error: %v", err)
	}
	rng := rand.New(rand.NewSource(4))

	for i := 0; i < 200; i++ {
		sample, err := d.Draw(rng, nil)
		if err != nil {
			t.Fatalf("Draw returned error: %v", err)
		}
		radiusRow, _ := sample.Row(0)
		impactRow, _ := sample.Row(1)
		for j := range radiusRow.Data {
			p, b := radiusRow.Data[j], impactRow.Data[j]
			if p < minRadius-tolerance || p > maxRadius+tolerance {
				t.Fatalf("radius %v outside [%v, %v]", p, minRadius, maxRadius)
			}
			if b < 0 {
				t.Fatalf("impact parameter %v < 0", b)
			}
			if b > 1+p+tolerance {
				t.Fatalf("(p, b) = (%v, %v) outside the transit region", p, b)
			}
		}
	}
}

func TestRadiusImpactResolvesBoundsPerDraw(t *testing.T) {
	calls := 0
	bounds := func(point model.Point) (float64, float64, error) {
		if point != nil {
			calls++
		}
		return 0.1, 0.5, nil
	}
	d, err := NewRadiusImpact(RadiusImpactConfig{Bounds: bounds})
	if err != nil {
		t.Fatalf("NewRadiusImpact returned error: %v", err)
	}

	rng := rand.New(rand.NewSource(5))
	point := model.Point{}
	for i := 0; i < 3; i++ {
		if _, err := d.Draw(rng, point); err != nil {
			t.Fatalf("Draw returned error: %v", err)
		}
	}
	if calls != 3 {
		t.Fatalf("bounds resolved %d times, want once per draw (3)", calls)
	}
}

func TestRadiusImpactBoundsErrorSurfaces(t *testing.T) {
	wantErr := errors.New("stellar radius unavailable")
	bounds := func(point model.Point) (float64, float64, error) {
		if point == nil {
			return 0, 1, nil
		}
		return 0, 0, wantErr
	}
	d, err := NewRadiusImpact(RadiusImpactConfig{Bounds: bounds})
	if err != nil {
		t.Fatalf("NewRadiusImpact returned error: %v", err)
	}
	rng := rand.New(rand.NewSource(6))
	if _, err := d.Draw(rng, model.Point{}); !errors.Is(err, wantErr) {
		t.Fatalf("Draw error = %v, want %v", err, wantErr)
	}
}
