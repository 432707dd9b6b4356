package tensor

import (
	"errors"
	"math"
	"testing"
)

func TestNewRejectsInvalidShapes(t *testing.T) {
	tcs := [][]int{
		{},
		{0},
		{-1, 3},
		{2, 0},
	}

	for _, shape := range tcs {
		if _, err := New(shape...); !errors.Is(err, ErrInvalidShape) {
			t.Fatalf("New(%v) error = %v, want %v", shape, err, ErrInvalidShape)
		}
	}
}

func TestFromSliceChecksLength(t *testing.T) {
	if _, err := FromSlice([]float64{1, 2, 3}, 2, 2); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("FromSlice error = %v, want %v", err, ErrShapeMismatch)
	}

	a, err := FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	if err != nil {
		t.Fatalf("FromSlice returned error: %v", err)
	}
	if a.Size() != 4 {
		t.Fatalf("expected size 4, got %d", a.Size())
	}
}

func TestFullFillsEveryElement(t *testing.T) {
	a, err := Full(0.5, 2, 3)
	if err != nil {
		t.Fatalf("Full returned error: %v", err)
	}
	for i, v := range a.Data {
		if v != 0.5 {
			t.Fatalf("element %d = %v, want 0.5", i, v)
		}
	}
}

func TestRowSharesStorage(t *testing.T) {
	a, err := FromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	if err != nil {
		t.Fatalf("FromSlice returned error: %v", err)
	}

	row, err := a.Row(1)
	if err != nil {
		t.Fatalf("Row returned error: %v", err)
	}
	if !ShapeEqual(row.Shape, []int{3}) {
		t.Fatalf("row shape = %v, want [3]", row.Shape)
	}
	if row.Data[0] != 4 || row.Data[2] != 6 {
		t.Fatalf("unexpected row data: %v", row.Data)
	}

	row.Data[0] = 40
	if a.Data[3] != 40 {
		t.Fatal("row view does not share storage with parent")
	}

	if _, err := a.Row(2); !errors.Is(err, ErrAxisOutOfRange) {
		t.Fatalf("Row(2) error = %v, want %v", err, ErrAxisOutOfRange)
	}
}

func TestRowOfOneAxisArray(t *testing.T) {
	a, err := FromSlice([]float64{7, 8}, 2)
	if err != nil {
		t.Fatalf("FromSlice returned error: %v", err)
	}
	row, err := a.Row(1)
	if err != nil {
		t.Fatalf("Row returned error: %v", err)
	}
	if row.Size() != 1 || row.Data[0] != 8 {
		t.Fatalf("unexpected single-axis row: %+v", row)
	}
}

func TestStack2(t *testing.T) {
	first, _ := FromSlice([]float64{1, 2}, 2)
	second, _ := FromSlice([]float64{3, 4}, 2)

	stacked, err := Stack2(first, second)
	if err != nil {
		t.Fatalf("Stack2 returned error: %v", err)
	}
	if !ShapeEqual(stacked.Shape, []int{2, 2}) {
		t.Fatalf("stacked shape = %v, want [2 2]", stacked.Shape)
	}
	want := []float64{1, 2, 3, 4}
	for i, v := range want {
		if stacked.Data[i] != v {
			t.Fatalf("stacked data = %v, want %v", stacked.Data, want)
		}
	}

	mismatched, _ := FromSlice([]float64{1, 2, 3}, 3)
	if _, err := Stack2(first, mismatched); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("Stack2 mismatch error = %v, want %v", err, ErrShapeMismatch)
	}
}

func TestNormalizeLastAxis(t *testing.T) {
	a, err := FromSlice([]float64{3, 4, 0, 5, 0, 0}, 3, 2)
	if err != nil {
		t.Fatalf("FromSlice returned error: %v", err)
	}

	a.NormalizeLastAxis()

	for i := 0; i < 2; i++ {
		start := i * 2
		sum := a.Data[start]*a.Data[start] + a.Data[start+1]*a.Data[start+1]
		if math.Abs(sum-1) > 1e-12 {
			t.Fatalf("vector %d squared norm = %v, want 1", i, sum)
		}
	}
	// Zero vectors stay zero instead of producing NaN.
	if a.Data[4] != 0 || a.Data[5] != 0 {
		t.Fatalf("zero vector was modified: %v", a.Data[4:])
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a, _ := FromSlice([]float64{1, 2}, 2)
	b := a.Clone()
	b.Data[0] = 9
	if a.Data[0] != 1 {
		t.Fatal("clone shares storage with original")
	}
}
