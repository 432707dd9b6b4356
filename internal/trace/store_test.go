package trace

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/perihelionlabs/exoprior/internal/tensor"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestCreateRunValidatesCounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateRun(ctx, 0, 10); err == nil {
		t.Fatal("expected error for zero chains")
	}
	if _, err := store.CreateRun(ctx, 2, 0); err == nil {
		t.Fatal("expected error for zero draws")
	}
}

func TestRunRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	runID, err := store.CreateRun(ctx, 4, 100)
	if err != nil {
		t.Fatalf("CreateRun returned error: %v", err)
	}

	run, err := store.RunInfo(ctx, runID)
	if err != nil {
		t.Fatalf("RunInfo returned error: %v", err)
	}
	if run.Chains != 4 || run.Draws != 100 {
		t.Fatalf("run = %+v, want 4 chains and 100 draws", run)
	}
	if run.CreatedAt.IsZero() {
		t.Fatal("run has zero creation time")
	}

	if _, err := store.RunInfo(ctx, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("RunInfo error = %v, want %v", err, ErrRunNotFound)
	}
}

func TestDrawRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	runID, err := store.CreateRun(ctx, 2, 2)
	if err != nil {
		t.Fatalf("CreateRun returned error: %v", err)
	}

	values, err := tensor.FromSlice([]float64{0.1, 0.2, 0.3, 0.4}, 2, 2)
	if err != nil {
		t.Fatalf("FromSlice returned error: %v", err)
	}
	for chain := 0; chain < 2; chain++ {
		for draw := 0; draw < 2; draw++ {
			if err := store.AppendDraw(ctx, runID, chain, draw, "rb", values); err != nil {
				t.Fatalf("AppendDraw returned error: %v", err)
			}
		}
	}

	draws, err := store.Draws(ctx, runID, "rb")
	if err != nil {
		t.Fatalf("Draws returned error: %v", err)
	}
	if len(draws) != 4 {
		t.Fatalf("expected 4 draws, got %d", len(draws))
	}
	if draws[0].Chain != 0 || draws[0].Index != 0 {
		t.Fatalf("first draw = (%d, %d), want (0, 0)", draws[0].Chain, draws[0].Index)
	}
	if draws[3].Chain != 1 || draws[3].Index != 1 {
		t.Fatalf("last draw = (%d, %d), want (1, 1)", draws[3].Chain, draws[3].Index)
	}
	if !tensor.ShapeEqual(draws[0].Values.Shape, []int{2, 2}) {
		t.Fatalf("draw shape = %v, want [2 2]", draws[0].Values.Shape)
	}
	for i, v := range values.Data {
		if draws[0].Values.Data[i] != v {
			t.Fatalf("draw values = %v, want %v", draws[0].Values.Data, values.Data)
		}
	}
}

func TestDrawsRejectsUnknownRun(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Draws(context.Background(), "missing", "rb"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("Draws error = %v, want %v", err, ErrRunNotFound)
	}
}

func TestAppendDrawRequiresName(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	runID, err := store.CreateRun(ctx, 1, 1)
	if err != nil {
		t.Fatalf("CreateRun returned error: %v", err)
	}
	values, _ := tensor.FromSlice([]float64{1}, 1)
	if err := store.AppendDraw(ctx, runID, 0, 0, " ", values); err == nil {
		t.Fatal("expected error for empty variable name")
	}
}
