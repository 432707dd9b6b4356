// Package sampler draws independent samples from every random variable of
// a model, for initialization and diagnostics. It is not the inference
// engine: draws come from each distribution's own sampler, not from
// gradient-based proposals.
package sampler

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/perihelionlabs/exoprior/internal/model"
	"github.com/perihelionlabs/exoprior/internal/platform/config"
	"github.com/perihelionlabs/exoprior/internal/tensor"
)

// Settings configures a sampling run.
type Settings struct {
	// Chains is the number of independent chains drawn in parallel.
	Chains int `env:"EXOPRIOR_SAMPLER_CHAINS" envDefault:"4"`

	// Draws is the number of draws per chain.
	Draws int `env:"EXOPRIOR_SAMPLER_DRAWS" envDefault:"500"`

	// Seed is the base RNG seed; chain i uses Seed+i. Zero requests a
	// crypto/rand seed.
	Seed int64 `env:"EXOPRIOR_SAMPLER_SEED" envDefault:"0"`

	// TracePath, when set, is where the embedding application stores the
	// run. The sampler itself only reads it through SettingsFromEnv.
	TracePath string `env:"EXOPRIOR_SAMPLER_TRACE_PATH"`
}

// SettingsFromEnv loads settings from EXOPRIOR_SAMPLER_* variables.
func SettingsFromEnv() (Settings, error) {
	var cfg Settings
	if err := config.ParseEnv(&cfg); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// Sink receives drawn values as they are produced. *trace.Store satisfies
// it.
type Sink interface {
	CreateRun(ctx context.Context, chains, draws int) (string, error)
	AppendDraw(ctx context.Context, runID string, chain, draw int, name string, values *tensor.Array) error
}

// Chain holds one chain's draws, each a point over all model nodes with
// deterministic nodes evaluated.
type Chain struct {
	Seed   int64
	Points []model.Point
}

// Result holds a completed sampling run.
type Result struct {
	RunID  string
	Chains []Chain
}

// Run draws cfg.Draws independent samples per chain from every random
// variable in m, running chains in parallel. Results are deterministic for
// a fixed non-zero seed regardless of scheduling, because each chain owns
// its RNG. When sink is non-nil every node value of every draw is
// appended to it.
func Run(ctx context.Context, m *model.Model, cfg Settings, sink Sink) (*Result, error) {
	if cfg.Chains < 1 {
		return nil, fmt.Errorf("chain count must be positive, got %d", cfg.Chains)
	}
	if cfg.Draws < 1 {
		return nil, fmt.Errorf("draw count must be positive, got %d", cfg.Draws)
	}

	seed := cfg.Seed
	if seed == 0 {
		var err error
		seed, err = NewSeed()
		if err != nil {
			return nil, err
		}
	}

	tracer := otel.Tracer("github.com/perihelionlabs/exoprior/internal/sampler")
	ctx, span := tracer.Start(ctx, "sampler.Run")
	span.SetAttributes(
		attribute.Int("sampler.chains", cfg.Chains),
		attribute.Int("sampler.draws", cfg.Draws),
	)
	defer span.End()

	result := &Result{Chains: make([]Chain, cfg.Chains)}
	if sink != nil {
		runID, err := sink.CreateRun(ctx, cfg.Chains, cfg.Draws)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("create run: %w", err)
		}
		result.RunID = runID
	}

	names := m.RandomNames()
	group, ctx := errgroup.WithContext(ctx)
	for chain := 0; chain < cfg.Chains; chain++ {
		group.Go(func() error {
			chainSeed := seed + int64(chain)
			rng := rand.New(rand.NewSource(chainSeed))
			points := make([]model.Point, 0, cfg.Draws)

			for draw := 0; draw < cfg.Draws; draw++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				point := make(model.Point, len(names))
				for _, name := range names {
					rv, err := m.RandomVar(name)
					if err != nil {
						return err
					}
					value, err := rv.Draw(rng, point)
					if err != nil {
						return fmt.Errorf("draw %q: %w", name, err)
					}
					point[name] = value
				}
				extended, err := m.EvalDeterministics(point)
				if err != nil {
					return err
				}
				points = append(points, extended)

				if sink != nil {
					if err := appendPoint(ctx, sink, result.RunID, chain, draw, extended); err != nil {
						return err
					}
				}
			}

			result.Chains[chain] = Chain{Seed: chainSeed, Points: points}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return result, nil
}

func appendPoint(ctx context.Context, sink Sink, runID string, chain, draw int, point model.Point) error {
	names := make([]string, 0, len(point))
	for name := range point {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := sink.AppendDraw(ctx, runID, chain, draw, name, point[name]); err != nil {
			return fmt.Errorf("append draw %q: %w", name, err)
		}
	}
	return nil
}
