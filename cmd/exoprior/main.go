// Package main provides a CLI for drawing prior samples from a transit
// model built from the constrained distributions in this module, with an
// optional sqlite trace for inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/perihelionlabs/exoprior/internal/citations"
	"github.com/perihelionlabs/exoprior/internal/dist"
	"github.com/perihelionlabs/exoprior/internal/model"
	"github.com/perihelionlabs/exoprior/internal/platform/otel"
	"github.com/perihelionlabs/exoprior/internal/sampler"
	"github.com/perihelionlabs/exoprior/internal/trace"
)

func main() {
	cfg, err := sampler.SettingsFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var planets int
	var minRadius, maxRadius float64
	var bib bool

	flag.IntVar(&cfg.Chains, "chains", cfg.Chains, "number of chains")
	flag.IntVar(&cfg.Draws, "draws", cfg.Draws, "draws per chain")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = random)")
	flag.StringVar(&cfg.TracePath, "trace", cfg.TracePath, "sqlite trace path (empty = no trace)")
	flag.IntVar(&planets, "planets", 1, "number of planets")
	flag.Float64Var(&minRadius, "min-radius", 0, "lower radius bound")
	flag.Float64Var(&maxRadius, "max-radius", 1, "upper radius bound")
	flag.BoolVar(&bib, "bib", false, "print the bibliography for the model and exit")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	m := model.New()
	if err := buildModel(m, planets, minRadius, maxRadius); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if bib {
		text, err := citations.Bibliography(m.CitationKeys())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(text)
		return
	}

	shutdown, err := otel.Setup(ctx, "exoprior")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer shutdown(context.Background())

	var sink sampler.Sink
	if cfg.TracePath != "" {
		store, err := trace.Open(cfg.TracePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		sink = store
	}

	result, err := sampler.Run(ctx, m, cfg, sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Drew %d draws across %d chains\n", cfg.Draws, len(result.Chains))
	if result.RunID != "" {
		fmt.Printf("Trace run %s written to %s\n", result.RunID, cfg.TracePath)
	}
}

// buildModel registers a minimal transit prior: quadratic limb darkening,
// an argument of periastron, and the joint radius and impact parameter.
func buildModel(m *model.Model, planets int, minRadius, maxRadius float64) error {
	u, err := dist.NewTriangle()
	if err != nil {
		return err
	}
	if err := m.Random("u", u); err != nil {
		return err
	}

	omega, err := dist.NewAngle()
	if err != nil {
		return err
	}
	if err := m.Random("omega", omega); err != nil {
		return err
	}

	_, err = dist.NewJointRadiusImpact(m, dist.JointConfig{
		Planets:   planets,
		MinRadius: minRadius,
		MaxRadius: maxRadius,
	})
	return err
}
