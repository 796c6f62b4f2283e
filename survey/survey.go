// Package survey runs many independent simulations side by side and reports how
// each one ended.
package survey

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-life/engine"
	"github.com/sheikhrachel/go-life/model"
)

// Status is the final state of one surveyed run
type Status string

const (
	StatusExtinct    Status = "extinct"
	StatusStabilized Status = "stabilized"
	StatusCapped     Status = "capped"
)

// Named is a starting generation with a label
type Named struct {
	Name       string
	Generation model.Generation
}

// Options tunes a survey
type Options struct {
	// MaxGenerations caps each run; zero means run until the sequence ends
	MaxGenerations int
	// Workers bounds concurrent runs; zero uses runtime.NumCPU()
	Workers int
}

// Result summarizes one run
type Result struct {
	Name            string
	Generations     int
	FinalPopulation int
	PeakPopulation  int
	Status          Status
}

// Run drains one sequence per pattern concurrently. Results keep the input order.
func Run(ctx context.Context, patterns []Named, opts Options) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(patterns))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, p := range patterns {
		eg.Go(func() error {
			res, err := runOne(ctx, p, opts.MaxGenerations)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, p Named, maxGenerations int) (Result, error) {
	res := Result{
		Name:            p.Name,
		FinalPopulation: p.Generation.Len(),
		PeakPopulation:  p.Generation.Len(),
	}

	seq := engine.Start(p.Generation)
	for g := range seq.All() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		res.FinalPopulation = g.Len()
		res.PeakPopulation = max(res.PeakPopulation, g.Len())
		if maxGenerations > 0 && seq.Generation() >= maxGenerations {
			break
		}
	}
	res.Generations = seq.Generation()

	switch seq.Outcome() {
	case engine.Extinct:
		res.Status = StatusExtinct
		res.FinalPopulation = 0
	case engine.Stabilized:
		res.Status = StatusStabilized
	default:
		res.Status = StatusCapped
	}
	return res, nil
}
