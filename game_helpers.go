package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/engine"
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/storage"
	"github.com/sheikhrachel/go-life/survey"
	"github.com/sheikhrachel/go-life/utils"
)

const (
	randomPattern = "random"

	// recent generation hashes kept for cycle detection
	historySize = 5
	// longest period reported on the status line
	maxCyclePeriod = 3
	// survey cap when no generation limit is configured
	defaultSurveyGenerations = 10000
)

// options are the command line settings that are not part of utils.Config
type options struct {
	LoadFile string
	SaveFile string
	LoadDB   string
	SaveDB   string
	DeleteDB string
	ListDB   bool
}

// renderer draws one frame of the simulation
type renderer interface {
	Clear() error
	Display(g model.Generation, v model.Viewport) error
}

// bindFlags registers flags that override the loaded configuration
func bindFlags(fs *flag.FlagSet, config *utils.Config, opts *options) {
	fs.StringVar(&config.Mode, "mode", config.Mode, "animate or survey")
	fs.StringVar(&config.Pattern, "pattern", config.Pattern, "built-in pattern name or \"random\"")
	fs.DurationVar(&config.FrameRate, "frame-rate", config.FrameRate, "delay between generations")
	fs.IntVar(&config.MaxGenerations, "max-generations", config.MaxGenerations, "stop after this many generations (0 = no limit)")
	fs.IntVar(&config.ViewWidth, "width", config.ViewWidth, "viewport width in cells")
	fs.IntVar(&config.ViewHeight, "height", config.ViewHeight, "viewport height in cells")
	fs.Int64Var(&config.Seed, "seed", config.Seed, "seed for the random pattern")
	fs.Float64Var(&config.RandomDensity, "density", config.RandomDensity, "live cell density for the random pattern")
	fs.Int64Var(&config.OffsetX, "offset-x", config.OffsetX, "shift the initial generation right by this many cells")
	fs.Int64Var(&config.OffsetY, "offset-y", config.OffsetY, "shift the initial generation down by this many cells")
	fs.BoolVar(&config.FollowPattern, "follow", config.FollowPattern, "keep the viewport centered on the population")
	fs.StringVar(&config.StorePath, "db", config.StorePath, "path of the SQLite pattern library")
	fs.IntVar(&config.SurveyWorkers, "workers", config.SurveyWorkers, "concurrent survey runs (0 = one per CPU)")
	fs.StringVar(&opts.LoadFile, "load", "", "load the initial generation from a JSON file")
	fs.StringVar(&opts.SaveFile, "save", "", "save the last generation to a JSON file")
	fs.StringVar(&opts.LoadDB, "load-db", "", "load the initial generation from the pattern library")
	fs.StringVar(&opts.SaveDB, "save-db", "", "save the last generation to the pattern library")
	fs.StringVar(&opts.DeleteDB, "delete-db", "", "delete a pattern from the pattern library and exit")
	fs.BoolVar(&opts.ListDB, "list-db", false, "list the pattern library and exit")
}

func (o options) needsStore() bool {
	return o.LoadDB != "" || o.SaveDB != "" || o.DeleteDB != "" || o.ListDB
}

// initialGeneration picks the starting set and shifts it by the configured offset
func initialGeneration(ctx context.Context, config utils.Config, opts options, store *storage.Store) (model.Generation, string, error) {
	g, source, err := loadGeneration(ctx, config, opts, store)
	if err != nil {
		return nil, "", err
	}
	if config.OffsetX != 0 || config.OffsetY != 0 {
		g = model.Translate(g, config.OffsetX, config.OffsetY)
	}
	return g, source, nil
}

// loadGeneration reads the starting set: file, then pattern library, then built-in pattern
func loadGeneration(ctx context.Context, config utils.Config, opts options, store *storage.Store) (model.Generation, string, error) {
	switch {
	case opts.LoadFile != "":
		g, err := storage.LoadFile(opts.LoadFile)
		return g, opts.LoadFile, err
	case opts.LoadDB != "":
		g, err := store.LoadPattern(ctx, opts.LoadDB)
		if err != nil {
			return nil, "", errors.Wrapf(err, "[loadGeneration] failed to load pattern: %+v", opts.LoadDB)
		}
		return g, opts.LoadDB, nil
	case config.Pattern == randomPattern:
		rng := model.NewRNG(config.Seed)
		return model.Random(rng, config.RandomWidth, config.RandomHeight, config.RandomDensity), randomPattern, nil
	}

	g, ok := model.Pattern(config.Pattern)
	if !ok {
		return nil, "", errors.Errorf("[loadGeneration] unknown pattern %q (known: %v, %s)",
			config.Pattern, model.PatternNames(), randomPattern)
	}
	return g, config.Pattern, nil
}

// runAnimation pulls generations from the sequence at the configured frame rate and
// renders each one. It returns the last generation shown and why the run stopped.
func runAnimation(
	ctx context.Context,
	initial model.Generation,
	config utils.Config,
	r renderer,
	out io.Writer,
	stats *utils.Stats,
) (model.Generation, string, error) {
	var (
		seq       = engine.Start(initial)
		last      = initial
		view      = model.Centered(initial, config.ViewWidth, config.ViewHeight)
		history   = &hashHistory{}
		lastFrame = time.Now()
		timer     = time.NewTimer(config.FrameRate)
	)
	defer timer.Stop()

	if err := drawFrame(r, out, last, 0, history.Observe(last), view, stats); err != nil {
		return last, "", err
	}

	for {
		select {
		case <-ctx.Done():
			return last, "interrupted", nil
		case <-timer.C:
		}

		g, ok := seq.Next()
		if !ok {
			return last, seq.Outcome().String(), nil
		}
		last = g

		frameStart := time.Now()
		stats.Update(seq.Generation(), g.Len(), frameStart.Sub(lastFrame))
		lastFrame = frameStart
		if b, ok := g.Bounds(); ok {
			stats.BoundingBoxArea = b.Width() * b.Height()
		}

		if config.FollowPattern {
			view = model.Centered(g, config.ViewWidth, config.ViewHeight)
		}
		if err := drawFrame(r, out, g, seq.Generation(), history.Observe(g), view, stats); err != nil {
			return last, "", err
		}

		if config.MaxGenerations > 0 && seq.Generation() >= config.MaxGenerations {
			return last, fmt.Sprintf("reached maximum generations limit (%d)", config.MaxGenerations), nil
		}
		timer.Reset(config.FrameRate)
	}
}

func drawFrame(
	r renderer,
	out io.Writer,
	g model.Generation,
	generation, period int,
	view model.Viewport,
	stats *utils.Stats,
) error {
	if err := r.Clear(); err != nil {
		return errors.Wrap(err, "[drawFrame] failed to clear screen")
	}
	displayGameStatus(out, generation, g, period, stats)
	if err := r.Display(g, view); err != nil {
		return errors.Wrap(err, "[drawFrame] failed to render generation")
	}
	return nil
}

// hashHistory remembers the hashes of recent generations to spot repeating patterns
type hashHistory struct {
	hashes []string
}

// Observe records g and returns the period of the cycle it closes, or 0 if g
// does not repeat any of the last maxCyclePeriod generations
func (h *hashHistory) Observe(g model.Generation) int {
	hash := g.Hash()
	period := 0
	for p := 1; p <= maxCyclePeriod && p <= len(h.hashes); p++ {
		if h.hashes[len(h.hashes)-p] == hash {
			period = p
			break
		}
	}

	h.hashes = append(h.hashes, hash)
	// Keep only the last few states to detect cycles
	if len(h.hashes) > historySize {
		h.hashes = h.hashes[1:]
	}
	return period
}

// displayGameStatus shows the current game status
func displayGameStatus(out io.Writer, generation int, g model.Generation, period int, stats *utils.Stats) {
	status := "Active"
	if period > 0 {
		status = fmt.Sprintf("Cycling (period %d)", period)
	}
	fmt.Fprintf(out, "Gen: %d | Living: %d | Bounding box: %d cells | Status: %s\n",
		generation, g.Len(), stats.BoundingBoxArea, status)
	fmt.Fprintf(out, "Performance: %.1f gen/sec | Avg Pop: %.1f | Peak: %d | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.PeakPopulation, stats.Runtime().Seconds())
}

// persist writes the last generation wherever the options ask for it
func persist(ctx context.Context, g model.Generation, opts options, store *storage.Store) error {
	if opts.SaveFile != "" {
		if err := storage.SaveFile(opts.SaveFile, g); err != nil {
			return err
		}
	}
	if opts.SaveDB != "" {
		if err := store.SavePattern(ctx, opts.SaveDB, g); err != nil {
			return err
		}
	}
	return nil
}

// runSurvey runs every built-in pattern to completion and prints how each ended
func runSurvey(ctx context.Context, config utils.Config, out io.Writer) error {
	var patterns []survey.Named
	for _, name := range model.PatternNames() {
		g, _ := model.Pattern(name)
		patterns = append(patterns, survey.Named{Name: name, Generation: g})
	}
	patterns = append(patterns, survey.Named{
		Name:       fmt.Sprintf("%s(seed=%d)", randomPattern, config.Seed),
		Generation: model.Random(model.NewRNG(config.Seed), config.RandomWidth, config.RandomHeight, config.RandomDensity),
	})

	limit := config.MaxGenerations
	if limit <= 0 {
		limit = defaultSurveyGenerations
	}
	results, err := survey.Run(ctx, patterns, survey.Options{
		MaxGenerations: limit,
		Workers:        config.SurveyWorkers,
	})
	if err != nil {
		return errors.Wrap(err, "[runSurvey] survey failed")
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tGENERATIONS\tFINAL\tPEAK\tSTATUS")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n",
			res.Name, res.Generations, res.FinalPopulation, res.PeakPopulation, res.Status)
	}
	return tw.Flush()
}

// listPatterns prints the pattern library
func listPatterns(ctx context.Context, store *storage.Store, out io.Writer) error {
	infos, err := store.ListPatterns(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPOPULATION\tUPDATED")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Name, info.Population, info.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
