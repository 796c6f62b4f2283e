package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/storage"
	"github.com/sheikhrachel/go-life/utils"
)

const defaultConfigFile = "config.json"

func main() {
	log.SetPrefix("[LIFE] ")
	if err := realMain(); err != nil {
		log.Fatalf("%v", err)
	}
}

func realMain() error {
	// Load configuration - fallback to defaults if file doesn't exist
	configFile := os.Getenv("LIFE_CONFIG")
	if configFile == "" {
		configFile = defaultConfigFile
	}
	config, err := utils.LoadConfig(configFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		log.Printf("Using default configuration (%s not found)", configFile)
		config = utils.DefaultConfig()
	}
	if err = utils.ApplyEnv(&config); err != nil {
		return err
	}

	var opts options
	bindFlags(flag.CommandLine, &config, &opts)
	flag.Parse()

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, config, opts)
}

func run(ctx context.Context, config utils.Config, opts options) error {
	if config.Mode == "survey" {
		return runSurvey(ctx, config, os.Stdout)
	}
	if config.Mode != "animate" {
		return errors.Errorf("unknown mode %q", config.Mode)
	}

	var store *storage.Store
	if opts.needsStore() {
		var err error
		if store, err = storage.Open(config.StorePath); err != nil {
			return err
		}
		defer store.Close()
	}
	if opts.DeleteDB != "" {
		if err := store.DeletePattern(ctx, opts.DeleteDB); err != nil {
			return errors.Wrapf(err, "delete pattern %q", opts.DeleteDB)
		}
		log.Printf("Deleted pattern %s", opts.DeleteDB)
		return nil
	}
	if opts.ListDB {
		return listPatterns(ctx, store, os.Stdout)
	}

	initial, source, err := initialGeneration(ctx, config, opts, store)
	if err != nil {
		return err
	}
	log.Printf("Starting from %s with %d living cells", source, initial.Len())

	stats := utils.NewStats()
	last, reason, err := runAnimation(ctx, initial, config, &model.TerminalRenderer{Out: os.Stdout}, os.Stdout, stats)
	if err != nil {
		return err
	}
	log.Printf("Stopped after %d generations: %s", stats.TotalGenerations, reason)
	log.Printf("Average: %.1f gen/sec, %.1f avg population, %d peak",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.PeakPopulation)

	// persist on a fresh context so an interrupt still saves the last frame
	return persist(context.WithoutCancel(ctx), last, opts, store)
}
