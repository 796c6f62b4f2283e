package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/engine"
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/storage"
	"github.com/sheikhrachel/go-life/utils"
)

type recordingRenderer struct {
	frames []model.Generation
	clears int
}

func (r *recordingRenderer) Clear() error {
	r.clears++
	return nil
}

func (r *recordingRenderer) Display(g model.Generation, _ model.Viewport) error {
	r.frames = append(r.frames, g)
	return nil
}

func testConfig() utils.Config {
	cfg := utils.DefaultConfig()
	cfg.FrameRate = 0
	cfg.ViewWidth = 10
	cfg.ViewHeight = 10
	return cfg
}

func TestRunAnimationStopsAtLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxGenerations = 4
	r := &recordingRenderer{}
	stats := utils.NewStats()

	last, reason, err := runAnimation(context.Background(), model.Blinker(), cfg, r, &bytes.Buffer{}, stats)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(reason, "maximum generations") {
		t.Fatalf("unexpected reason %q", reason)
	}
	if len(r.frames) != 5 || r.clears != 5 {
		t.Fatalf("expected initial frame plus 4 generations, got %d frames %d clears", len(r.frames), r.clears)
	}
	if !last.Equal(model.Blinker()) {
		t.Fatalf("expected blinker back in its initial phase, got %v", last.Cells())
	}
	if stats.TotalGenerations != 4 || stats.PeakPopulation != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestRunAnimationStabilizes(t *testing.T) {
	r := &recordingRenderer{}
	last, reason, err := runAnimation(context.Background(), model.Block(), testConfig(), r, &bytes.Buffer{}, utils.NewStats())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if reason != "stabilized" {
		t.Fatalf("expected stabilized, got %q", reason)
	}
	if len(r.frames) != 1 {
		t.Fatalf("expected only the initial frame, got %d", len(r.frames))
	}
	if !last.Equal(model.Block()) {
		t.Fatalf("expected block, got %v", last.Cells())
	}
}

func TestRunAnimationExtinct(t *testing.T) {
	_, reason, err := runAnimation(context.Background(), model.Diehard(), testConfig(), &recordingRenderer{}, &bytes.Buffer{}, utils.NewStats())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if reason != "extinct" {
		t.Fatalf("expected extinct, got %q", reason)
	}
}

func TestRunAnimationInterrupted(t *testing.T) {
	cfg := testConfig()
	cfg.FrameRate = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &recordingRenderer{}
	last, reason, err := runAnimation(ctx, model.Glider(), cfg, r, &bytes.Buffer{}, utils.NewStats())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if reason != "interrupted" {
		t.Fatalf("expected interrupted, got %q", reason)
	}
	if !last.Equal(model.Glider()) {
		t.Fatalf("expected the initial glider, got %v", last.Cells())
	}
}

func TestInitialGeneration(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	cfg.Pattern = "glider"
	g, source, err := initialGeneration(ctx, cfg, options{}, nil)
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	if source != "glider" || !g.Equal(model.Glider()) {
		t.Fatalf("unexpected pattern %s: %v", source, g.Cells())
	}

	cfg.Pattern = "random"
	a, _, err := initialGeneration(ctx, cfg, options{}, nil)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	b, _, _ := initialGeneration(ctx, cfg, options{}, nil)
	if !a.Equal(b) {
		t.Fatalf("expected the same seed to give the same random pattern")
	}

	cfg.Pattern = "spaceship-of-theseus"
	if _, _, err = initialGeneration(ctx, cfg, options{}, nil); err == nil {
		t.Fatalf("expected error for unknown pattern")
	}
}

func TestPersistAndReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "patterns.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	opts := options{SaveFile: filepath.Join(dir, "state.json"), SaveDB: "saved"}
	if err = persist(ctx, model.Acorn(), opts, store); err != nil {
		t.Fatalf("persist: %v", err)
	}

	for _, load := range []options{{LoadFile: opts.SaveFile}, {LoadDB: "saved"}} {
		g, _, err := initialGeneration(ctx, testConfig(), load, store)
		if err != nil {
			t.Fatalf("load %+v: %v", load, err)
		}
		if !g.Equal(model.Acorn()) {
			t.Fatalf("load %+v: expected acorn, got %v", load, g.Cells())
		}
	}

	var out bytes.Buffer
	if err = listPatterns(ctx, store, &out); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "saved") {
		t.Fatalf("expected saved pattern in listing:\n%s", out.String())
	}
}

func TestRunSurvey(t *testing.T) {
	cfg := testConfig()
	cfg.MaxGenerations = 50

	var out bytes.Buffer
	if err := runSurvey(context.Background(), cfg, &out); err != nil {
		t.Fatalf("survey: %v", err)
	}
	for _, want := range []string{"PATTERN", "block", "glider", "stabilized", "capped"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in survey output:\n%s", want, out.String())
		}
	}
}

func TestBindFlags(t *testing.T) {
	cfg := utils.DefaultConfig()
	var opts options
	fs := flag.NewFlagSet("life", flag.ContinueOnError)
	bindFlags(fs, &cfg, &opts)

	args := []string{"-pattern", "acorn", "-frame-rate", "10ms", "-save", "out.json", "-list-db", "-delete-db", "old", "-offset-x", "-3"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Pattern != "acorn" || cfg.FrameRate != 10*time.Millisecond {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.OffsetX != -3 {
		t.Fatalf("expected offset-x -3, got %d", cfg.OffsetX)
	}
	if opts.SaveFile != "out.json" || !opts.ListDB || opts.DeleteDB != "old" || !opts.needsStore() {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestRunAnimationReportsCycle(t *testing.T) {
	cfg := testConfig()
	cfg.MaxGenerations = 3

	var out bytes.Buffer
	_, reason, err := runAnimation(context.Background(), model.Blinker(), cfg, &recordingRenderer{}, &out, utils.NewStats())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(reason, "maximum generations") {
		t.Fatalf("cycle detection must not stop the run, got reason %q", reason)
	}

	var statuses []string
	for _, line := range strings.Split(out.String(), "\n") {
		if i := strings.Index(line, "Status: "); i >= 0 {
			statuses = append(statuses, line[i+len("Status: "):])
		}
	}
	want := []string{"Active", "Active", "Cycling (period 2)", "Cycling (period 2)"}
	if strings.Join(statuses, ",") != strings.Join(want, ",") {
		t.Fatalf("got statuses %q, want %q", statuses, want)
	}
}

func TestHashHistory(t *testing.T) {
	a := model.Blinker()
	b := model.Block()
	c := model.Glider()

	h := &hashHistory{}
	var periods []int
	for _, g := range []model.Generation{a, b, c, a, b, c, c} {
		periods = append(periods, h.Observe(g))
	}
	want := []int{0, 0, 0, 3, 3, 3, 1}
	for i := range want {
		if periods[i] != want[i] {
			t.Fatalf("got periods %v, want %v", periods, want)
		}
	}
	if len(h.hashes) != historySize {
		t.Fatalf("expected history capped at %d, got %d", historySize, len(h.hashes))
	}

	moving := &hashHistory{}
	seq := engine.Start(model.Glider())
	for i := 0; i < 12; i++ {
		g, _ := seq.Next()
		if p := moving.Observe(g); p != 0 {
			t.Fatalf("glider generation %d reported period %d", i+1, p)
		}
	}
}

func TestRunDeletePattern(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.StorePath = filepath.Join(t.TempDir(), "patterns.db")

	store, err := storage.Open(cfg.StorePath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err = store.SavePattern(ctx, "doomed", model.Glider()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err = store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err = run(ctx, cfg, options{DeleteDB: "doomed"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err = run(ctx, cfg, options{DeleteDB: "doomed"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRunSurveyWithoutLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxGenerations = 0

	var out bytes.Buffer
	if err := runSurvey(context.Background(), cfg, &out); err != nil {
		t.Fatalf("survey: %v", err)
	}
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "glider ") {
			if !strings.Contains(line, fmt.Sprint(defaultSurveyGenerations)) || !strings.Contains(line, "capped") {
				t.Fatalf("expected glider capped at %d generations, got %q", defaultSurveyGenerations, line)
			}
			return
		}
	}
	t.Fatalf("glider missing from survey output:\n%s", out.String())
}

func TestInitialGenerationOffset(t *testing.T) {
	cfg := testConfig()
	cfg.Pattern = "block"
	cfg.OffsetX = -20
	cfg.OffsetY = 7

	g, _, err := initialGeneration(context.Background(), cfg, options{}, nil)
	if err != nil {
		t.Fatalf("initial: %v", err)
	}
	want := model.NewGeneration(
		model.NewCell(-20, 7), model.NewCell(-19, 7),
		model.NewCell(-20, 8), model.NewCell(-19, 8),
	)
	if !g.Equal(want) {
		t.Fatalf("expected %v, got %v", want.Cells(), g.Cells())
	}
}
