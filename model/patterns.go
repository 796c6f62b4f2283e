package model

import (
	"math/rand/v2"
	"slices"
)

// Each pattern is drawn row by row, top row first, with the top-left corner at (0, 0).
var patterns = map[string][][]bool{
	"block": {
		{true, true},
		{true, true},
	},
	"blinker": {
		{true, true, true},
	},
	"glider": {
		{false, true, false},
		{false, false, true},
		{true, true, true},
	},
	"r-pentomino": {
		{false, true, true},
		{true, true, false},
		{false, true, false},
	},
	"acorn": {
		{false, true, false, false, false, false, false},
		{false, false, false, true, false, false, false},
		{true, true, false, false, true, true, true},
	},
	"diehard": {
		{false, false, false, false, false, false, true, false},
		{true, true, false, false, false, false, false, false},
		{false, true, false, false, false, true, true, true},
	},
}

func fromRows(rows [][]bool) Generation {
	g := make(Generation)
	for y, row := range rows {
		for x, alive := range row {
			if alive {
				g.Add(Cell{X: int64(x), Y: int64(y)})
			}
		}
	}
	return g
}

// Pattern returns a fresh copy of a built-in pattern by name
func Pattern(name string) (Generation, bool) {
	rows, ok := patterns[name]
	if !ok {
		return nil, false
	}
	return fromRows(rows), true
}

// PatternNames lists the built-in patterns in alphabetical order
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Block is the 2x2 still life
func Block() Generation { return fromRows(patterns["block"]) }

// Blinker is the period-2 oscillator in its horizontal phase
func Blinker() Generation { return fromRows(patterns["blinker"]) }

// Glider travels one cell diagonally every four generations
func Glider() Generation { return fromRows(patterns["glider"]) }

// RPentomino is a methuselah that settles after 1103 generations
func RPentomino() Generation { return fromRows(patterns["r-pentomino"]) }

// Acorn is a methuselah that settles after 5206 generations
func Acorn() Generation { return fromRows(patterns["acorn"]) }

// Diehard vanishes after 130 generations
func Diehard() Generation { return fromRows(patterns["diehard"]) }

// Random fills a width x height area at the origin with live cells at the given density
func Random(rng *rand.Rand, width, height int, density float64) Generation {
	g := make(Generation)
	for y := range height {
		for x := range width {
			if rng.Float64() < density {
				g.Add(Cell{X: int64(x), Y: int64(y)})
			}
		}
	}
	return g
}

// NewRNG creates a deterministic RNG using the provided seed
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}
