// Package engine steps Conway's Game of Life over the unbounded plane.
//
// Generations are sparse sets of live cells. Only live cells and their neighbors are
// ever evaluated, every other cell stays dead by omission.
package engine

import (
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/rules"
)

var offsets = [8][2]int64{
	{-1, 1}, {-1, 0}, {-1, -1},
	{0, 1}, {0, -1},
	{1, 1}, {1, 0}, {1, -1},
}

// Neighbors returns the eight cells adjacent to c, orthogonally and diagonally
func Neighbors(c model.Cell) [8]model.Cell {
	var out [8]model.Cell
	for i, d := range offsets {
		out[i] = c.Offset(d[0], d[1])
	}
	return out
}

// Step computes the generation following current and reports whether the simulation
// is finished: the next generation is empty or equal to current. current is not modified.
func Step(current model.Generation) (next model.Generation, finished bool) {
	if current.Len() == 0 {
		return model.NewGeneration(), true
	}

	live := counts.Get()
	defer counts.Put(live)
	for c := range current {
		for _, n := range Neighbors(c) {
			live[n]++
		}
	}

	next = current.Clone()
	for c := range current {
		if !rules.ApplyConwayRules(live[c], true) {
			next.Remove(c)
		}
	}
	// live holds exactly the neighbors of live cells
	for n, count := range live {
		if !current.Contains(n) && rules.ApplyConwayRules(count, false) {
			next.Add(n)
		}
	}

	return next, IsFinished(current, next)
}

// IsFinished reports whether next ends the simulation after current: extinction or
// no change. Missing generations count as finished.
func IsFinished(current, next model.Generation) bool {
	if current == nil || next == nil {
		return true
	}
	return next.Len() == 0 || next.Equal(current)
}
