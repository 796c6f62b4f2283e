// Package rules holds the B3/S23 birth and survival rule of Conway's Game of Life.
package rules

const (
	survivalLow  = 2
	survivalHigh = 3
	birthCount   = 3
)

// Survives reports whether a live cell with the given live-neighbor count stays alive
func Survives(neighbors int) bool {
	return neighbors == survivalLow || neighbors == survivalHigh
}

// IsBorn reports whether a dead cell with the given live-neighbor count comes alive
func IsBorn(neighbors int) bool {
	return neighbors == birthCount
}

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	if alive {
		return Survives(neighbors)
	}
	return IsBorn(neighbors)
}
