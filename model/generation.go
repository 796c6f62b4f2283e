package model

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"slices"
)

// Generation is the set of live cells at one time step
type Generation map[Cell]struct{}

// Bounds is the inclusive bounding box of a generation
type Bounds struct {
	MinX, MaxX, MinY, MaxY int64
}

// Width returns the number of columns covered by the box
func (b Bounds) Width() int64 { return b.MaxX - b.MinX + 1 }

// Height returns the number of rows covered by the box
func (b Bounds) Height() int64 { return b.MaxY - b.MinY + 1 }

// NewGeneration creates a generation holding the given cells, duplicates collapse
func NewGeneration(cells ...Cell) Generation {
	g := make(Generation, len(cells))
	for _, c := range cells {
		g[c] = struct{}{}
	}
	return g
}

// Add marks a cell as alive
func (g Generation) Add(c Cell) {
	g[c] = struct{}{}
}

// Remove marks a cell as dead
func (g Generation) Remove(c Cell) {
	delete(g, c)
}

// Contains reports whether the cell is alive. A nil generation contains nothing.
func (g Generation) Contains(c Cell) bool {
	_, ok := g[c]
	return ok
}

// Len returns the population
func (g Generation) Len() int {
	return len(g)
}

// Clone returns an independent copy
func (g Generation) Clone() Generation {
	next := make(Generation, len(g))
	for c := range g {
		next[c] = struct{}{}
	}
	return next
}

// Equal reports set equality, independent of iteration order
func (g Generation) Equal(o Generation) bool {
	if len(g) != len(o) {
		return false
	}
	for c := range g {
		if _, ok := o[c]; !ok {
			return false
		}
	}
	return true
}

// Cells returns the live cells sorted row-major
func (g Generation) Cells() []Cell {
	cells := make([]Cell, 0, len(g))
	for c := range g {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, Cell.Compare)
	return cells
}

// Bounds calculates the bounding box of living cells, ok is false when the generation is empty
func (g Generation) Bounds() (b Bounds, ok bool) {
	for c := range g {
		if !ok {
			b = Bounds{MinX: c.X, MaxX: c.X, MinY: c.Y, MaxY: c.Y}
			ok = true
			continue
		}
		b.MinX = min(b.MinX, c.X)
		b.MaxX = max(b.MaxX, c.X)
		b.MinY = min(b.MinY, c.Y)
		b.MaxY = max(b.MaxY, c.Y)
	}
	return b, ok
}

// Hash returns an MD5 digest of the sorted cells, equal generations hash equally
func (g Generation) Hash() string {
	h := md5.New()
	var buf [16]byte
	for _, c := range g.Cells() {
		binary.LittleEndian.PutUint64(buf[:8], uint64(c.X))
		binary.LittleEndian.PutUint64(buf[8:], uint64(c.Y))
		h.Write(buf[:])
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Translate returns a copy of the generation shifted by (dx, dy)
func Translate(g Generation, dx, dy int64) Generation {
	next := make(Generation, len(g))
	for c := range g {
		next.Add(c.Offset(dx, dy))
	}
	return next
}
