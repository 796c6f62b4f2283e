package model

import "fmt"

// Cell is one point on the unbounded integer plane.
// Two cells are equal iff both coordinates match, so Cell works directly as a map key.
type Cell struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// NewCell returns the cell at (x, y)
func NewCell(x, y int64) Cell {
	return Cell{X: x, Y: y}
}

// Compare orders cells row-major: by Y, then by X
func (c Cell) Compare(o Cell) int {
	switch {
	case c.Y < o.Y:
		return -1
	case c.Y > o.Y:
		return 1
	case c.X < o.X:
		return -1
	case c.X > o.X:
		return 1
	}
	return 0
}

// Offset returns the cell shifted by (dx, dy)
func (c Cell) Offset(dx, dy int64) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}
