package model

import (
	"bufio"
	"io"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	// ANSI: clear screen and move the cursor home
	clearSequence = "\033[H\033[2J"
)

// Viewport is the window of the plane drawn by the renderer
type Viewport struct {
	OriginX, OriginY int64
	Width, Height    int
}

// Centered returns a viewport of the given size centered on the generation's bounding box
func Centered(g Generation, width, height int) Viewport {
	v := Viewport{Width: width, Height: height}
	b, ok := g.Bounds()
	if !ok {
		v.OriginX = -int64(width) / 2
		v.OriginY = -int64(height) / 2
		return v
	}
	v.OriginX = b.MinX + b.Width()/2 - int64(width)/2
	v.OriginY = b.MinY + b.Height()/2 - int64(height)/2
	return v
}

// TerminalRenderer implements basic terminal rendering
type TerminalRenderer struct {
	Out io.Writer
}

// Display renders the viewport of the generation
func (r *TerminalRenderer) Display(g Generation, v Viewport) error {
	w := bufio.NewWriter(r.Out)
	for y := range v.Height {
		for x := range v.Width {
			if g.Contains(Cell{X: v.OriginX + int64(x), Y: v.OriginY + int64(y)}) {
				w.WriteString(gridPosBlock)
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	_, err := io.WriteString(r.Out, clearSequence)
	return err
}
