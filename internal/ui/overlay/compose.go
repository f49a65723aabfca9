package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// canvas is a grid of rendered lines that blocks are painted onto
type canvas struct {
	width  int
	height int
	lines  []string
}

// newCanvas creates a canvas; zero dimensions grow to fit what is drawn
func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height}
	if height > 0 {
		c.lines = make([]string, height)
		for i := range c.lines {
			c.lines[i] = strings.Repeat(" ", width)
		}
	}
	return c
}

// size returns the effective canvas dimensions
func (c *canvas) size() (int, int) {
	w, h := c.width, c.height
	if w == 0 {
		for _, l := range c.lines {
			w = max(w, ansi.StringWidth(l))
		}
	}
	if h == 0 {
		h = len(c.lines)
	}
	return w, h
}

// draw paints block with its top-left corner at (x, y)
func (c *canvas) draw(x, y int, block string) {
	if block == "" {
		return
	}
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		if c.height > 0 && row >= c.height {
			break
		}
		for row >= len(c.lines) {
			c.lines = append(c.lines, "")
		}
		c.lines[row] = splice(c.lines[row], max(x, 0), line)
	}
}

// place paints block aligned inside the canvas, offset away from the anchored edge
func (c *canvas) place(h, v lipgloss.Position, offset int, block string) {
	w, ht := c.size()
	bw, bh := lipgloss.Size(block)

	x := int(float64(w-bw) * float64(h))
	var y int
	switch v {
	case lipgloss.Top:
		y = offset
	case lipgloss.Bottom:
		y = ht - bh - offset
	default:
		y = int(float64(ht-bh) * float64(v))
	}
	c.draw(max(x, 0), max(y, 0), block)
}

func (c *canvas) String() string {
	return strings.Join(c.lines, "\n")
}

// splice overwrites base starting at cell x with overlay, keeping whatever
// of base lies to either side
func splice(base string, x int, overlay string) string {
	baseWidth := ansi.StringWidth(base)
	overlayWidth := ansi.StringWidth(overlay)

	left := ansi.Truncate(base, x, "")
	if lw := ansi.StringWidth(left); lw < x {
		left += strings.Repeat(" ", x-lw)
	}

	var right string
	if baseWidth > x+overlayWidth {
		right = ansi.TruncateLeft(base, x+overlayWidth, "")
	}

	return left + overlay + right
}
