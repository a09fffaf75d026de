package canvas

import (
	"math"
	"slices"
)

// Braille dot bits indexed by [row][col] within a cell
var brailleBits = [CellDotsY][CellDotsX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

func glyph(mask uint8) rune {
	if mask == 0 {
		return ' '
	}
	return rune(brailleBase + int(mask))
}

// setDot marks a dot in the back buffer, out of range dots are dropped
func (c *Canvas) setDot(x, y int) {
	if x < 0 || y < 0 || x >= c.cols*CellDotsX || y >= c.rows*CellDotsY {
		return
	}
	b := &c.back[(y/CellDotsY)*c.cols+x/CellDotsX]
	b.mask |= brailleBits[y%CellDotsY][x%CellDotsX]
	b.color = c.color
}

// coord reads a vertex component as signed, projected negatives arrive wrapped
func coord(v uint16) int {
	return int(int16(v))
}

// RenderDot sets a single dot
func (c *Canvas) RenderDot(x, y uint16) {
	c.setDot(coord(x), coord(y))
}

// ScanLine draws a line between two dots, endpoints inclusive
func (c *Canvas) ScanLine(x0, y0, x1, y1 uint16) {
	c.line(coord(x0), coord(y0), coord(x1), coord(y1))
}

// line is Bresenham over the full octant range
func (c *Canvas) line(x0, y0, x1, y1 int) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.setDot(x0, y0)

		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// TracePoly fills the polygon given by vs in order, even-odd rule, outline included
// One vertex renders a dot, two a line
func (c *Canvas) TracePoly(vs []Vertex) {
	switch len(vs) {
	case 0:
		return
	case 1:
		c.RenderDot(vs[0].X, vs[0].Y)
		return
	}

	minY, maxY := coord(vs[0].Y), coord(vs[0].Y)
	for _, v := range vs[1:] {
		minY = min(minY, coord(v.Y))
		maxY = max(maxY, coord(v.Y))
	}
	// Rows past the surface cannot contribute
	minY = max(minY, 0)
	maxY = min(maxY, c.YDots()-1)

	n := len(vs)
	for y := minY; y <= maxY; y++ {
		c.xs = c.xs[:0]
		fy := float64(y)
		for i := 0; i < n; i++ {
			a, b := vs[i], vs[(i+1)%n]
			ay, by := float64(coord(a.Y)), float64(coord(b.Y))
			// Half-open span so shared vertices are counted once
			if (ay <= fy && fy < by) || (by <= fy && fy < ay) {
				t := (fy - ay) / (by - ay)
				ax, bx := float64(coord(a.X)), float64(coord(b.X))
				c.xs = append(c.xs, ax+t*(bx-ax))
			}
		}
		slices.Sort(c.xs)
		for i := 0; i+1 < len(c.xs); i += 2 {
			x0 := int(math.Ceil(c.xs[i]))
			x1 := int(math.Floor(c.xs[i+1]))
			for x := max(x0, 0); x <= x1 && x < c.XDots(); x++ {
				c.setDot(x, y)
			}
		}
	}

	for i := 0; i < n; i++ {
		a, b := vs[i], vs[(i+1)%n]
		c.line(coord(a.X), coord(a.Y), coord(b.X), coord(b.Y))
	}
}
