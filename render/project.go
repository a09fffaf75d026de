package render

import (
	"math"

	"github.com/lixenwraith/vt-boids/canvas"
	"github.com/lixenwraith/vt-boids/vmath"
)

// Project maps a dot space point to the nearest integer vertex
// Rounds half up and narrows without bounds checks, negative coordinates wrap
// and are read back as signed by the canvas
func Project(v vmath.Vec2F) canvas.Vertex {
	return canvas.Vertex{
		X: uint16(int64(math.Floor(float64(v.X) + 0.5))),
		Y: uint16(int64(math.Floor(float64(v.Y) + 0.5))),
	}
}
