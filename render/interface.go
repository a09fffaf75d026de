package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vt-boids/canvas"
)

// Surface is the set of canvas primitives the boid renderer draws with
type Surface interface {
	ScanLine(x0, y0, x1, y1 uint16)
	RenderDot(x, y uint16)
	TracePoly(vs []canvas.Vertex)
	SetColor(color tcell.Color)
}
