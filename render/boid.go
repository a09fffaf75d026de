package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vt-boids/canvas"
	"github.com/lixenwraith/vt-boids/physics"
	"github.com/lixenwraith/vt-boids/vmath"
)

// Shape sizes the boid silhouette in dots
type Shape struct {
	Width  float32
	Length float32
	// DebugExtend lengthens the overlay strokes past the silhouette
	DebugExtend float32
}

// DefaultShape is a 20 dot wide, 30 dot long triangle
func DefaultShape() Shape {
	return Shape{
		Width:       20,
		Length:      30,
		DebugExtend: 4,
	}
}

// Overlay holds the projected debug strokes
type Overlay struct {
	Origin canvas.Vertex
	Vel    canvas.Vertex // end of the velocity stroke
	Normal canvas.Vertex // end of the normal stroke
	Target canvas.Vertex
}

// Silhouette returns the triangle base left, base right, nose
func Silhouette(b *physics.Boid, s Shape) [3]canvas.Vertex {
	half := s.Width / 2
	return [3]canvas.Vertex{
		Project(vmath.V2FMulAdd(b.Pos, b.Normal, -half)),
		Project(vmath.V2FMulAdd(b.Pos, b.Normal, half)),
		Project(vmath.V2FMulAdd(b.Pos, b.Vel, s.Length)),
	}
}

// DebugOverlay projects the velocity and normal strokes and the target point
func DebugOverlay(b *physics.Boid, s Shape) Overlay {
	return Overlay{
		Origin: Project(b.Pos),
		Vel:    Project(vmath.V2FMulAdd(b.Pos, b.Vel, s.Length+s.DebugExtend)),
		Normal: Project(vmath.V2FMulAdd(b.Pos, b.Normal, s.Width+s.DebugExtend)),
		Target: Project(b.Target),
	}
}

// Style selects optional presentation of the boid
type Style struct {
	Overlay bool
	Tint    bool
}

// BoidRenderer draws one boid into a surface
type BoidRenderer struct {
	shape Shape
	style Style
	poly  []canvas.Vertex
}

func NewBoidRenderer(shape Shape, style Style) *BoidRenderer {
	return &BoidRenderer{
		shape: shape,
		style: style,
		poly:  make([]canvas.Vertex, 3),
	}
}

// Render fills the silhouette then strokes the debug overlay when enabled
func (r *BoidRenderer) Render(dst Surface, b *physics.Boid) {
	color := tcell.ColorDefault
	if r.style.Tint {
		color = HeadingTint(b.Psi)
	}
	dst.SetColor(color)

	tri := Silhouette(b, r.shape)
	copy(r.poly, tri[:])
	dst.TracePoly(r.poly)

	if !r.style.Overlay {
		return
	}
	o := DebugOverlay(b, r.shape)
	dst.SetColor(tcell.ColorDefault)
	dst.ScanLine(o.Origin.X, o.Origin.Y, o.Vel.X, o.Vel.Y)
	dst.ScanLine(o.Origin.X, o.Origin.Y, o.Normal.X, o.Normal.Y)
	dst.RenderDot(o.Target.X, o.Target.Y)
}
