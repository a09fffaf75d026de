package physics

import (
	"math"

	"github.com/lixenwraith/vt-boids/vmath"
)

// Standard gravity used by the coordinated turn approximation, m/s²
const Gravity = 9.81

// Boid is the single simulated agent
// Vel and Normal are unit vectors, Normal is always V2FNormal(Vel)
type Boid struct {
	Pos    vmath.Vec2F
	Vel    vmath.Vec2F
	Normal vmath.Vec2F

	// Psi is the heading angle in radians, accumulated without wrapping
	Psi float64

	// Target is tracked for the debug overlay only, Advance never reads it
	Target vmath.Vec2F
}

// NewBoid returns a boid at pos heading along +x
func NewBoid(pos, target vmath.Vec2F) *Boid {
	b := &Boid{
		Pos:    pos,
		Vel:    vmath.Vec2F{X: 1, Y: 0},
		Target: target,
	}
	b.Normal = vmath.V2FNormal(b.Vel)
	return b
}

// Advance integrates one fixed step of dts seconds along the banked turn
// Position is re-derived from the new heading while velocity is rotated
// from its previous value; both advance by the same increment and are never resynchronized
func (b *Boid) Advance(m TurnModel, dts float64) {
	dpsi := m.TurnRate() * dts

	b.Psi += dpsi
	// Sum in double, store in single
	b.Pos.X = float32(float64(b.Pos.X) + m.Speed*cosf(b.Psi)*dts)
	b.Pos.Y = float32(float64(b.Pos.Y) + m.Speed*sinf(b.Psi)*dts)
	b.Vel = vmath.V2FRotR(b.Vel, dpsi)
	b.Normal = vmath.V2FNormal(b.Vel)
}

// Laps returns the number of full circles flown
func (b *Boid) Laps() int {
	return int(math.Floor(b.Psi / (2 * math.Pi)))
}

// Single precision trig: the argument is narrowed before evaluation and
// the result narrowed after, then widened back out for accumulation
func cosf(x float64) float64 { return float64(float32(math.Cos(float64(float32(x))))) }
func sinf(x float64) float64 { return float64(float32(math.Sin(float64(float32(x))))) }
func tanf(x float64) float64 { return float64(float32(math.Tan(float64(float32(x))))) }
