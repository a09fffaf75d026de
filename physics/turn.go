package physics

import (
	"math"
)

// TurnModel describes a constant bank angle coordinated turn
// Speed is in canvas dots per second, BankDeg in degrees
type TurnModel struct {
	Speed   float64
	BankDeg float64
	Gravity float64
}

// DefaultTurnModel is the 50 dots/s, 80° bank turn
func DefaultTurnModel() TurnModel {
	return TurnModel{
		Speed:   50,
		BankDeg: 80,
		Gravity: Gravity,
	}
}

// TurnRate returns ω = g·tan(φ)/S in rad/s
func (m TurnModel) TurnRate() float64 {
	phi := m.BankDeg * math.Pi / 180
	return (m.Gravity * tanf(phi)) / m.Speed
}

// Radius of the flown circle in dots
func (m TurnModel) Radius() float64 {
	return m.Speed / m.TurnRate()
}

// Period returns seconds per full circle
func (m TurnModel) Period() float64 {
	return 2 * math.Pi / m.TurnRate()
}
