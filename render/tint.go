package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Saturation and value of the heading hue wheel
const (
	tintSaturation = 0.65
	tintValue      = 1.0
)

// HeadingTint maps a heading angle onto the hue wheel, one full turn per circle
func HeadingTint(psi float64) tcell.Color {
	deg := math.Mod(psi*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	r, g, b := colorful.Hsv(deg, tintSaturation, tintValue).RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
