package vmath

import (
	"math"
)

// Vec2F is a float32 2D vector in canvas dot space
// Values are immutable, every operation returns a new vector
type Vec2F struct {
	X, Y float32
}

// V2FMulAdd returns a + b*k
// Negative k offsets against b
func V2FMulAdd(a, b Vec2F, k float32) Vec2F {
	return Vec2F{a.X + b.X*k, a.Y + b.Y*k}
}

func V2FSub(a, b Vec2F) Vec2F {
	return Vec2F{a.X - b.X, a.Y - b.Y}
}

func V2FScale(v Vec2F, s float32) Vec2F {
	return Vec2F{v.X * s, v.Y * s}
}

func V2FDot(a, b Vec2F) float32 {
	return a.X*b.X + a.Y*b.Y
}

func V2FMag(v Vec2F) float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// V2FUnit returns v scaled to length 1
// Zero-length input is a programming error and panics
func V2FUnit(v Vec2F) Vec2F {
	m := V2FMag(v)
	if m == 0 {
		panic("vmath: unit vector of zero-length Vec2F")
	}
	return Vec2F{v.X / m, v.Y / m}
}

// V2FNormal returns v rotated 90° counter-clockwise
func V2FNormal(v Vec2F) Vec2F {
	return Vec2F{-v.Y, v.X}
}

// V2FRotR rotates v by rad radians, trig evaluated in single precision
// The angle itself is rounded to float32 first
func V2FRotR(v Vec2F, rad float64) Vec2F {
	r := float64(float32(rad))
	cs := float32(math.Cos(r))
	sn := float32(math.Sin(r))

	return Vec2F{
		v.X*cs - v.Y*sn,
		v.X*sn + v.Y*cs,
	}
}

// V2FRotD rotates v by d degrees
func V2FRotD(v Vec2F, d float64) Vec2F {
	return V2FRotR(v, math.Pi*d/180)
}
