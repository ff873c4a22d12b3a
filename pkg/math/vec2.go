// Package math provides the small vector types used for atlas placement.
package math

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// NonNegative reports whether both components are >= 0.
// NaN components are never non-negative.
func (v Vec2) NonNegative() bool {
	return v.X >= 0 && v.Y >= 0
}

// Floor returns the components rounded down to whole pixels.
func (v Vec2) Floor() (x, y int) {
	return int(math.Floor(float64(v.X))), int(math.Floor(float64(v.Y)))
}
