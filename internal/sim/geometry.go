package sim

import "math"

// Circle is a circular hit region in canvas pixels.
type Circle struct {
	X, Y, R float64
}

// Contains reports whether (px, py) lies inside or on the circle.
func (c Circle) Contains(px, py float64) bool {
	dx, dy := px-c.X, py-c.Y
	return dx*dx+dy*dy <= c.R*c.R
}

// Rect is an axis-aligned rectangle with X,Y at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (px, py) lies inside or on the rectangle.
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px <= r.X+r.W && py >= r.Y && py <= r.Y+r.H
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Point is a canvas position.
type Point struct {
	X, Y float64
}

// Line is a straight segment, used for hose runs.
type Line struct {
	From, To Point
}

// ScaleToCanvas maps a position in displayed coordinates to canvas pixels
// using the linear ratio between the canvas resolution and its displayed
// size. A degenerate display size returns the point unchanged.
func ScaleToCanvas(px, py, displayW, displayH, canvasW, canvasH float64) (float64, float64) {
	if displayW <= 0 || displayH <= 0 {
		return px, py
	}
	return px * canvasW / displayW, py * canvasH / displayH
}

func dist(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// rotate turns the vector (x, y) by angle radians.
func rotate(x, y, angle float64) (float64, float64) {
	s, c := math.Sincos(angle)
	return x*c - y*s, x*s + y*c
}
