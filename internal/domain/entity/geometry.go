// Package entity contains domain entities for the docking engine.
// These entities are pure Go types with no infrastructure dependencies.
package entity

// Rect represents a rectangle in viewport-local coordinates.
// Callers are expected to pass non-negative width/height; this is not enforced.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (cx, cy float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether the point (x, y) lies within the rectangle,
// edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Placement is the computed bounds for a single window within a viewport.
type Placement struct {
	ID     string `json:"id"`
	Bounds Rect   `json:"bounds"`
}
