package core

import "math"

// Insets holds padding on each side of the content area.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Rect is an axis-aligned rectangle. A zero-width rect is used for carets.
type Rect struct {
	X, Y, W, H float64
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Translate returns the rect moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Contains returns true if the point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.MaxX() && y >= r.Y && y < r.MaxY()
}

// Shape is geometry made of rectangles: one per visual line of a range
// shape, or a single zero-width rect for a caret.
type Shape []Rect

// Translate returns a copy of the shape moved by (dx, dy).
func (s Shape) Translate(dx, dy float64) Shape {
	if s == nil {
		return nil
	}
	out := make(Shape, len(s))
	for i, r := range s {
		out[i] = r.Translate(dx, dy)
	}
	return out
}

// Bounds returns the bounding box of the shape.
// An empty shape has an empty bounding box at the origin.
func (s Shape) Bounds() Rect {
	if len(s) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range s {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.MaxX())
		maxY = math.Max(maxY, r.MaxY())
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// CaretInfo describes the caret geometry in viewport coordinates.
type CaretInfo struct {
	MinX, MaxX float64
	MinY, MaxY float64
	Shape      Shape
}

// NewCaretInfo computes the bounds of a caret shape.
func NewCaretInfo(s Shape) *CaretInfo {
	b := s.Bounds()
	return &CaretInfo{
		MinX:  b.X,
		MaxX:  b.MaxX(),
		MinY:  b.Y,
		MaxY:  b.MaxY(),
		Shape: s,
	}
}

// Height returns the caret's vertical extent.
func (c *CaretInfo) Height() float64 {
	return c.MaxY - c.MinY
}
