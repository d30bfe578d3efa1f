// Package row defines the materialized visual representation of one
// paragraph: its measured size, its vertical position in the window's local
// coordinate space, and the content handle used for hit testing and caret
// and selection geometry.
package row

import (
	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/layout"
)

// MinHeight is the smallest height a row can measure. Content that measures
// shorter (an empty paragraph, zero-height embedded content) is given this
// height so caret geometry never collapses to a point.
const MinHeight = 1.0

// Kind tags what a row's content is.
type Kind uint8

const (
	// KindText is a laid-out text paragraph.
	KindText Kind = iota

	// KindEmbedded is arbitrary non-text content with a fixed size.
	KindEmbedded
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEmbedded:
		return "embedded"
	default:
		return "unknown"
	}
}

// Content is the capability a row's content provides to the window.
// All coordinates are row-local, with (0, 0) at the row's top-left corner.
type Content interface {
	// Kind returns the content kind.
	Kind() Kind

	// TextLength returns the number of runes in the paragraph.
	TextLength() int

	// Measure lays the content out for the given width and returns its
	// size. A width <= 0 lays out without wrapping.
	Measure(width float64) (w, h float64)

	// HitTest maps a row-local point to a character position. ok is false
	// if the content cannot be hit-tested as text.
	HitTest(x, y float64) (hit layout.Hit, ok bool)

	// CaretShape returns the caret geometry at the given offset.
	CaretShape(offset int, leading bool) core.Shape

	// RangeShape returns one rect per visual line covered by [start, end).
	RangeShape(start, end int) core.Shape

	// LineEdge returns the offset of the start or end of the visual line
	// holding the caret.
	LineEdge(start bool, offset int, leading bool) int
}

// Row is one materialized paragraph.
type Row struct {
	// Index is the paragraph index in the model.
	Index int

	// Content is the measurable content.
	Content Content

	// Y is the row's top edge in window-local coordinates. Each reflow
	// places its own copy of the row.
	Y float64

	// Height and Width are the measured size.
	Height float64
	Width  float64

	measured  bool
	measuredW float64
}

// New creates an unmeasured row.
func New(index int, content Content) *Row {
	return &Row{Index: index, Content: content}
}

// Layout measures the row for the given layout width. Measuring again at
// the same width is a no-op.
func (r *Row) Layout(width float64) {
	if r.measured && r.measuredW == width {
		return
	}
	w, h := r.Content.Measure(width)
	if h < MinHeight {
		h = MinHeight
	}
	r.Width = w
	r.Height = h
	r.measured = true
	r.measuredW = width
}

// Placed returns a copy of the row with its top edge at y. The copy shares
// the content.
func (r *Row) Placed(y float64) *Row {
	c := *r
	c.Y = y
	return &c
}

// Bottom returns the row's bottom edge in window-local coordinates.
func (r *Row) Bottom() float64 {
	return r.Y + r.Height
}

// Kind returns the content kind.
func (r *Row) Kind() Kind {
	return r.Content.Kind()
}

// TextLength returns the paragraph length in runes.
func (r *Row) TextLength() int {
	return r.Content.TextLength()
}
