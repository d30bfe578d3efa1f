package row

import (
	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/layout"
)

// EmbeddedContent is non-text content of a fixed height, such as a rule or
// an image placeholder. It spans the available width when measured with a
// bounded width.
type EmbeddedContent struct {
	Label  string
	Length int

	height float64
	width  float64
}

// NewEmbeddedContent creates embedded content of the given natural size.
// length is the paragraph's length in the model.
func NewEmbeddedContent(label string, length int, width, height float64) *EmbeddedContent {
	return &EmbeddedContent{Label: label, Length: length, width: width, height: height}
}

// Kind implements Content.
func (c *EmbeddedContent) Kind() Kind { return KindEmbedded }

// TextLength implements Content.
func (c *EmbeddedContent) TextLength() int { return c.Length }

// Measure implements Content.
func (c *EmbeddedContent) Measure(width float64) (w, h float64) {
	w = c.width
	if width > 0 && (w <= 0 || w > width) {
		w = width
	}
	c.width = w
	return w, c.height
}

// HitTest implements Content. Embedded content is not text.
func (c *EmbeddedContent) HitTest(x, y float64) (layout.Hit, bool) {
	return layout.Hit{}, false
}

// CaretShape implements Content. The caret sits on the left edge before the
// content and on the right edge after it.
func (c *EmbeddedContent) CaretShape(offset int, leading bool) core.Shape {
	x := 0.0
	if offset > 0 {
		x = c.width
	}
	return core.Shape{{X: x, H: max(c.height, MinHeight)}}
}

// RangeShape implements Content.
func (c *EmbeddedContent) RangeShape(start, end int) core.Shape {
	if start == end {
		return nil
	}
	return core.Shape{{W: c.width, H: max(c.height, MinHeight)}}
}

// LineEdge implements Content.
func (c *EmbeddedContent) LineEdge(start bool, offset int, leading bool) int {
	if start {
		return 0
	}
	return c.Length
}
