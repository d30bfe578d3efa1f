package row

import (
	"math"

	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/layout"
)

// TextContent is a text paragraph laid out by the layout engine.
type TextContent struct {
	text    string
	spans   []core.StyleSpan
	engine  *layout.Engine
	metrics Metrics

	layout *layout.LineLayout
	cols   int
}

// NewTextContent creates text content. spans may be nil.
func NewTextContent(text string, spans []core.StyleSpan, engine *layout.Engine, metrics Metrics) *TextContent {
	if engine == nil {
		engine = layout.NewEngine(4, true)
	}
	return &TextContent{
		text:    text,
		spans:   spans,
		engine:  engine,
		metrics: metrics.normalized(),
		cols:    -1,
	}
}

// Kind implements Content.
func (c *TextContent) Kind() Kind { return KindText }

// Text returns the paragraph text.
func (c *TextContent) Text() string { return c.text }

// Spans returns the style spans.
func (c *TextContent) Spans() []core.StyleSpan { return c.spans }

// Layout returns the most recent layout, computing an unwrapped one if the
// content was never measured.
func (c *TextContent) Layout() *layout.LineLayout {
	if c.layout == nil {
		c.relayout(0)
	}
	return c.layout
}

func (c *TextContent) relayout(cols int) {
	if c.layout != nil && c.cols == cols {
		return
	}
	c.layout = c.engine.Layout(c.text, cols)
	c.cols = cols
}

// TextLength implements Content.
func (c *TextContent) TextLength() int {
	return c.Layout().RuneCount
}

// Measure implements Content. An empty paragraph measures one line.
func (c *TextContent) Measure(width float64) (w, h float64) {
	c.relayout(c.metrics.Columns(width))
	w = float64(c.layout.Width) * c.metrics.CellWidth
	h = float64(c.layout.LineCount()) * c.metrics.LineHeight
	return w, h
}

// HitTest implements Content.
func (c *TextContent) HitTest(x, y float64) (layout.Hit, bool) {
	l := c.Layout()
	line := int(math.Floor(y / c.metrics.LineHeight))
	return l.HitTest(x/c.metrics.CellWidth, line), true
}

// CaretShape implements Content.
func (c *TextContent) CaretShape(offset int, leading bool) core.Shape {
	col, line := c.Layout().CaretColumn(offset, leading)
	return core.Shape{{
		X: float64(col) * c.metrics.CellWidth,
		Y: float64(line) * c.metrics.LineHeight,
		H: c.metrics.LineHeight,
	}}
}

// RangeShape implements Content.
func (c *TextContent) RangeShape(start, end int) core.Shape {
	spans := c.Layout().RangeSpans(start, end)
	if len(spans) == 0 {
		return nil
	}
	shape := make(core.Shape, 0, len(spans))
	for _, sp := range spans {
		shape = append(shape, core.Rect{
			X: float64(sp.StartCol) * c.metrics.CellWidth,
			Y: float64(sp.Line) * c.metrics.LineHeight,
			W: float64(sp.EndCol-sp.StartCol) * c.metrics.CellWidth,
			H: c.metrics.LineHeight,
		})
	}
	return shape
}

// LineEdge implements Content.
func (c *TextContent) LineEdge(start bool, offset int, leading bool) int {
	return c.Layout().LineEdge(start, offset, leading)
}
