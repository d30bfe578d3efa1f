package arrangement

import (
	"math"

	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/row"
)

const (
	// DefaultMarginFactor is the default margin, in viewport heights,
	// materialized beyond the visible area on each side.
	DefaultMarginFactor = 3.0

	// DefaultMinMarginRows is the default minimum number of rows
	// materialized in each margin regardless of their height.
	DefaultMinMarginRows = 4
)

// RowSource returns the row for a paragraph, building it on a cache miss.
type RowSource interface {
	Row(index int) *row.Row
}

// RowSourceFunc adapts a function to RowSource.
type RowSourceFunc func(index int) *row.Row

// Row implements RowSource.
func (f RowSourceFunc) Row(index int) *row.Row {
	return f(index)
}

// Params describes one build.
type Params struct {
	// Origin is the requested window anchor.
	Origin core.Origin

	// Count is the document's paragraph count.
	Count int

	// Width and Height are the size of the content area.
	Width  float64
	Height float64

	// Padding is the content padding.
	Padding core.Insets

	// LayoutWidth is the width rows are measured at; <= 0 lays rows out
	// without wrapping.
	LayoutWidth float64

	// MarginFactor is the size of each margin in viewport heights.
	MarginFactor float64

	// MinMarginRows is the minimum number of rows in each margin.
	MinMarginRows int

	// CorrectWhitespace scrolls the window up within the same build when
	// its content ends above the viewport bottom.
	CorrectWhitespace bool
}

// NormalizeOrigin clamps an origin to a document of count paragraphs with
// the given top padding. The document start is (0, -padTop).
func NormalizeOrigin(o core.Origin, count int, padTop float64) core.Origin {
	if count <= 0 || o.Index < 0 {
		return core.Origin{Offset: -padTop}
	}
	if o.Index >= count {
		return core.Origin{Index: count - 1}
	}
	if o.Index == 0 && (o.Offset == 0 || o.Offset < -padTop) {
		o.Offset = -padTop
	}
	return o
}

func (p Params) normalized() Params {
	if p.MarginFactor <= 1 {
		p.MarginFactor = DefaultMarginFactor
	}
	if p.MinMarginRows < 0 {
		p.MinMarginRows = 0
	}
	if p.Height < 0 {
		p.Height = 0
	}
	if p.Width < 0 {
		p.Width = 0
	}
	p.Origin = NormalizeOrigin(p.Origin, p.Count, p.Padding.Top)
	return p
}

// Build materializes the rows around p.Origin. The number of rows it reads
// depends on the viewport height, the margin factor and the row heights,
// never on the document size.
func Build(p Params, src RowSource) *Arrangement {
	p = p.normalized()
	a := build(p, src)
	if p.CorrectWhitespace {
		if o, ok := a.whitespaceCorrection(); ok {
			p.Origin = o
			a = build(p, src)
		}
	}
	return a
}

func build(p Params, src RowSource) *Arrangement {
	a := &Arrangement{
		origin:  p.Origin,
		count:   p.Count,
		width:   p.Width,
		height:  p.Height,
		padding: p.Padding,
	}
	if p.Count == 0 {
		a.bottomEdge = p.Padding.Top + p.Padding.Bottom
		return a
	}

	vh := p.Height
	margin := p.MarginFactor * vh
	limit := vh + margin

	// Forward pass: origin paragraph, visible rows, bottom margin.
	y := -p.Origin.Offset
	for i := p.Origin.Index; i < p.Count; i++ {
		r := src.Row(i)
		r.Layout(p.LayoutWidth)
		r = r.Placed(y)
		a.bottom = append(a.bottom, r)
		a.bottomHeight += r.Height
		if r.Y < vh {
			a.visibleEnd = len(a.bottom)
			if r.Bottom() > 0 {
				a.visibleCount++
				a.unwrappedWidth = math.Max(a.unwrappedWidth, r.Width)
			}
		}
		y += r.Height
		if y > limit && len(a.bottom)-a.visibleEnd >= p.MinMarginRows {
			break
		}
	}
	a.bottomEdge = y

	// The unused part of the bottom budget goes to the top margin.
	budget := margin
	if a.AtEnd() {
		a.bottomEdge += p.Padding.Bottom
		if extra := limit - a.bottomEdge; extra > 0 {
			budget += extra
		}
	}

	// Backward pass: top margin.
	y = -p.Origin.Offset
	for i := p.Origin.Index - 1; i >= 0; i-- {
		r := src.Row(i)
		r.Layout(p.LayoutWidth)
		y -= r.Height
		r = r.Placed(y)
		a.top = append(a.top, r)
		a.topHeight += r.Height
		if r.Bottom() > 0 {
			a.unwrappedWidth = math.Max(a.unwrappedWidth, r.Width)
		}
		if -y > budget && len(a.top) >= p.MinMarginRows {
			break
		}
	}
	return a
}

// whitespaceCorrection returns the origin that moves the content's bottom
// edge down to the viewport bottom when the window shows empty space below
// the document end.
func (a *Arrangement) whitespaceCorrection() (core.Origin, bool) {
	if a.Len() == 0 || !a.AtEnd() {
		return core.Origin{}, false
	}
	if a.origin.Index == 0 && a.origin.Offset <= -a.padding.Top {
		return core.Origin{}, false
	}
	deficit := a.height - a.bottomEdge
	if deficit <= 0 {
		return core.Origin{}, false
	}
	o := a.originAt(-deficit)
	return o, o != a.origin
}
