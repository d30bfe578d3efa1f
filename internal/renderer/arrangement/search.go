package arrangement

import (
	"math"

	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/row"
)

// epsilon is the tolerance used when deciding whether a scroll moved.
const epsilon = 1e-9

// rowAt returns the window position of the row whose [Y, Y+Height) holds y,
// searching positions [lo, hi). The last paragraph of the document holds
// every y below its top. A y above the first row yields lo.
func (a *Arrangement) rowAt(y float64, lo, hi int) int {
	last := a.count - 1
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		r := a.At(mid)
		switch {
		case y < r.Y:
			hi = mid
		case y >= r.Bottom() && r.Index != last:
			lo = mid + 1
		default:
			return mid
		}
	}
	if lo >= a.Len() {
		lo = a.Len() - 1
	}
	return lo
}

// RowAt returns the row holding window-local y, or nil if the window is
// empty. A y above the window yields its first row and a y below it the
// last.
func (a *Arrangement) RowAt(y float64) *row.Row {
	if a.Len() == 0 {
		return nil
	}
	return a.At(a.rowAt(y, 0, a.Len()))
}

// TextPosAt maps a point in window-local content coordinates to a text
// position. x is measured from the left edge of the content, without
// padding or horizontal scroll.
func (a *Arrangement) TextPosAt(x, y float64) core.TextPos {
	r := a.RowAt(y)
	if r == nil || a.count == 0 {
		return core.ZeroPos
	}
	if y < r.Y {
		return core.LeadingPos(r.Index, 0)
	}
	hit, ok := r.Content.HitTest(x, y-r.Y)
	if !ok {
		n := r.TextLength()
		if y-r.Y < r.Height && x < r.Width/2 {
			return core.LeadingPos(r.Index, 0)
		}
		return core.LeadingPos(r.Index, n)
	}
	return core.TextPos{
		Index:     r.Index,
		Offset:    hit.Offset,
		CharIndex: hit.CharIndex,
		Leading:   hit.Leading,
	}
}

// CaretShape returns the caret geometry for pos in window-local content
// coordinates, or nil if the paragraph is not materialized.
func (a *Arrangement) CaretShape(pos core.TextPos) core.Shape {
	r := a.Row(pos.Index)
	if r == nil {
		return nil
	}
	return r.Content.CaretShape(pos.Offset, pos.Leading).Translate(0, r.Y)
}

// RangeShape returns the geometry of [start, end) within one paragraph in
// window-local content coordinates, or nil if the paragraph is not
// materialized. An end < 0 means the end of the paragraph; start == end
// yields the caret shape.
func (a *Arrangement) RangeShape(index, start, end int) core.Shape {
	r := a.Row(index)
	if r == nil {
		return nil
	}
	if end < 0 {
		end = r.TextLength()
	}
	if start == end {
		return r.Content.CaretShape(start, true).Translate(0, r.Y)
	}
	return r.Content.RangeShape(start, end).Translate(0, r.Y)
}

// originAt returns the origin placing window-local y at the viewport top.
// A y outside the materialized window becomes a paragraph jump estimated
// from the average row height, so the next build stays bounded.
func (a *Arrangement) originAt(t float64) core.Origin {
	first := a.At(0)
	if a.AtStart() {
		if t <= first.Y-a.padding.Top {
			return core.Origin{Offset: -a.padding.Top}
		}
	} else if t < first.Y {
		n := 1
		if avg := a.AverageHeight(); avg > 0 {
			n = max(1, int(math.Ceil((first.Y-t)/avg-epsilon)))
		}
		return NormalizeOrigin(core.Origin{Index: a.TopIndex() - n}, a.count, a.padding.Top)
	}
	last := a.At(a.Len() - 1)
	if t >= last.Bottom() && !a.AtEnd() {
		n := 0
		if avg := a.AverageHeight(); avg > 0 {
			n = int((t - last.Bottom()) / avg)
		}
		return NormalizeOrigin(core.Origin{Index: last.Index + 1 + n}, a.count, a.padding.Top)
	}
	r := a.RowAt(t)
	return core.Origin{Index: r.Index, Offset: t - r.Y}
}

// clampTop clamps a window-local target top edge to the document bounds
// known to the window.
func (a *Arrangement) clampTop(t float64) float64 {
	if a.AtEnd() {
		if maxT := a.bottomEdge - a.height; t > maxT {
			t = maxT
		}
	}
	if a.AtStart() {
		if start := a.At(0).Y - a.padding.Top; t < start {
			t = start
		}
	}
	return t
}

// OriginFromPixelDelta returns the origin that scrolls the window by delta
// pixels (positive scrolls toward the document end). It returns nil when
// the window is already at the boundary in that direction.
func (a *Arrangement) OriginFromPixelDelta(delta float64) *core.Origin {
	if a.Len() == 0 {
		return nil
	}
	t := a.clampTop(delta)
	if (delta > 0 && t < 0) || (delta < 0 && t > 0) {
		t = 0
	}
	if math.Abs(t) < epsilon {
		return nil
	}
	o := a.originAt(t)
	return &o
}

// AbsolutePositionToOrigin maps a scroll fraction in [0, 1] to an origin.
// Inside the materialized window the fraction is interpolated in pixels;
// outside it the origin is the paragraph at fraction*count with no offset,
// corrected by the next reflow once that area is materialized.
func (a *Arrangement) AbsolutePositionToOrigin(fraction float64) core.Origin {
	fraction = math.Max(0, math.Min(1, fraction))
	if a.count == 0 {
		return core.Origin{Offset: -a.padding.Top}
	}
	ix := int(fraction * float64(a.count))
	if ix >= a.count {
		ix = a.count - 1
	}
	if a.Len() == 0 || ix < a.TopIndex() || ix >= a.BottomIndex() {
		return NormalizeOrigin(core.Origin{Index: ix}, a.count, a.padding.Top)
	}
	target := fraction * math.Max(0, a.ContentHeight()-a.height)
	return a.originAt(a.clampTop(target - a.ScrollTop()))
}
