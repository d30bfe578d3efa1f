package viewport

import (
	"github.com/dshills/vflow/internal/renderer/core"
)

// dx converts row-local x to viewport x.
func (w *Window) dx() float64 {
	return w.left.width() + w.padding.Left - w.offsetX
}

// TextPosAt maps a viewport point to a text position.
func (w *Window) TextPosAt(x, y float64) core.TextPos {
	return w.Arrangement().TextPosAt(x-w.dx(), y)
}

// CaretInfo returns the caret geometry at pos in viewport coordinates, or
// nil if the paragraph is outside the materialized window.
func (w *Window) CaretInfo(pos core.TextPos) *core.CaretInfo {
	shape := w.Arrangement().CaretShape(pos)
	if shape == nil {
		return nil
	}
	return core.NewCaretInfo(shape.Translate(w.dx(), 0))
}

// RangeShape returns the geometry of [start, end) within a visible
// paragraph in viewport coordinates, or nil if the paragraph is not
// visible. An end < 0 means the end of the paragraph; start == end yields
// the caret shape.
func (w *Window) RangeShape(index, start, end int) core.Shape {
	arr := w.Arrangement()
	if !arr.IsVisible(index) {
		return nil
	}
	return arr.RangeShape(index, start, end).Translate(w.dx(), 0)
}

// SelectionShape returns the geometry of the selection between anchor and
// caret in viewport coordinates. Across several paragraphs the first
// paragraph's shape extends to the right edge, the last one's to the left
// edge, and a full-width strip covers the paragraphs in between. An
// endpoint outside the window is replaced by a one-pixel strip just beyond
// the nearest viewport edge.
func (w *Window) SelectionShape(anchor, caret core.TextPos) core.Shape {
	start, end := anchor, caret
	if end.Before(start) {
		start, end = end, start
	}
	if start.Compare(end) == 0 {
		return nil
	}
	arr := w.Arrangement()
	vis := arr.Visible()
	if len(vis) == 0 {
		return nil
	}
	if end.Index < vis[0].Index || start.Index > vis[len(vis)-1].Index {
		return nil
	}
	if start.Index == end.Index {
		return w.RangeShape(start.Index, start.Offset, end.Offset)
	}

	left := w.left.width()
	right := left + w.textWidth()
	full := right - left
	var out core.Shape

	var topMaxY float64
	if arr.Row(start.Index) != nil {
		top := arr.RangeShape(start.Index, start.Offset, -1).Translate(w.dx(), 0)
		if len(top) == 0 {
			// Selection starts at the paragraph end: only the line break.
			top = arr.CaretShape(start).Translate(w.dx(), 0)
		}
		for i, r := range top {
			if i == 0 {
				r.W = right - r.X
			} else {
				r.X, r.W = left, full
			}
			out = append(out, r)
		}
		topMaxY = top.Bounds().MaxY()
	} else {
		out = append(out, core.Rect{X: left, Y: -1, W: full, H: 1})
		topMaxY = 0
	}

	var bottomMinY float64
	if arr.Row(end.Index) != nil {
		bottom := arr.RangeShape(end.Index, 0, end.Offset).Translate(w.dx(), 0)
		if end.Offset == 0 {
			bottom = arr.CaretShape(end).Translate(w.dx(), 0)
		}
		last := len(bottom) - 1
		for i, r := range bottom {
			if i == last {
				r.W = r.MaxX() - left
				r.X = left
			} else {
				r.X, r.W = left, full
			}
			out = append(out, r)
		}
		bottomMinY = bottom.Bounds().Y
	} else {
		out = append(out, core.Rect{X: left, Y: w.height, W: full, H: 1})
		bottomMinY = w.height
	}

	if bottomMinY > topMaxY {
		out = append(out, core.Rect{X: left, Y: topMaxY, W: full, H: bottomMinY - topMaxY})
	}
	return out
}

// CurrentParagraphShape returns a full-width rect behind the caret's
// paragraph, or nil if highlighting is off or the paragraph is not visible.
func (w *Window) CurrentParagraphShape() core.Shape {
	if !w.opts.HighlightCurrentParagraph {
		return nil
	}
	arr := w.Arrangement()
	if !arr.IsVisible(w.caret.Index) {
		return nil
	}
	r := arr.Row(w.caret.Index)
	return core.Shape{{X: w.left.width(), Y: r.Y, W: w.textWidth(), H: r.Height}}
}

// DocumentEnd returns the position after the last character.
func (w *Window) DocumentEnd() core.TextPos {
	n := w.paragraphCount()
	if n == 0 {
		return core.ZeroPos
	}
	return core.LeadingPos(n-1, w.model.ParagraphLength(n-1))
}

// ClampPos returns pos clamped to the current document.
func (w *Window) ClampPos(pos core.TextPos) core.TextPos {
	n := w.paragraphCount()
	switch {
	case n == 0 || pos.Index < 0:
		return core.ZeroPos
	case pos.Index >= n:
		return w.DocumentEnd()
	}
	if l := w.model.ParagraphLength(pos.Index); pos.Offset > l {
		return core.LeadingPos(pos.Index, l)
	}
	if pos.Offset < 0 {
		return core.LeadingPos(pos.Index, 0)
	}
	return pos
}

// MoveVertically returns the position lines visual lines above (negative)
// or below pos, at viewport x targetX. A negative targetX keeps the caret's
// current x. Moving past the first or last line clamps to the document
// start or end. ok is false if pos is outside the materialized window.
func (w *Window) MoveVertically(pos core.TextPos, targetX float64, lines int) (core.TextPos, bool) {
	ci := w.CaretInfo(pos)
	if ci == nil {
		return pos, false
	}
	if targetX < 0 {
		targetX = ci.MinX
	}
	h := ci.Height()
	y := ci.MinY + h/2 + float64(lines)*h

	arr := w.Arrangement()
	n := w.paragraphCount()
	if last := arr.Row(n - 1); last != nil && lines > 0 && y >= last.Bottom() {
		return w.DocumentEnd(), true
	}
	if first := arr.Row(0); first != nil && lines < 0 && y < first.Y {
		return core.ZeroPos, true
	}
	return w.TextPosAt(targetX, y), true
}

// LineEdge returns the start or end of the visual line holding pos. ok is
// false if pos is outside the materialized window.
func (w *Window) LineEdge(pos core.TextPos, start bool) (core.TextPos, bool) {
	r := w.Arrangement().Row(pos.Index)
	if r == nil {
		return pos, false
	}
	off := r.Content.LineEdge(start, pos.Offset, pos.Leading)
	if start || off == 0 || off >= r.TextLength() {
		return core.LeadingPos(pos.Index, off), true
	}
	// The end of a wrapped line sits on the trailing edge of its last
	// character so the caret stays on that line.
	return core.TrailingPos(pos.Index, off-1), true
}
