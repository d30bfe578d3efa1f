package viewport

import (
	"github.com/dshills/vflow/internal/renderer/core"
)

// ScrollVerticalPixels scrolls the window by delta pixels; positive
// scrolls toward the document end. It returns false if the window is
// already at the boundary in that direction.
func (w *Window) ScrollVerticalPixels(delta float64) bool {
	if w.opts.UseContentHeight {
		return false
	}
	o := w.Arrangement().OriginFromPixelDelta(delta)
	if o == nil {
		w.log.Debug().Float64("delta", delta).Msg("scroll clamped at boundary")
		return false
	}
	w.SetOrigin(*o)
	return true
}

// PageDown scrolls down by one viewport height.
func (w *Window) PageDown() bool {
	return w.ScrollVerticalPixels(w.height)
}

// PageUp scrolls up by one viewport height.
func (w *Window) PageUp() bool {
	return w.ScrollVerticalPixels(-w.height)
}

// ScrollVerticalFraction scrolls to a fraction of the document in [0, 1].
func (w *Window) ScrollVerticalFraction(fraction float64) {
	w.SetOrigin(w.Arrangement().AbsolutePositionToOrigin(fraction))
}

// ScrollHorizontalPixels scrolls unwrapped content sideways by delta
// pixels. It returns false if the offset did not change.
func (w *Window) ScrollHorizontalPixels(delta float64) bool {
	w.Arrangement()
	return w.setOffsetX(w.offsetX + delta)
}

// ScrollHorizontalFraction scrolls to a fraction of the horizontal range.
func (w *Window) ScrollHorizontalFraction(fraction float64) bool {
	w.Arrangement()
	return w.setOffsetX(fraction * w.maxOffsetX())
}

// ScrollToVisible scrolls the least amount that brings the viewport point
// (x, y) inside the text area.
func (w *Window) ScrollToVisible(x, y float64) bool {
	moved := false
	switch {
	case y < 0:
		moved = w.ScrollVerticalPixels(y)
	case y > w.height:
		moved = w.ScrollVerticalPixels(y - w.height)
	}
	left := w.left.width()
	right := left + w.textWidth()
	switch {
	case x < left:
		moved = w.ScrollHorizontalPixels(x-left) || moved
	case x > right:
		moved = w.ScrollHorizontalPixels(x-right) || moved
	}
	return moved
}

// ScrollCaretToVisible scrolls the caret into the comfort area. A caret
// outside the materialized window first moves the origin to its paragraph;
// a caret below the old origin then lands at the bottom of the area.
func (w *Window) ScrollCaretToVisible() bool {
	ci := w.CaretInfo(w.caret)
	moved := false
	below := false
	if ci == nil {
		below = w.caret.Index > w.origin.Index
		w.SetOrigin(core.Origin{Index: w.caret.Index})
		w.Reflow()
		moved = true
		if ci = w.CaretInfo(w.caret); ci == nil {
			return moved
		}
	}

	area := w.ComfortArea()
	switch {
	case below && ci.Height() <= area.H:
		moved = w.ScrollVerticalPixels(ci.MaxY-area.MaxY()) || moved
	case ci.MinY < area.Y || ci.Height() > area.H:
		moved = w.ScrollVerticalPixels(ci.MinY-area.Y) || moved
	case ci.MaxY > area.MaxY():
		moved = w.ScrollVerticalPixels(ci.MaxY-area.MaxY()) || moved
	}
	switch {
	case ci.MinX < area.X:
		moved = w.ScrollHorizontalPixels(ci.MinX-area.X) || moved
	case ci.MaxX > area.MaxX():
		moved = w.ScrollHorizontalPixels(ci.MaxX-area.MaxX()) || moved
	}
	return moved
}
