package viewport

import (
	"math"

	"github.com/dshills/vflow/internal/renderer/dirty"
)

// scrollEpsilon is the tolerance below which the visible extent is taken
// to fill the whole scroll range.
const scrollEpsilon = 1e-10

// ToScrollBarValue converts a pixel offset into a scroll-bar value in
// [0, 1]. The usable track is max-visible because the visible extent
// occupies part of it. It returns 0 when the content fits.
func ToScrollBarValue(offset, visible, max float64) float64 {
	usable := max - visible
	if math.Abs(usable) < scrollEpsilon {
		return 0
	}
	return offset / usable
}

// FromScrollBarValue converts a scroll-bar value back into a pixel offset.
func FromScrollBarValue(value, visible, max float64) float64 {
	return value * (max - visible)
}

// Orientation is a scroll bar direction.
type Orientation uint8

const (
	// Vertical scrolls paragraphs.
	Vertical Orientation = iota

	// Horizontal scrolls unwrapped lines.
	Horizontal
)

// String returns the string representation of the orientation.
func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ScrollBar is the model of a scroll bar widget. Its value range is
// [Min, Max] = [0, 1]; VisibleAmount is the fraction of the content shown.
type ScrollBar struct {
	orientation   Orientation
	value         float64
	visibleAmount float64
	pressed       bool
	onChange      func(value float64)
}

func newScrollBar(o Orientation, onChange func(float64)) *ScrollBar {
	return &ScrollBar{orientation: o, visibleAmount: 1, onChange: onChange}
}

// Orientation returns the bar's orientation.
func (s *ScrollBar) Orientation() Orientation { return s.orientation }

// Min returns the smallest value.
func (s *ScrollBar) Min() float64 { return 0 }

// Max returns the largest value.
func (s *ScrollBar) Max() float64 { return 1 }

// Value returns the current value.
func (s *ScrollBar) Value() float64 { return s.value }

// VisibleAmount returns the visible fraction of the content.
func (s *ScrollBar) VisibleAmount() float64 { return s.visibleAmount }

// Visible returns true if the content does not fit and the bar is needed.
func (s *ScrollBar) Visible() bool { return s.visibleAmount < 1 }

// Pressed returns true while the thumb is held.
func (s *ScrollBar) Pressed() bool { return s.pressed }

// SetPressed records whether the thumb is held. A held vertical bar keeps
// its value across reflows so the thumb follows the pointer.
func (s *ScrollBar) SetPressed(pressed bool) {
	s.pressed = pressed
}

// SetValue sets the value, clamped to [0, 1], and notifies the window.
func (s *ScrollBar) SetValue(v float64) {
	v = math.Max(0, math.Min(1, v))
	if v == s.value {
		return
	}
	s.value = v
	if s.onChange != nil {
		s.onChange(v)
	}
}

// Thumb returns the thumb's start and length on a track of the given
// length.
func (s *ScrollBar) Thumb(track float64) (start, length float64) {
	length = math.Max(1, math.Min(track, s.visibleAmount*track))
	start = s.value * (track - length)
	return start, length
}

// ValueAt returns the value that places the thumb start at pos on a track
// of the given length.
func (s *ScrollBar) ValueAt(pos, track float64) float64 {
	_, length := s.Thumb(track)
	return ToScrollBarValue(pos, length, track)
}

// updateScrollBars writes the arrangement's extents into the bars. Bar
// callbacks are suppressed while doing so.
func (w *Window) updateScrollBars() {
	w.handleScrollEvents = false
	defer func() { w.handleScrollEvents = true }()

	vh := w.height
	ch := w.arr.ContentHeight()
	if ch <= 0 || ch <= vh {
		w.vbar.visibleAmount = 1
	} else {
		w.vbar.visibleAmount = vh / ch
	}
	if !w.vbar.pressed {
		w.vbar.SetValue(ToScrollBarValue(w.arr.ScrollTop(), vh, math.Max(ch, vh)))
	}

	tw := w.textWidth()
	cw := w.contentWidth()
	if cw <= 0 || cw <= tw {
		w.hbar.visibleAmount = 1
	} else {
		w.hbar.visibleAmount = tw / cw
	}
	w.hbar.SetValue(ToScrollBarValue(w.offsetX, tw, math.Max(cw, tw)))
}

func (w *Window) onVerticalBarChange(v float64) {
	if !w.handleScrollEvents {
		return
	}
	w.HandleVerticalScroll(v)
}

func (w *Window) onHorizontalBarChange(v float64) {
	if !w.handleScrollEvents {
		return
	}
	w.HandleHorizontalScroll(v)
}

// HandleVerticalScroll moves the window to a vertical scroll-bar value and
// reflows.
func (w *Window) HandleVerticalScroll(value float64) {
	arr := w.Arrangement()
	w.SetOrigin(arr.AbsolutePositionToOrigin(value))
	w.Reflow()
}

// HandleHorizontalScroll moves the window to a horizontal scroll-bar value.
func (w *Window) HandleHorizontalScroll(value float64) {
	w.Arrangement()
	w.setOffsetX(FromScrollBarValue(value, w.textWidth(), math.Max(w.contentWidth(), w.textWidth())))
}

func (w *Window) setOffsetX(x float64) bool {
	x = math.Max(0, math.Min(x, w.maxOffsetX()))
	if x == w.offsetX {
		return false
	}
	w.offsetX = x
	w.queue.Push(dirty.ReasonHorizontal)
	return true
}
