package viewport

import (
	"github.com/dshills/vflow/internal/renderer/core"
)

// MarginConfig holds caret scroll margins in pixels.
type MarginConfig struct {
	Top    float64 // Space to keep above the caret
	Bottom float64 // Space to keep below the caret
	Left   float64 // Space to keep left of the caret
	Right  float64 // Space to keep right of the caret
}

// DefaultMargins returns sensible default margins for a terminal.
func DefaultMargins() MarginConfig {
	return MarginConfig{
		Top:    2,
		Bottom: 2,
		Left:   8,
		Right:  8,
	}
}

// NoMargins returns zero margins (caret can go to the edge).
func NoMargins() MarginConfig {
	return MarginConfig{}
}

// SetCaretMargins sets the caret scroll margins.
func (w *Window) SetCaretMargins(config MarginConfig) {
	w.opts.CaretMargins = config
}

// CaretMargins returns the configured caret margins.
func (w *Window) CaretMargins() MarginConfig {
	return w.opts.CaretMargins
}

// maxMarginRatio limits margins to 1/3 of the viewport dimension so there
// is always usable space in the center.
const maxMarginRatio = 3

// EffectiveMargins returns the margins clamped to the viewport size.
func (w *Window) EffectiveMargins() MarginConfig {
	config := w.opts.CaretMargins

	maxVertical := w.height / maxMarginRatio
	config.Top = min(config.Top, maxVertical)
	config.Bottom = min(config.Bottom, maxVertical)

	maxHorizontal := w.textWidth() / maxMarginRatio
	config.Left = min(config.Left, maxHorizontal)
	config.Right = min(config.Right, maxHorizontal)

	return config
}

// CaretZone represents where the caret is relative to the margins.
type CaretZone uint8

const (
	ZoneCenter       CaretZone = iota // Caret is in comfortable zone
	ZoneTopMargin                     // Caret is in top margin
	ZoneBottomMargin                  // Caret is in bottom margin
	ZoneLeftMargin                    // Caret is in left margin
	ZoneRightMargin                   // Caret is in right margin
	ZoneAbove                         // Caret is above viewport
	ZoneBelow                         // Caret is below viewport
	ZoneLeft                          // Caret is left of viewport
	ZoneRight                         // Caret is right of viewport
)

// CaretZones classifies caret geometry, given in viewport coordinates.
func (w *Window) CaretZones(ci *core.CaretInfo) (vertical, horizontal CaretZone) {
	m := w.EffectiveMargins()

	switch {
	case ci.MaxY <= 0:
		vertical = ZoneAbove
	case ci.MinY >= w.height:
		vertical = ZoneBelow
	case ci.MinY < m.Top:
		vertical = ZoneTopMargin
	case ci.MaxY > w.height-m.Bottom:
		vertical = ZoneBottomMargin
	default:
		vertical = ZoneCenter
	}

	left := w.left.width()
	right := left + w.textWidth()
	switch {
	case ci.MaxX < left:
		horizontal = ZoneLeft
	case ci.MinX > right:
		horizontal = ZoneRight
	case ci.MinX < left+m.Left:
		horizontal = ZoneLeftMargin
	case ci.MaxX > right-m.Right:
		horizontal = ZoneRightMargin
	default:
		horizontal = ZoneCenter
	}
	return vertical, horizontal
}

// ComfortArea returns the text area inside all margins, in viewport
// coordinates. The caret can be anywhere inside it without scrolling.
func (w *Window) ComfortArea() core.Rect {
	m := w.EffectiveMargins()
	r := core.Rect{
		X: w.left.width() + m.Left,
		Y: m.Top,
		W: w.textWidth() - m.Left - m.Right,
		H: w.height - m.Top - m.Bottom,
	}
	r.W = max(r.W, 0)
	r.H = max(r.H, 0)
	return r
}
