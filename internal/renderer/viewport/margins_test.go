package viewport

import (
	"testing"

	"github.com/dshills/vflow/internal/renderer/core"
)

func newMarginWindow() *Window {
	w := newTextWindow([]string{"abc"}, 30, 12, DefaultOptions())
	w.SetCaretMargins(DefaultMargins())
	return w
}

func TestEffectiveMargins(t *testing.T) {
	w := newMarginWindow()

	m := w.EffectiveMargins()
	if m != DefaultMargins() {
		t.Errorf("expected unclamped margins, got %+v", m)
	}

	w.SetCaretMargins(MarginConfig{Top: 10, Bottom: 1, Left: 20, Right: 0})
	m = w.EffectiveMargins()
	if m.Top != 4 || m.Bottom != 1 || m.Left != 10 || m.Right != 0 {
		t.Errorf("expected margins clamped to a third, got %+v", m)
	}
}

func TestCaretZones(t *testing.T) {
	w := newMarginWindow()

	tests := []struct {
		name       string
		ci         core.CaretInfo
		vertical   CaretZone
		horizontal CaretZone
	}{
		{"center", core.CaretInfo{MinX: 15, MaxX: 15, MinY: 5, MaxY: 6}, ZoneCenter, ZoneCenter},
		{"top margin", core.CaretInfo{MinX: 15, MaxX: 15, MinY: 1, MaxY: 2}, ZoneTopMargin, ZoneCenter},
		{"bottom margin", core.CaretInfo{MinX: 15, MaxX: 15, MinY: 10, MaxY: 11}, ZoneBottomMargin, ZoneCenter},
		{"above", core.CaretInfo{MinX: 15, MaxX: 15, MinY: -2, MaxY: -1}, ZoneAbove, ZoneCenter},
		{"below", core.CaretInfo{MinX: 15, MaxX: 15, MinY: 12, MaxY: 13}, ZoneBelow, ZoneCenter},
		{"left margin", core.CaretInfo{MinX: 3, MaxX: 3, MinY: 5, MaxY: 6}, ZoneCenter, ZoneLeftMargin},
		{"right margin", core.CaretInfo{MinX: 25, MaxX: 25, MinY: 5, MaxY: 6}, ZoneCenter, ZoneRightMargin},
		{"left", core.CaretInfo{MinX: -1, MaxX: -1, MinY: 5, MaxY: 6}, ZoneCenter, ZoneLeft},
		{"right", core.CaretInfo{MinX: 31, MaxX: 31, MinY: 5, MaxY: 6}, ZoneCenter, ZoneRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, h := w.CaretZones(&tt.ci)
			if v != tt.vertical || h != tt.horizontal {
				t.Errorf("expected (%d, %d), got (%d, %d)", tt.vertical, tt.horizontal, v, h)
			}
		})
	}
}

func TestComfortArea(t *testing.T) {
	w := newMarginWindow()

	want := core.Rect{X: 8, Y: 2, W: 14, H: 8}
	if got := w.ComfortArea(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	w.SetSize(0, 0)
	if got := w.ComfortArea(); got.W != 0 || got.H != 0 {
		t.Errorf("expected an empty area, got %+v", got)
	}
}
