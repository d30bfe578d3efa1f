package viewport

import (
	"strings"
	"testing"

	"github.com/dshills/vflow/internal/renderer/core"
)

func TestWindowTextPosAndCaret(t *testing.T) {
	opts := DefaultOptions()
	opts.Padding = core.Insets{Left: 1}
	w := newTextWindow([]string{"hello world"}, 40, 10, opts)
	w.SetSideDecorator(Left, &mockDecorator{width: 4})

	pos := w.TextPosAt(8.2, 0.5)
	if pos != core.LeadingPos(0, 3) {
		t.Errorf("expected 0:3L, got %v", pos)
	}

	ci := w.CaretInfo(core.LeadingPos(0, 3))
	if ci == nil {
		t.Fatal("expected caret geometry")
	}
	if ci.MinX != 8 || ci.MaxX != 8 || ci.MinY != 0 || ci.MaxY != 1 {
		t.Errorf("unexpected caret %+v", ci)
	}
	if w.CaretInfo(core.LeadingPos(5, 0)) != nil {
		t.Error("a paragraph outside the window has no caret geometry")
	}
}

func TestWindowSelectionShape(t *testing.T) {
	w := newTextWindow(repeat("abcd", 5), 20, 10, DefaultOptions())

	tests := []struct {
		name          string
		anchor, caret core.TextPos
		want          core.Shape
	}{
		{
			name:   "across paragraphs",
			anchor: core.LeadingPos(1, 2),
			caret:  core.LeadingPos(3, 1),
			want: core.Shape{
				{X: 2, Y: 1, W: 18, H: 1},
				{X: 0, Y: 3, W: 1, H: 1},
				{X: 0, Y: 2, W: 20, H: 1},
			},
		},
		{
			name:   "reversed endpoints",
			anchor: core.LeadingPos(3, 1),
			caret:  core.LeadingPos(1, 2),
			want: core.Shape{
				{X: 2, Y: 1, W: 18, H: 1},
				{X: 0, Y: 3, W: 1, H: 1},
				{X: 0, Y: 2, W: 20, H: 1},
			},
		},
		{
			name:   "within one paragraph",
			anchor: core.LeadingPos(0, 1),
			caret:  core.LeadingPos(0, 3),
			want:   core.Shape{{X: 1, Y: 0, W: 2, H: 1}},
		},
		{
			name:   "empty",
			anchor: core.LeadingPos(2, 2),
			caret:  core.LeadingPos(2, 2),
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.SelectionShape(tt.anchor, tt.caret)
			if !shapesEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestWindowSelectionShapeOutsideWindow(t *testing.T) {
	w := newTextWindow(repeat("abcd", 100), 20, 10, DefaultOptions())

	// End below the materialized rows.
	got := w.SelectionShape(core.LeadingPos(5, 1), core.LeadingPos(60, 2))
	want := core.Shape{
		{X: 1, Y: 5, W: 19, H: 1},
		{X: 0, Y: 10, W: 20, H: 1},
		{X: 0, Y: 6, W: 20, H: 4},
	}
	if !shapesEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Start above the materialized rows.
	w.SetOrigin(originAt(50))
	got = w.SelectionShape(core.LeadingPos(10, 0), core.LeadingPos(52, 2))
	want = core.Shape{
		{X: 0, Y: -1, W: 20, H: 1},
		{X: 0, Y: 2, W: 2, H: 1},
		{X: 0, Y: 0, W: 20, H: 2},
	}
	if !shapesEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Entirely below the visible rows.
	if got := w.SelectionShape(core.LeadingPos(70, 0), core.LeadingPos(80, 0)); got != nil {
		t.Errorf("expected no shape, got %v", got)
	}
}

func TestWindowCurrentParagraphShape(t *testing.T) {
	opts := DefaultOptions()
	opts.HighlightCurrentParagraph = true
	w := newTextWindow(repeat("abcd", 5), 20, 10, opts)
	w.SetCaret(core.LeadingPos(2, 1))

	want := core.Shape{{X: 0, Y: 2, W: 20, H: 1}}
	if got := w.CurrentParagraphShape(); !shapesEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	off := newTextWindow(repeat("abcd", 5), 20, 10, DefaultOptions())
	if off.CurrentParagraphShape() != nil {
		t.Error("highlight disabled should yield no shape")
	}
}

func TestWindowMoveVertically(t *testing.T) {
	opts := DefaultOptions()
	opts.WrapText = true
	w := newTextWindow([]string{"abcdefgh", "ijkl"}, 4, 10, opts)

	tests := []struct {
		name  string
		pos   core.TextPos
		lines int
		want  core.TextPos
	}{
		{"into wrapped line", core.LeadingPos(0, 1), 1, core.LeadingPos(0, 5)},
		{"into next paragraph", core.LeadingPos(0, 1), 2, core.LeadingPos(1, 1)},
		{"past the end", core.LeadingPos(0, 1), 3, core.LeadingPos(1, 4)},
		{"past the start", core.LeadingPos(0, 1), -1, core.ZeroPos},
		{"up from next paragraph", core.LeadingPos(1, 2), -1, core.LeadingPos(0, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := w.MoveVertically(tt.pos, -1, tt.lines)
			if !ok {
				t.Fatal("expected the position to be materialized")
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if _, ok := w.MoveVertically(core.LeadingPos(9, 0), -1, 1); ok {
		t.Error("a position outside the document should not move")
	}
}

func TestWindowLineEdge(t *testing.T) {
	opts := DefaultOptions()
	opts.WrapText = true
	w := newTextWindow([]string{"abcdefgh"}, 4, 10, opts)

	tests := []struct {
		name  string
		pos   core.TextPos
		start bool
		want  core.TextPos
	}{
		{"start of wrapped line", core.LeadingPos(0, 5), true, core.LeadingPos(0, 4)},
		{"end of paragraph", core.LeadingPos(0, 5), false, core.LeadingPos(0, 8)},
		{"end of wrapped line", core.LeadingPos(0, 1), false, core.TrailingPos(0, 3)},
		{"start of paragraph", core.LeadingPos(0, 2), true, core.LeadingPos(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := w.LineEdge(tt.pos, tt.start)
			if !ok || got != tt.want {
				t.Errorf("expected %v, got %v (ok=%v)", tt.want, got, ok)
			}
		})
	}
}

func TestWindowClampPos(t *testing.T) {
	w := newTextWindow([]string{"abc", "de"}, 20, 10, DefaultOptions())

	tests := []struct {
		pos, want core.TextPos
	}{
		{core.LeadingPos(0, 2), core.LeadingPos(0, 2)},
		{core.LeadingPos(0, 9), core.LeadingPos(0, 3)},
		{core.LeadingPos(5, 0), core.LeadingPos(1, 2)},
		{core.LeadingPos(-1, 0), core.ZeroPos},
		{core.LeadingPos(1, -4), core.LeadingPos(1, 0)},
	}
	for _, tt := range tests {
		if got := w.ClampPos(tt.pos); got != tt.want {
			t.Errorf("ClampPos(%v): expected %v, got %v", tt.pos, tt.want, got)
		}
	}
	if w.DocumentEnd() != core.LeadingPos(1, 2) {
		t.Errorf("unexpected document end %v", w.DocumentEnd())
	}
}

func TestScrollCaretToVisibleHorizontal(t *testing.T) {
	w := newTextWindow([]string{strings.Repeat("x", 1000)}, 50, 10, DefaultOptions())
	w.SetCaret(core.LeadingPos(0, 800))

	if !w.ScrollCaretToVisible() {
		t.Fatal("expected a scroll")
	}
	if w.OffsetX() != 750 {
		t.Errorf("expected offset 750, got %v", w.OffsetX())
	}
	if w.ScrollCaretToVisible() {
		t.Error("a visible caret should not scroll again")
	}
}

func TestScrollCaretToVisibleVertical(t *testing.T) {
	w := newTextWindow(repeat("abc", 1000), 20, 10, DefaultOptions())
	w.Arrangement()
	w.SetCaret(core.LeadingPos(500, 0))

	if !w.ScrollCaretToVisible() {
		t.Fatal("expected the window to jump to the caret")
	}
	// Moving down lands the caret on the bottom row.
	if w.Origin() != originAt(491) {
		t.Errorf("expected origin 491, got %v", w.Origin())
	}

	w.SetCaretMargins(MarginConfig{Top: 2, Bottom: 2})
	if !w.ScrollCaretToVisible() {
		t.Fatal("expected a scroll into the comfort area")
	}
	if w.Origin() != originAt(493) {
		t.Errorf("expected origin 493, got %v", w.Origin())
	}
}

func TestScrollCaretToVisibleUpward(t *testing.T) {
	w := newTextWindow(repeat("abc", 1000), 20, 10, DefaultOptions())
	w.SetOrigin(originAt(900))
	w.Arrangement()
	w.SetCaret(core.LeadingPos(500, 0))

	if !w.ScrollCaretToVisible() {
		t.Fatal("expected the window to jump to the caret")
	}
	// Moving up lands the caret on the top row.
	if w.Origin() != originAt(500) {
		t.Errorf("expected origin 500, got %v", w.Origin())
	}
}

func shapesEqual(a, b core.Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
