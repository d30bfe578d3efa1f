package layout

import (
	"testing"
)

func TestNewEngine(t *testing.T) {
	e := NewEngine(4, true)
	if e.TabWidth() != 4 {
		t.Errorf("expected tab width 4, got %d", e.TabWidth())
	}

	// Invalid tab width defaults to 4
	e = NewEngine(0, false)
	if e.TabWidth() != 4 {
		t.Errorf("expected default tab width 4, got %d", e.TabWidth())
	}
	if e.WrapAtWord() {
		t.Error("expected wrapAtWord false")
	}
}

func TestLayoutSimpleString(t *testing.T) {
	e := NewEngine(4, true)
	l := e.Layout("Hello", 0)

	if l.RuneCount != 5 {
		t.Errorf("expected 5 runes, got %d", l.RuneCount)
	}
	if l.Width != 5 {
		t.Errorf("expected width 5, got %d", l.Width)
	}
	if l.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", l.LineCount())
	}
}

func TestLayoutEmpty(t *testing.T) {
	e := NewEngine(4, true)
	l := e.Layout("", 10)

	if !l.IsEmpty() {
		t.Error("expected empty layout")
	}
	if l.LineCount() != 1 {
		t.Fatalf("empty paragraph should still have one line, got %d", l.LineCount())
	}
	col, line := l.CaretColumn(0, true)
	if col != 0 || line != 0 {
		t.Errorf("expected caret at (0, 0), got (%d, %d)", col, line)
	}
	if spans := l.RangeSpans(0, 0); len(spans) != 0 {
		t.Errorf("expected no spans, got %v", spans)
	}
}

func TestLayoutTabs(t *testing.T) {
	e := NewEngine(4, true)
	l := e.Layout("a\tb", 0)

	if l.Width != 5 {
		t.Errorf("expected width 5, got %d", l.Width)
	}
	tab := l.Clusters[1]
	if !tab.Tab || tab.Col != 1 || tab.Width != 3 {
		t.Errorf("unexpected tab cluster %+v", tab)
	}
	if l.Clusters[2].Col != 4 {
		t.Errorf("expected 'b' at col 4, got %d", l.Clusters[2].Col)
	}
}

func TestLayoutWideCharacters(t *testing.T) {
	e := NewEngine(4, true)
	l := e.Layout("日本", 0)

	if len(l.Clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(l.Clusters))
	}
	if l.Width != 4 {
		t.Errorf("expected width 4, got %d", l.Width)
	}
}

func TestLayoutWrapAtWord(t *testing.T) {
	e := NewEngine(4, true)
	l := e.Layout("hello world foo", 8)

	want := []Line{
		{First: 0, Last: 6, Start: 0, End: 6, Width: 6},
		{First: 6, Last: 12, Start: 6, End: 12, Width: 6},
		{First: 12, Last: 15, Start: 12, End: 15, Width: 3},
	}
	if len(l.Lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %+v", len(want), len(l.Lines), l.Lines)
	}
	for i, ln := range want {
		if l.Lines[i] != ln {
			t.Errorf("line %d: expected %+v, got %+v", i, ln, l.Lines[i])
		}
	}
}

func TestLayoutWrapAtCharacter(t *testing.T) {
	e := NewEngine(4, false)
	l := e.Layout("abcdefghij", 4)

	if l.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", l.LineCount())
	}
	if l.Lines[2].Start != 8 || l.Lines[2].Width != 2 {
		t.Errorf("unexpected last line %+v", l.Lines[2])
	}
	if l.Width != 4 {
		t.Errorf("expected width 4, got %d", l.Width)
	}
}

func TestLayoutWrapNarrowerThanCluster(t *testing.T) {
	e := NewEngine(4, true)
	l := e.Layout("日本", 1)

	// Each wide cluster gets its own line rather than looping forever.
	if l.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", l.LineCount())
	}
}

func TestCaretColumn(t *testing.T) {
	e := NewEngine(4, false)
	l := e.Layout("abcdefgh", 4)

	tests := []struct {
		name    string
		offset  int
		leading bool
		col     int
		line    int
	}{
		{"start", 0, true, 0, 0},
		{"middle", 2, true, 2, 0},
		{"wrap point leading", 4, true, 0, 1},
		{"wrap point trailing", 4, false, 4, 0},
		{"end", 8, true, 4, 1},
		{"past end", 20, true, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, line := l.CaretColumn(tt.offset, tt.leading)
			if col != tt.col || line != tt.line {
				t.Errorf("expected (%d, %d), got (%d, %d)", tt.col, tt.line, col, line)
			}
		})
	}
}

func TestHitTest(t *testing.T) {
	e := NewEngine(4, false)
	l := e.Layout("abcdefgh", 4)

	tests := []struct {
		name string
		col  float64
		line int
		want Hit
	}{
		{"left half", 0.2, 0, Hit{Offset: 0, CharIndex: 0, Leading: true}},
		{"right half", 0.7, 0, Hit{Offset: 1, CharIndex: 0, Leading: false}},
		{"past wrapped line end", 10, 0, Hit{Offset: 4, CharIndex: 3, Leading: false}},
		{"past last line end", 10, 1, Hit{Offset: 8, CharIndex: 8, Leading: true}},
		{"line below clamps", 1.1, 5, Hit{Offset: 5, CharIndex: 5, Leading: true}},
		{"negative column", -3, 1, Hit{Offset: 4, CharIndex: 4, Leading: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.HitTest(tt.col, tt.line)
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestRangeSpans(t *testing.T) {
	e := NewEngine(4, false)
	l := e.Layout("abcdefghij", 4)

	spans := l.RangeSpans(2, 9)
	want := []Span{
		{Line: 0, StartCol: 2, EndCol: 4},
		{Line: 1, StartCol: 0, EndCol: 4},
		{Line: 2, StartCol: 0, EndCol: 1},
	}
	if len(spans) != len(want) {
		t.Fatalf("expected %d spans, got %v", len(want), spans)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d: expected %+v, got %+v", i, want[i], spans[i])
		}
	}

	// Reversed bounds are normalized
	if got := l.RangeSpans(9, 2); len(got) != 3 {
		t.Errorf("expected reversed range to yield 3 spans, got %v", got)
	}
}

func TestLineEdge(t *testing.T) {
	e := NewEngine(4, false)
	l := e.Layout("abcdefgh", 4)

	if got := l.LineEdge(true, 6, true); got != 4 {
		t.Errorf("expected line start 4, got %d", got)
	}
	if got := l.LineEdge(false, 1, true); got != 4 {
		t.Errorf("expected line end 4, got %d", got)
	}
}
