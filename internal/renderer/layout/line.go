// Package layout computes the visual layout of a single paragraph in
// character cells: grapheme segmentation, tab expansion, wide characters and
// optional wrapping. Pixel conversion is left to the caller.
package layout

import (
	"sort"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cluster is one grapheme cluster placed on a visual line.
type Cluster struct {
	Text  string
	Start int // Rune offset of the first rune
	End   int // Rune offset after the last rune
	Col   int // Visual column within its line
	Width int // Width in cells (tabs expand to the next stop)
	Line  int // Visual line index
	Tab   bool
	Space bool
}

// Line is one visual line of a paragraph.
type Line struct {
	First int // Index of the first cluster
	Last  int // Index after the last cluster
	Start int // Rune offset of the line start
	End   int // Rune offset of the line end
	Width int // Width in cells
}

// LineLayout is the visual layout of one paragraph.
type LineLayout struct {
	Clusters  []Cluster
	Lines     []Line
	Width     int // Width of the widest line
	RuneCount int
	WrapWidth int // Wrap width the layout was computed for (0 = no wrap)
}

// Engine computes paragraph layouts.
type Engine struct {
	tabWidth   int
	wrapAtWord bool
}

// NewEngine creates a layout engine with the given tab width.
func NewEngine(tabWidth int, wrapAtWord bool) *Engine {
	if tabWidth < 1 {
		tabWidth = 4
	}
	return &Engine{tabWidth: tabWidth, wrapAtWord: wrapAtWord}
}

// TabWidth returns the current tab width.
func (e *Engine) TabWidth() int {
	return e.tabWidth
}

// WrapAtWord returns true if wrapping prefers word boundaries.
func (e *Engine) WrapAtWord() bool {
	return e.wrapAtWord
}

// Layout computes the layout of text. A wrapWidth of 0 or less disables
// wrapping. The result always has at least one line, so an empty
// paragraph still occupies one line.
func (e *Engine) Layout(text string, wrapWidth int) *LineLayout {
	if wrapWidth < 0 {
		wrapWidth = 0
	}
	clusters := segment(text)
	l := &LineLayout{
		Clusters:  clusters,
		WrapWidth: wrapWidth,
	}
	if n := len(clusters); n > 0 {
		l.RuneCount = clusters[n-1].End
	}

	i := 0
	for i < len(clusters) {
		first := i
		col := 0
		lastSpace := -1
		for i < len(clusters) {
			c := &clusters[i]
			w := c.Width
			if c.Tab {
				w = e.tabWidth - col%e.tabWidth
			}
			if wrapWidth > 0 && col > 0 && col+w > wrapWidth {
				if e.wrapAtWord && lastSpace >= first && lastSpace+1 < i {
					i = lastSpace + 1
				}
				break
			}
			c.Col = col
			c.Width = w
			c.Line = len(l.Lines)
			col += w
			if c.Space {
				lastSpace = i
			}
			i++
		}
		last := &clusters[i-1]
		ln := Line{
			First: first,
			Last:  i,
			Start: clusters[first].Start,
			End:   last.End,
			Width: last.Col + last.Width,
		}
		if ln.Width > l.Width {
			l.Width = ln.Width
		}
		l.Lines = append(l.Lines, ln)
	}

	if len(l.Lines) == 0 {
		l.Lines = []Line{{}}
	}
	return l
}

// segment splits text into grapheme clusters with their base widths.
func segment(text string) []Cluster {
	if text == "" {
		return nil
	}
	out := make([]Cluster, 0, len(text))
	g := uniseg.NewGraphemes(text)
	offset := 0
	for g.Next() {
		runes := g.Runes()
		s := g.Str()
		c := Cluster{
			Text:  s,
			Start: offset,
			End:   offset + len(runes),
		}
		switch {
		case s == "\t":
			c.Tab = true
			c.Space = true
		case len(runes) == 1 && unicode.IsSpace(runes[0]):
			c.Space = true
			c.Width = 1
		case len(runes) == 1 && unicode.IsControl(runes[0]):
			c.Width = 0
		default:
			c.Width = runewidth.StringWidth(s)
		}
		offset = c.End
		out = append(out, c)
	}
	return out
}

// LineCount returns the number of visual lines.
func (l *LineLayout) LineCount() int {
	return len(l.Lines)
}

// IsEmpty returns true if the paragraph has no characters.
func (l *LineLayout) IsEmpty() bool {
	return len(l.Clusters) == 0
}

// LineAt returns the visual line index holding the given rune offset. A
// leading position at a wrap point belongs to the following line, a
// trailing one to the preceding line.
func (l *LineLayout) LineAt(offset int, leading bool) int {
	for i, ln := range l.Lines {
		if offset < ln.End {
			return i
		}
		if offset == ln.End && (!leading || i == len(l.Lines)-1) {
			return i
		}
	}
	return len(l.Lines) - 1
}

// clusterAt returns the index of the cluster whose range holds
// offset, or -1 when offset is at or past the end.
func (l *LineLayout) clusterAt(offset int) int {
	i := sort.Search(len(l.Clusters), func(i int) bool {
		return l.Clusters[i].End > offset
	})
	if i >= len(l.Clusters) {
		return -1
	}
	return i
}

// CaretColumn returns the visual (column, line) of a caret at offset.
// Offsets inside a multi-rune cluster snap to the cluster start.
func (l *LineLayout) CaretColumn(offset int, leading bool) (col, line int) {
	if offset <= 0 || len(l.Clusters) == 0 {
		return 0, 0
	}
	if offset >= l.RuneCount {
		last := len(l.Lines) - 1
		return l.Lines[last].Width, last
	}
	if !leading {
		// Trailing edge of the cluster ending at offset.
		i := l.clusterAt(offset - 1)
		if i >= 0 && l.Clusters[i].End == offset {
			c := l.Clusters[i]
			return c.Col + c.Width, c.Line
		}
	}
	i := l.clusterAt(offset)
	c := l.Clusters[i]
	return c.Col, c.Line
}

// Hit is the result of a hit test within a paragraph.
type Hit struct {
	Offset    int
	CharIndex int
	Leading   bool
}

// HitTest maps a visual (column, line) to a character position. Columns
// before the line start map to the line start; columns past the end map to
// the line end.
func (l *LineLayout) HitTest(col float64, line int) Hit {
	if line < 0 {
		line = 0
	}
	if line >= len(l.Lines) {
		line = len(l.Lines) - 1
	}
	ln := l.Lines[line]
	if ln.First == ln.Last {
		return Hit{Offset: ln.Start, CharIndex: ln.Start, Leading: true}
	}
	for i := ln.First; i < ln.Last; i++ {
		c := l.Clusters[i]
		mid := float64(c.Col) + float64(c.Width)/2
		if col < mid {
			return Hit{Offset: c.Start, CharIndex: c.Start, Leading: true}
		}
		if col < float64(c.Col+c.Width) {
			return Hit{Offset: c.End, CharIndex: c.End - 1, Leading: false}
		}
	}
	if line == len(l.Lines)-1 {
		return Hit{Offset: ln.End, CharIndex: ln.End, Leading: true}
	}
	return Hit{Offset: ln.End, CharIndex: ln.End - 1, Leading: false}
}

// Span is a horizontal run of selected columns on one visual line.
type Span struct {
	Line     int
	StartCol int
	EndCol   int
}

// RangeSpans returns the selected column runs for the rune range
// [start, end). An empty range yields no spans.
func (l *LineLayout) RangeSpans(start, end int) []Span {
	if start > end {
		start, end = end, start
	}
	if start == end {
		return nil
	}
	var spans []Span
	for i, ln := range l.Lines {
		if ln.End <= start {
			continue
		}
		if ln.Start >= end {
			break
		}
		from := 0
		if start > ln.Start {
			from, _ = l.CaretColumn(start, true)
		}
		to := ln.Width
		if end < ln.End {
			to, _ = l.CaretColumn(end, true)
		}
		if to > from {
			spans = append(spans, Span{Line: i, StartCol: from, EndCol: to})
		}
	}
	return spans
}

// LineEdge returns the rune offset of the start or end of the visual line
// holding the caret.
func (l *LineLayout) LineEdge(start bool, offset int, leading bool) int {
	ln := l.Lines[l.LineAt(offset, leading)]
	if start {
		return ln.Start
	}
	return ln.End
}
