package core

import "fmt"

// TextPos is an immutable position in model coordinates.
//
// Index is the paragraph index. Offset is the insertion offset (in runes)
// within the paragraph, and CharIndex is the character the position is
// attached to. Leading reports whether the position sits on the leading
// edge of that character. For a trailing-edge position CharIndex is
// Offset-1.
type TextPos struct {
	Index     int
	Offset    int
	CharIndex int
	Leading   bool
}

// ZeroPos is the canonical position at the start of the document.
var ZeroPos = TextPos{Leading: true}

// LeadingPos returns a leading-edge position at the given insertion offset.
func LeadingPos(index, offset int) TextPos {
	return TextPos{Index: index, Offset: offset, CharIndex: offset, Leading: true}
}

// TrailingPos returns a trailing-edge position after the character at
// charIndex.
func TrailingPos(index, charIndex int) TextPos {
	return TextPos{Index: index, Offset: charIndex + 1, CharIndex: charIndex, Leading: false}
}

// Compare orders positions by paragraph, then insertion offset.
// It returns -1, 0 or 1.
func (p TextPos) Compare(other TextPos) int {
	switch {
	case p.Index < other.Index:
		return -1
	case p.Index > other.Index:
		return 1
	case p.Offset < other.Offset:
		return -1
	case p.Offset > other.Offset:
		return 1
	}
	return 0
}

// Before returns true if p sorts before other.
func (p TextPos) Before(other TextPos) bool {
	return p.Compare(other) < 0
}

// String returns a compact representation for logs.
func (p TextPos) String() string {
	edge := "L"
	if !p.Leading {
		edge = "T"
	}
	return fmt.Sprintf("%d:%d%s", p.Index, p.Offset, edge)
}

// Origin anchors the sliding window. Index is the first paragraph
// considered part of the visible region and Offset is the pixel distance
// from that paragraph's top edge to the top of the viewport. A negative
// offset places the paragraph below the viewport top (top padding).
type Origin struct {
	Index  int
	Offset float64
}

// String returns a compact representation for logs.
func (o Origin) String() string {
	return fmt.Sprintf("%d%+.1f", o.Index, o.Offset)
}
