// Package dirty collects invalidation reasons for the window controller.
// Sources push named reasons into a Queue; the controller drains it once
// per frame and runs a single reflow, so several invalidations arriving
// before the next frame coalesce into one pass.
package dirty

// Range is an inclusive range of paragraph indices touched by an edit.
type Range struct {
	// Start is the first affected paragraph.
	Start int

	// End is the last affected paragraph (inclusive).
	End int
}

// NewRange creates a range, ordering the bounds.
func NewRange(start, end int) Range {
	if end < start {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// Len returns the number of paragraphs in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Contains returns true if the paragraph is inside the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index <= r.End
}

// Overlaps returns true if the two ranges share a paragraph.
func (r Range) Overlaps(other Range) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// Merge returns the smallest range covering both.
func (r Range) Merge(other Range) Range {
	return Range{Start: min(r.Start, other.Start), End: max(r.End, other.End)}
}
