// Package arrangement implements the sliding window of materialized rows.
//
// An Arrangement is a snapshot built by one reflow pass. Rows from the
// origin paragraph downward (the visible rows and the bottom margin) are
// kept in ascending index order; rows above the origin (the top margin) are
// kept in descending index order, so both ends grow by appending. Window
// positions address the combined run top to bottom:
//
//	position p < TopCount()  -> top[TopCount()-1-p]
//	position p >= TopCount() -> bottom[p-TopCount()]
//
// Heights of rows outside the window are extrapolated from the average
// height of the materialized rows.
package arrangement

import (
	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/row"
)

// Arrangement is an immutable snapshot of the sliding window. Its rows are
// positioned copies, so a later build does not move them; their content
// reflects the most recent layout.
type Arrangement struct {
	origin  core.Origin
	count   int
	width   float64
	height  float64
	padding core.Insets

	bottom       []*row.Row
	top          []*row.Row
	visibleCount int
	visibleEnd   int // bottom[:visibleEnd] holds every visible bottom row

	topHeight    float64
	bottomHeight float64

	// bottomEdge is the window-local y of the bottom of the last row, plus
	// the bottom padding when the window reaches the document end.
	bottomEdge float64

	unwrappedWidth float64
}

// Empty returns an arrangement with no rows for a viewport of the given
// size. It is what a window shows before its first reflow.
func Empty(width, height float64, padding core.Insets) *Arrangement {
	return &Arrangement{
		origin:  core.Origin{Offset: -padding.Top},
		width:   width,
		height:  height,
		padding: padding,
	}
}

// Origin returns the origin the arrangement was built from. It may differ
// from the requested origin when the build corrected excess whitespace.
func (a *Arrangement) Origin() core.Origin { return a.origin }

// ParagraphCount returns the document's paragraph count at build time.
func (a *Arrangement) ParagraphCount() int { return a.count }

// ViewportWidth returns the content width the arrangement was built for.
func (a *Arrangement) ViewportWidth() float64 { return a.width }

// ViewportHeight returns the viewport height the arrangement was built for.
func (a *Arrangement) ViewportHeight() float64 { return a.height }

// Padding returns the content padding.
func (a *Arrangement) Padding() core.Insets { return a.padding }

// Len returns the number of materialized rows.
func (a *Arrangement) Len() int { return len(a.top) + len(a.bottom) }

// TopCount returns the number of top-margin rows.
func (a *Arrangement) TopCount() int { return len(a.top) }

// BottomCount returns the number of rows from the origin downward.
func (a *Arrangement) BottomCount() int { return len(a.bottom) }

// VisibleCount returns the number of rows from the origin downward that
// intersect the viewport.
func (a *Arrangement) VisibleCount() int { return a.visibleCount }

// TopHeight returns the summed height of the top-margin rows.
func (a *Arrangement) TopHeight() float64 { return a.topHeight }

// BottomHeight returns the summed height of the rows from the origin down.
func (a *Arrangement) BottomHeight() float64 { return a.bottomHeight }

// BottomEdge returns the window-local y of the window's last row bottom.
func (a *Arrangement) BottomEdge() float64 { return a.bottomEdge }

// UnwrappedWidth returns the width of the widest visible row.
func (a *Arrangement) UnwrappedWidth() float64 { return a.unwrappedWidth }

// TopIndex returns the paragraph index of the first materialized row.
func (a *Arrangement) TopIndex() int { return a.origin.Index - len(a.top) }

// BottomIndex returns the index after the last materialized row.
func (a *Arrangement) BottomIndex() int { return a.origin.Index + len(a.bottom) }

// AtStart returns true if the window includes the first paragraph.
func (a *Arrangement) AtStart() bool { return a.TopIndex() <= 0 }

// AtEnd returns true if the window includes the last paragraph.
func (a *Arrangement) AtEnd() bool { return a.BottomIndex() >= a.count }

// At returns the row at window position p, or nil if p is out of range.
func (a *Arrangement) At(p int) *row.Row {
	tc := len(a.top)
	switch {
	case p < 0:
		return nil
	case p < tc:
		return a.top[tc-1-p]
	case p-tc < len(a.bottom):
		return a.bottom[p-tc]
	}
	return nil
}

// Row returns the materialized row for a paragraph, or nil if the
// paragraph is outside [TopIndex, BottomIndex).
func (a *Arrangement) Row(index int) *row.Row {
	if index < a.TopIndex() || index >= a.BottomIndex() {
		return nil
	}
	return a.At(index - a.TopIndex())
}

// Visible returns the rows intersecting the viewport, top to bottom.
func (a *Arrangement) Visible() []*row.Row {
	var out []*row.Row
	for i := 0; i < len(a.top); i++ {
		r := a.top[i]
		if r.Bottom() <= 0 {
			break
		}
		out = append(out, r)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	for _, r := range a.bottom[:a.visibleEnd] {
		if r.Bottom() > 0 {
			out = append(out, r)
		}
	}
	return out
}

// IsVisible returns true if the paragraph's row intersects the viewport.
func (a *Arrangement) IsVisible(index int) bool {
	r := a.Row(index)
	return r != nil && r.Bottom() > 0 && r.Y < a.height
}

// AverageHeight returns the mean height of the materialized rows, or 0 if
// the window is empty.
func (a *Arrangement) AverageHeight() float64 {
	n := len(a.top) + len(a.bottom)
	if n == 0 {
		return 0
	}
	return (a.topHeight + a.bottomHeight) / float64(n)
}

// EstimatedTotalHeight extrapolates the height of the whole document from
// the materialized rows. Padding is not included.
func (a *Arrangement) EstimatedTotalHeight() float64 {
	n := len(a.top) + len(a.bottom)
	if n == 0 {
		return 0
	}
	rest := a.count - n
	if rest < 0 {
		rest = 0
	}
	return float64(rest)*a.AverageHeight() + a.topHeight + a.bottomHeight
}

// ContentHeight returns the estimated total height including the top and
// bottom padding. It is the vertical scroll range.
func (a *Arrangement) ContentHeight() float64 {
	return a.EstimatedTotalHeight() + a.padding.Top + a.padding.Bottom
}

// ScrollTop returns the estimated distance from the top of the content to
// the top of the viewport.
func (a *Arrangement) ScrollTop() float64 {
	if a.Len() == 0 {
		return 0
	}
	top := a.padding.Top + float64(a.TopIndex())*a.AverageHeight() + a.topHeight + a.origin.Offset
	if top < 0 {
		return 0
	}
	return top
}
