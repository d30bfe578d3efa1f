package main

import (
	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/gutter"
)

// editMarks tracks the paragraphs edited since the last save and shows
// them in the gutter sign column.
type editMarks struct {
	marked map[int]struct{}
}

func newEditMarks() *editMarks {
	return &editMarks{marked: make(map[int]struct{})}
}

// Apply records an edit. Marks below the replaced range shift with the
// paragraph delta; marks inside it are replaced by the new paragraphs.
func (m *editMarks) Apply(c core.Change) {
	if !c.IsEdit() {
		return
	}
	delta := c.ParagraphDelta()
	next := make(map[int]struct{}, len(m.marked)+c.LinesAdded+1)
	for idx := range m.marked {
		switch {
		case idx < c.Start.Index:
			next[idx] = struct{}{}
		case idx > c.End.Index:
			next[idx+delta] = struct{}{}
		}
	}
	for i := c.Start.Index; i <= c.Start.Index+c.LinesAdded; i++ {
		next[i] = struct{}{}
	}
	m.marked = next
}

// Reset clears all marks.
func (m *editMarks) Reset() {
	clear(m.marked)
}

// Len returns the number of marked paragraphs.
func (m *editMarks) Len() int {
	return len(m.marked)
}

// SignsFor implements gutter.SignProvider.
func (m *editMarks) SignsFor(index int) []gutter.Sign {
	if _, ok := m.marked[index]; !ok {
		return nil
	}
	return []gutter.Sign{{Index: index, Type: gutter.SignModified}}
}
