package main

import (
	"sort"
	"testing"

	"github.com/dshills/vflow/internal/renderer/core"
)

func marked(m *editMarks) []int {
	out := make([]int, 0, len(m.marked))
	for idx := range m.marked {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func TestEditMarksApply(t *testing.T) {
	edit := func(start, end, lines int) core.Change {
		return core.Change{
			Kind:       core.ChangeEdit,
			Start:      core.LeadingPos(start, 0),
			End:        core.LeadingPos(end, 0),
			LinesAdded: lines,
		}
	}
	tests := []struct {
		name    string
		initial []int
		change  core.Change
		want    []int
	}{
		{"single paragraph", nil, edit(3, 3, 0), []int{3}},
		{"split paragraph", nil, edit(3, 3, 1), []int{3, 4}},
		{"shift below", []int{1, 5}, edit(3, 3, 2), []int{1, 3, 4, 5, 7}},
		{"join paragraphs", []int{2, 3, 8}, edit(2, 3, 0), []int{2, 7}},
		{"style ignored", []int{1}, core.Change{Kind: core.ChangeStyle}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newEditMarks()
			for _, idx := range tt.initial {
				m.marked[idx] = struct{}{}
			}
			m.Apply(tt.change)
			got := marked(m)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestEditMarksSigns(t *testing.T) {
	m := newEditMarks()
	m.Apply(core.Change{Kind: core.ChangeEdit, Start: core.LeadingPos(2, 0), End: core.LeadingPos(2, 1)})
	if signs := m.SignsFor(2); len(signs) != 1 || signs[0].Index != 2 {
		t.Errorf("expected one sign on paragraph 2, got %v", signs)
	}
	if signs := m.SignsFor(1); signs != nil {
		t.Errorf("expected no sign on paragraph 1, got %v", signs)
	}
	m.Reset()
	if m.Len() != 0 {
		t.Errorf("expected marks cleared, got %d", m.Len())
	}
}
