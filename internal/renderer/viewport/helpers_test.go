package viewport

import (
	"github.com/google/uuid"

	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/layout"
	"github.com/dshills/vflow/internal/renderer/row"
)

// fixedModel is a document of n one-character paragraphs.
type fixedModel struct {
	n  int
	id uuid.UUID
}

func (m *fixedModel) ParagraphCount() int           { return m.n }
func (m *fixedModel) ParagraphLength(index int) int { return 1 }
func (m *fixedModel) ID() uuid.UUID                 { return m.id }

// fixedFactory builds embedded rows of a fixed height.
func fixedFactory(height float64) row.Factory {
	return row.FactoryFunc(func(index int) row.Content {
		return row.NewEmbeddedContent("", 1, 100, height)
	})
}

func newFixedWindow(n int, height float64, opts Options) *Window {
	w := NewWindow(&fixedModel{n: n}, fixedFactory(height), opts)
	w.SetSize(100, 300)
	return w
}

// textModel is an in-memory text document.
type textModel struct {
	paras []string
}

func (m *textModel) ParagraphCount() int            { return len(m.paras) }
func (m *textModel) ParagraphText(index int) string { return m.paras[index] }
func (m *textModel) ParagraphLength(index int) int  { return len([]rune(m.paras[index])) }

func newTextWindow(paras []string, width, height float64, opts Options) *Window {
	m := &textModel{paras: paras}
	f := row.NewTextFactory(m, layout.NewEngine(4, false), row.DefaultMetrics())
	w := NewWindow(m, f, opts)
	w.SetSize(width, height)
	return w
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

// mockDecorator labels paragraphs and counts label requests.
type mockDecorator struct {
	width float64
	calls int
}

func (d *mockDecorator) Width(count int) float64 { return d.width }

func (d *mockDecorator) Label(index int) string {
	d.calls++
	return "#"
}

func originAt(index int) core.Origin {
	return core.Origin{Index: index}
}
