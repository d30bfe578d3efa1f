package row

import (
	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/layout"
)

// Factory builds row content for a paragraph. The window calls it only on
// a row cache miss.
type Factory interface {
	Content(index int) Content
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(index int) Content

// Content implements Factory.
func (f FactoryFunc) Content(index int) Content {
	return f(index)
}

// Source provides paragraph text.
type Source interface {
	ParagraphCount() int
	ParagraphText(index int) string
}

// EmbeddedSource is optionally implemented by sources with non-text
// paragraphs. ok is false for ordinary text paragraphs.
type EmbeddedSource interface {
	Embedded(index int) (label string, height float64, ok bool)
}

// StyleResolver converts a paragraph into style spans. It is used only when
// building content.
type StyleResolver interface {
	StylesFor(index int, text string) []core.StyleSpan
}

// TextFactory builds TextContent from a Source.
type TextFactory struct {
	src     Source
	engine  *layout.Engine
	metrics Metrics
	styles  StyleResolver
}

// NewTextFactory creates a factory. A nil engine uses a default one.
func NewTextFactory(src Source, engine *layout.Engine, metrics Metrics) *TextFactory {
	if engine == nil {
		engine = layout.NewEngine(4, true)
	}
	return &TextFactory{
		src:     src,
		engine:  engine,
		metrics: metrics.normalized(),
	}
}

// SetSource replaces the paragraph source.
func (f *TextFactory) SetSource(src Source) {
	f.src = src
}

// SetStyleResolver sets the style resolver. nil disables styling.
func (f *TextFactory) SetStyleResolver(r StyleResolver) {
	f.styles = r
}

// Metrics returns the pixel metrics.
func (f *TextFactory) Metrics() Metrics {
	return f.metrics
}

// Engine returns the layout engine.
func (f *TextFactory) Engine() *layout.Engine {
	return f.engine
}

// Content implements Factory.
func (f *TextFactory) Content(index int) Content {
	if f.src == nil || index < 0 || index >= f.src.ParagraphCount() {
		return NewTextContent("", nil, f.engine, f.metrics)
	}
	text := f.src.ParagraphText(index)
	if es, ok := f.src.(EmbeddedSource); ok {
		if label, h, isEmbedded := es.Embedded(index); isEmbedded {
			return NewEmbeddedContent(label, len([]rune(text)), 0, h*f.metrics.LineHeight)
		}
	}
	var spans []core.StyleSpan
	if f.styles != nil {
		spans = f.styles.StylesFor(index, text)
	}
	return NewTextContent(text, spans, f.engine, f.metrics)
}
