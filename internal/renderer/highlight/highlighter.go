// Package highlight provides syntax highlighting for text rows via chroma.
//
// A Resolver implements row.StyleResolver: it tokenizes one paragraph at a
// time, optionally with a few preceding paragraphs as lexer context, and
// returns style spans in rune offsets. Results are cached by the row cache
// together with the row, so the resolver itself keeps no state per
// paragraph.
package highlight

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/row"
)

// DefaultContextLines is the number of preceding paragraphs fed to the
// lexer when a context source is set.
const DefaultContextLines = 20

// Resolver produces style spans for paragraphs.
type Resolver struct {
	lexer chroma.Lexer
	theme *Theme

	context      row.Source
	contextLines int
}

// NewResolver creates a resolver for a chroma language name. ok is false if
// the language is unknown; the resolver then highlights nothing.
func NewResolver(language string, theme *Theme) (r *Resolver, ok bool) {
	if theme == nil {
		theme, _ = LoadTheme("")
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		return &Resolver{theme: theme}, false
	}
	return &Resolver{lexer: chroma.Coalesce(lexer), theme: theme}, true
}

// ForFile creates a resolver whose language is detected from the file name,
// falling back to content analysis of sample.
func ForFile(path, sample string, theme *Theme) *Resolver {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil && sample != "" {
		lexer = lexers.Analyse(sample)
	}
	if theme == nil {
		theme, _ = LoadTheme("")
	}
	r := &Resolver{theme: theme}
	if lexer != nil {
		r.lexer = chroma.Coalesce(lexer)
	}
	return r
}

// Language returns the lexer name, or "" if none.
func (r *Resolver) Language() string {
	if r.lexer == nil {
		return ""
	}
	return r.lexer.Config().Name
}

// Theme returns the active theme.
func (r *Resolver) Theme() *Theme {
	return r.theme
}

// SetTheme changes the theme. Cached rows keep their old spans until the
// window is invalidated.
func (r *Resolver) SetTheme(theme *Theme) {
	if theme != nil {
		r.theme = theme
	}
}

// SetContext makes the resolver lex up to lines preceding paragraphs from
// src before each paragraph, so constructs spanning paragraphs (block
// comments, raw strings) are recognized. A nil src disables context.
func (r *Resolver) SetContext(src row.Source, lines int) {
	if lines <= 0 {
		lines = DefaultContextLines
	}
	r.context = src
	r.contextLines = lines
}

// StylesFor implements row.StyleResolver.
func (r *Resolver) StylesFor(index int, text string) []core.StyleSpan {
	if r.lexer == nil || text == "" {
		return nil
	}

	var sb strings.Builder
	start := 0
	if r.context != nil {
		from := max(0, index-r.contextLines)
		n := r.context.ParagraphCount()
		for i := from; i < index && i < n; i++ {
			line := r.context.ParagraphText(i)
			sb.WriteString(line)
			sb.WriteByte('\n')
			start += len([]rune(line)) + 1
		}
	}
	sb.WriteString(text)
	sb.WriteByte('\n')
	end := start + len([]rune(text))

	tokens, err := chroma.Tokenise(r.lexer, nil, sb.String())
	if err != nil {
		return nil
	}

	var spans []core.StyleSpan
	pos := 0
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		n := len([]rune(tok.Value))
		from, to := max(pos, start), min(pos+n, end)
		pos += n
		if from >= to {
			if pos >= end {
				break
			}
			continue
		}
		st, ok := r.theme.StyleFor(tok.Type)
		if !ok {
			continue
		}
		sp := core.StyleSpan{Start: from - start, End: to - start, Style: st}
		if k := len(spans) - 1; k >= 0 && spans[k].End == sp.Start && spans[k].Style == sp.Style {
			spans[k].End = sp.End
			continue
		}
		spans = append(spans, sp)
	}
	return spans
}
