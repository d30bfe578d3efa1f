package highlight

import (
	"testing"

	"github.com/alecthomas/chroma/v2"

	"github.com/dshills/vflow/internal/renderer/core"
)

// sliceSource is a paragraph source over a string slice.
type sliceSource []string

func (s sliceSource) ParagraphCount() int            { return len(s) }
func (s sliceSource) ParagraphText(index int) string { return s[index] }

func TestNewResolver(t *testing.T) {
	t.Run("known language", func(t *testing.T) {
		r, ok := NewResolver("go", nil)
		if !ok {
			t.Fatal("expected the Go lexer")
		}
		if r.Language() != "Go" {
			t.Errorf("Language() = %q, want Go", r.Language())
		}
		if r.Theme() == nil || r.Theme().Name != DefaultThemeName {
			t.Error("resolver should use the default theme when nil passed")
		}
	})

	t.Run("unknown language", func(t *testing.T) {
		r, ok := NewResolver("no-such-language", nil)
		if ok {
			t.Error("expected unknown language")
		}
		if spans := r.StylesFor(0, "func main() {}"); spans != nil {
			t.Errorf("expected no spans, got %v", spans)
		}
	})
}

func TestResolverKeyword(t *testing.T) {
	r, _ := NewResolver("go", nil)
	text := "func main() {}"
	spans := r.StylesFor(0, text)

	if len(spans) == 0 {
		t.Fatal("expected spans for Go source")
	}
	for _, sp := range spans {
		if sp.Start < 0 || sp.End > len(text) || sp.Start >= sp.End {
			t.Errorf("span out of range: %+v", sp)
		}
	}
	kw := core.StyleAt(spans, 0)
	if kw.Foreground.IsDefault() {
		t.Error("keyword should be colored")
	}
	if core.StyleAt(spans, 3) != kw {
		t.Error("the whole keyword should share one style")
	}
}

func TestResolverPlainText(t *testing.T) {
	r, _ := NewResolver("plaintext", nil)
	if spans := r.StylesFor(0, "just some words"); len(spans) != 0 {
		t.Errorf("plain text should not be styled, got %v", spans)
	}
	if spans := r.StylesFor(0, ""); spans != nil {
		t.Errorf("empty paragraph should have no spans, got %v", spans)
	}
}

func TestResolverContext(t *testing.T) {
	src := sliceSource{"x := `abc", "def`"}
	r, _ := NewResolver("go", nil)
	want, ok := r.Theme().StyleFor(chroma.LiteralString)
	if !ok {
		t.Fatal("expected strings to be styled by the default theme")
	}

	if got := core.StyleAt(r.StylesFor(1, src[1]), 0); got == want {
		t.Error("without context the paragraph should not start inside a string")
	}

	r.SetContext(src, 0)
	spans := r.StylesFor(1, src[1])
	for i := 0; i < 4; i++ {
		if got := core.StyleAt(spans, i); got != want {
			t.Errorf("offset %d: expected string style, got %+v", i, got)
		}
	}
	if len(spans) != 1 || spans[0].Start != 0 || spans[0].End != 4 {
		t.Errorf("expected one merged span over the paragraph, got %+v", spans)
	}
}

func TestForFile(t *testing.T) {
	r := ForFile("/tmp/example.py", "", nil)
	if r.Language() != "Python" {
		t.Errorf("Language() = %q, want Python", r.Language())
	}

	r = ForFile("notes.unknownext", "", nil)
	if r.Language() != "" {
		t.Errorf("expected no lexer, got %q", r.Language())
	}
	if spans := r.StylesFor(0, "anything"); spans != nil {
		t.Errorf("expected no spans, got %v", spans)
	}
}
