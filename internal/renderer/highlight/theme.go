package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/vflow/internal/renderer/core"
)

// DefaultThemeName is the chroma style used when no theme is configured.
const DefaultThemeName = "monokai"

// Theme defines colors and styles for syntax highlighting, derived from a
// chroma style.
type Theme struct {
	// Name is the chroma style name.
	Name string

	// Background is the editor background color.
	Background core.Color

	// Foreground is the default text color.
	Foreground core.Color

	// Selection is the selection highlight color.
	Selection core.Color

	// LineHighlight is the current paragraph highlight color.
	LineHighlight core.Color

	// Gutter is the line-number color.
	Gutter core.Color

	style *chroma.Style
	base  chroma.Colour
}

// LoadTheme returns the theme for a chroma style name. An empty name uses
// DefaultThemeName. ok is false if the style is unknown, in which case
// chroma's fallback style is returned.
func LoadTheme(name string) (theme *Theme, ok bool) {
	if name == "" {
		name = DefaultThemeName
	}
	sty, ok := styles.Registry[name]
	if !ok {
		sty, ok = styles.Registry[strings.ToLower(name)]
	}
	if !ok {
		sty = styles.Fallback
	}
	return newTheme(sty), ok
}

func newTheme(sty *chroma.Style) *Theme {
	bgEntry := sty.Get(chroma.Background)
	bg := core.ColorFromRGB(0, 0, 0)
	fg := core.ColorFromRGB(200, 200, 200)
	if bgEntry.Background.IsSet() {
		bg = fromColour(bgEntry.Background)
	}
	if bgEntry.Colour.IsSet() {
		fg = fromColour(bgEntry.Colour)
	}
	return &Theme{
		Name:          sty.Name,
		Background:    bg,
		Foreground:    fg,
		Selection:     lerp(bg, fg, 0.25),
		LineHighlight: lerp(bg, fg, 0.07),
		Gutter:        lerp(bg, fg, 0.45),
		style:         sty,
		base:          sty.Get(chroma.Text).Colour,
	}
}

// StyleFor returns the style for a chroma token type. ok is false if the
// token renders as plain text.
func (t *Theme) StyleFor(tt chroma.TokenType) (core.Style, bool) {
	entry := t.style.Get(tt)

	var attr core.Attribute
	if entry.Bold == chroma.Yes {
		attr |= core.AttrBold
	}
	if entry.Italic == chroma.Yes {
		attr |= core.AttrItalic
	}
	if entry.Underline == chroma.Yes {
		attr |= core.AttrUnderline
	}

	st := core.DefaultStyle()
	st.Attributes = attr
	if entry.Colour.IsSet() && entry.Colour != t.base {
		st.Foreground = fromColour(entry.Colour)
		return st, true
	}
	return st, attr != 0
}

// ThemeNames returns the names of all available themes.
func ThemeNames() []string {
	return styles.Names()
}

func fromColour(c chroma.Colour) core.Color {
	return core.ColorFromRGB(c.Red(), c.Green(), c.Blue())
}

// lerp linearly interpolates between two colors at fraction f.
func lerp(a, b core.Color, f float64) core.Color {
	mix := func(x, y uint8) uint8 {
		v := float64(x) + (float64(y)-float64(x))*f
		return uint8(max(0, min(255, v+0.5)))
	}
	return core.ColorFromRGB(mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B))
}
