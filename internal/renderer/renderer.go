package renderer

import (
	"math"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/highlight"
	"github.com/dshills/vflow/internal/renderer/row"
	"github.com/dshills/vflow/internal/renderer/viewport"
)

// Surface is a grid of character cells.
type Surface interface {
	// Size returns the grid size in cells.
	Size() (width, height int)

	// SetCluster draws one grapheme cluster.
	SetCluster(x, y int, text string, style core.Style)

	// Fill fills a rectangle of cells with r.
	Fill(x, y, w, h int, r rune, style core.Style)

	ShowCursor(x, y int)
	HideCursor()
}

// Theme holds the styles used for painting.
type Theme struct {
	Text             core.Style
	Gutter           core.Style
	Selection        core.Style
	CurrentParagraph core.Style
	Embedded         core.Style
	ScrollTrack      core.Style
	ScrollThumb      core.Style
}

// DefaultTheme returns a theme using the terminal's default colors.
func DefaultTheme() Theme {
	def := core.DefaultStyle()
	return Theme{
		Text:             def,
		Gutter:           def.WithForeground(core.ColorFromRGB(128, 128, 128)),
		Selection:        core.Style{Foreground: core.ColorDefault, Background: core.ColorDefault, Attributes: core.AttrReverse},
		CurrentParagraph: def,
		Embedded:         core.Style{Foreground: core.ColorDefault, Background: core.ColorDefault, Attributes: core.AttrDim},
		ScrollTrack:      def,
		ScrollThumb:      core.Style{Foreground: core.ColorDefault, Background: core.ColorDefault, Attributes: core.AttrReverse},
	}
}

// ThemeFrom derives a theme from a syntax highlighting theme.
func ThemeFrom(t *highlight.Theme) Theme {
	base := core.Style{Foreground: t.Foreground, Background: t.Background}
	return Theme{
		Text:             base,
		Gutter:           base.WithForeground(t.Gutter),
		Selection:        base.WithBackground(t.Selection),
		CurrentParagraph: base.WithBackground(t.LineHighlight),
		Embedded:         base.WithForeground(t.Gutter),
		ScrollTrack:      base.WithBackground(t.LineHighlight),
		ScrollThumb:      base.WithBackground(t.Gutter),
	}
}

// Renderer paints a window.
type Renderer struct {
	win     *viewport.Window
	metrics row.Metrics
	theme   Theme

	anchor   core.TextPos
	selected bool

	frames uint64
}

// New creates a renderer for win. metrics must match the ones the row
// factory uses.
func New(win *viewport.Window, metrics row.Metrics, theme Theme) *Renderer {
	if metrics.CellWidth <= 0 {
		metrics.CellWidth = 1
	}
	if metrics.LineHeight <= 0 {
		metrics.LineHeight = 1
	}
	return &Renderer{win: win, metrics: metrics, theme: theme}
}

// SetWindow replaces the painted window.
func (r *Renderer) SetWindow(win *viewport.Window) {
	r.win = win
}

// SetTheme replaces the theme.
func (r *Renderer) SetTheme(t Theme) {
	r.theme = t
}

// Theme returns the active theme.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// SetSelection starts a selection at anchor. The selection extends to the
// window's caret.
func (r *Renderer) SetSelection(anchor core.TextPos) {
	r.anchor = anchor
	r.selected = true
}

// ClearSelection removes the selection.
func (r *Renderer) ClearSelection() {
	r.selected = false
}

// Selection returns the selection anchor, if any.
func (r *Renderer) Selection() (core.TextPos, bool) {
	return r.anchor, r.selected
}

// Frames returns the number of frames drawn.
func (r *Renderer) Frames() uint64 {
	return r.frames
}

// frame holds the per-draw state.
type frame struct {
	s        Surface
	w, h     int
	textX0   int
	textX1   int
	selShape core.Shape
	curShape core.Shape
}

// Draw paints the window onto s. The host calls Show on its screen
// afterwards.
func (r *Renderer) Draw(s Surface) {
	r.frames++
	sw, sh := s.Size()
	s.Fill(0, 0, sw, sh, ' ', r.theme.Text)

	arr := r.win.Arrangement()
	tx, tw := r.win.TextAreaX()
	f := &frame{
		s:      s,
		w:      sw,
		h:      sh,
		textX0: r.cellX(tx),
		textX1: r.cellX(tx + tw),
	}
	f.curShape = r.win.CurrentParagraphShape()
	if r.selected {
		f.selShape = r.win.SelectionShape(r.anchor, r.win.Caret())
	}
	r.fillShape(f, f.curShape, r.theme.CurrentParagraph)
	r.fillShape(f, f.selShape, r.theme.Selection)

	for _, rw := range arr.Visible() {
		r.drawRow(f, rw)
	}
	r.drawDecorations(f, viewport.Left)
	r.drawDecorations(f, viewport.Right)
	r.drawScrollBar(f)
	r.placeCaret(f)
}

func (r *Renderer) cellX(x float64) int {
	return int(math.Floor(x / r.metrics.CellWidth))
}

func (r *Renderer) cellY(y float64) int {
	return int(math.Floor(y / r.metrics.LineHeight))
}

// fillShape fills the cells covered by shape, clipped to the text area.
func (r *Renderer) fillShape(f *frame, shape core.Shape, st core.Style) {
	for _, rc := range shape {
		x0 := max(r.cellX(rc.X), f.textX0)
		x1 := min(int(math.Ceil(rc.MaxX()/r.metrics.CellWidth)), f.textX1)
		y0 := r.cellY(rc.Y)
		y1 := int(math.Ceil(rc.MaxY() / r.metrics.LineHeight))
		if x1 > x0 && y1 > y0 {
			f.s.Fill(x0, y0, x1-x0, y1-y0, ' ', st)
		}
	}
}

// background returns the band background of a cell, if any.
func (r *Renderer) background(f *frame, cx, cy int) (core.Color, bool) {
	px := (float64(cx) + 0.5) * r.metrics.CellWidth
	py := (float64(cy) + 0.5) * r.metrics.LineHeight
	for _, rc := range f.selShape {
		if rc.Contains(px, py) {
			return r.theme.Selection.Background, true
		}
	}
	for _, rc := range f.curShape {
		if rc.Contains(px, py) {
			return r.theme.CurrentParagraph.Background, true
		}
	}
	return core.Color{}, false
}

func (r *Renderer) drawRow(f *frame, rw *row.Row) {
	tx, _ := r.win.TextAreaX()
	ox := tx + r.win.Padding().Left - r.win.OffsetX()

	switch c := rw.Content.(type) {
	case *row.TextContent:
		spans := c.Spans()
		for _, cl := range c.Layout().Clusters {
			if cl.Width == 0 {
				continue
			}
			cx := r.cellX(ox + float64(cl.Col)*r.metrics.CellWidth)
			cy := r.cellY(rw.Y + float64(cl.Line)*r.metrics.LineHeight)
			if cy < 0 || cy >= f.h || cx < f.textX0 || cx+cl.Width > f.textX1 {
				continue
			}
			st := r.theme.Text.Merge(core.StyleAt(spans, cl.Start))
			if bg, ok := r.background(f, cx, cy); ok {
				st.Background = bg
			}
			if cl.Tab || cl.Space {
				for i := 0; i < cl.Width; i++ {
					f.s.SetCluster(cx+i, cy, " ", st)
				}
				continue
			}
			f.s.SetCluster(cx, cy, cl.Text, st)
		}
	case *row.EmbeddedContent:
		cy := r.cellY(rw.Y)
		if cy < 0 || cy >= f.h {
			return
		}
		// Embedded rows span the text area whatever their natural width.
		f.s.Fill(f.textX0, cy, f.textX1-f.textX0, 1, '─', r.theme.Embedded)
		r.drawLabel(f, r.cellX(ox)+1, cy, f.textX1, " "+c.Label+" ", r.theme.Embedded)
	}
}

// drawLabel draws text from cell x, stopping before limit. It returns the
// cell after the last one drawn.
func (r *Renderer) drawLabel(f *frame, x, y, limit int, text string, st core.Style) int {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		s := g.Str()
		w := runewidth.StringWidth(s)
		if w == 0 {
			continue
		}
		if x+w > limit {
			break
		}
		if x >= 0 {
			f.s.SetCluster(x, y, s, st)
		}
		x += w
	}
	return x
}

func (r *Renderer) drawDecorations(f *frame, side viewport.Side) {
	items := r.win.Decorations(side)
	if items == nil {
		return
	}
	dx, dw := r.win.DecoratorX(side)
	x0 := r.cellX(dx)
	x1 := r.cellX(dx + dw)
	if x1 <= x0 {
		return
	}
	f.s.Fill(x0, 0, x1-x0, f.h, ' ', r.theme.Gutter)

	for _, d := range items {
		cy := r.cellY(d.Y)
		if cy < 0 || cy >= f.h {
			continue
		}
		st := r.theme.Gutter
		if d.Index == r.win.Caret().Index {
			st.Attributes |= core.AttrBold
		}
		r.drawLabel(f, x0, cy, x1, d.Label, st)
	}
}

// drawScrollBar draws the vertical bar in the first column right of the
// window, if the surface has one. The track spans the window height.
func (r *Renderer) drawScrollBar(f *frame) {
	col := r.cellX(r.win.Width())
	if col >= f.w {
		return
	}
	bar := r.win.VerticalScrollBar()
	if !bar.Visible() {
		return
	}
	track := min(f.h, r.cellY(r.win.Height()))
	f.s.Fill(col, 0, 1, track, '│', r.theme.ScrollTrack)
	start, length := bar.Thumb(float64(track))
	y0 := int(math.Floor(start))
	y1 := min(int(math.Ceil(start+length)), track)
	if y1 > y0 {
		f.s.Fill(col, y0, 1, y1-y0, ' ', r.theme.ScrollThumb)
	}
}

func (r *Renderer) placeCaret(f *frame) {
	ci := r.win.CaretInfo(r.win.Caret())
	if ci == nil {
		f.s.HideCursor()
		return
	}
	cx := r.cellX(ci.MinX)
	cy := r.cellY(ci.MinY)
	if cx < f.textX0 || cx > f.textX1 || cy < 0 || cy >= f.h {
		f.s.HideCursor()
		return
	}
	f.s.ShowCursor(cx, cy)
}
