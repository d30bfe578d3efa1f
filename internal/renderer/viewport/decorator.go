package viewport

import (
	"github.com/dshills/vflow/internal/renderer/dirty"
	"github.com/dshills/vflow/internal/renderer/rowcache"
)

// Side selects a side decorator slot.
type Side uint8

const (
	// Left is the slot before the text area.
	Left Side = iota

	// Right is the slot after the text area.
	Right
)

// SideDecorator draws per-paragraph labels beside the text, such as line
// numbers.
type SideDecorator interface {
	// Width returns the width needed for a document of count paragraphs.
	Width(count int) float64

	// Label returns the label of a paragraph. It is called on a cache miss.
	Label(index int) string
}

// Decoration is one laid-out label, aligned with its row.
type Decoration struct {
	Index  int
	Y      float64
	Height float64
	Label  string
}

type decoratorState struct {
	dec   SideDecorator
	cache *rowcache.Cache[string]
	w     float64
	items []Decoration
}

// width returns the decorator width; a missing decorator has none.
func (d *decoratorState) width() float64 {
	if d == nil {
		return 0
	}
	return d.w
}

// SetSideDecorator installs a decorator on one side. nil removes it.
func (w *Window) SetSideDecorator(side Side, dec SideDecorator) {
	var st *decoratorState
	if dec != nil {
		cfg := rowcache.DefaultConfig()
		cfg.Capacity = w.opts.CacheSize
		st = &decoratorState{
			dec:   dec,
			cache: rowcache.New[string](cfg),
			w:     dec.Width(w.paragraphCount()),
		}
	}
	if side == Left {
		w.left = st
	} else {
		w.right = st
	}
	w.queue.Push(dirty.ReasonDecorator)
}

// Decorations returns the labels of a side for the visible rows. Each
// reflow builds a new slice, so an earlier result stays intact.
func (w *Window) Decorations(side Side) []Decoration {
	w.Arrangement()
	d := w.decorator(side)
	if d == nil {
		return nil
	}
	return d.items
}

// DecoratorX returns the viewport x and width of a side's strip.
func (w *Window) DecoratorX(side Side) (x, width float64) {
	if side == Left {
		return 0, w.left.width()
	}
	return w.left.width() + w.textWidth(), w.right.width()
}

// TextAreaX returns the viewport x and width of the text area.
func (w *Window) TextAreaX() (x, width float64) {
	return w.left.width(), w.textWidth()
}

func (w *Window) decorator(side Side) *decoratorState {
	if side == Left {
		return w.left
	}
	return w.right
}

// decoratorsResized updates decorator widths for the current paragraph
// count and reports whether any changed. Labels of a resized decorator are
// dropped since their padding depends on the width.
func (w *Window) decoratorsResized() bool {
	changed := false
	n := w.paragraphCount()
	for _, d := range []*decoratorState{w.left, w.right} {
		if d == nil {
			continue
		}
		if nw := d.dec.Width(n); nw != d.w {
			d.w = nw
			d.cache.Clear()
			changed = true
		}
	}
	return changed
}

// layoutDecorators lays out labels for the visible rows only.
func (w *Window) layoutDecorators() {
	vis := w.arr.Visible()
	for _, d := range []*decoratorState{w.left, w.right} {
		if d == nil {
			continue
		}
		d.items = make([]Decoration, 0, len(vis))
		for _, r := range vis {
			label, ok := d.cache.Get(r.Index)
			if !ok {
				label = d.dec.Label(r.Index)
				d.cache.Put(r.Index, label)
			}
			d.items = append(d.items, Decoration{
				Index:  r.Index,
				Y:      r.Y,
				Height: r.Height,
				Label:  label,
			})
		}
	}
}

// InvalidateDecorations drops all cached labels, for example after the
// signs shown by a gutter changed.
func (w *Window) InvalidateDecorations() {
	w.clearDecoratorCaches()
	w.queue.Push(dirty.ReasonDecorator)
}

func (w *Window) clearDecoratorCaches() {
	for _, d := range []*decoratorState{w.left, w.right} {
		if d != nil {
			d.cache.Clear()
		}
	}
}
