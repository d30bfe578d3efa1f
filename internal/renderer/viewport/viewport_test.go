package viewport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/dirty"
	"github.com/dshills/vflow/internal/renderer/row"
)

func TestNewWindowDefaults(t *testing.T) {
	w := NewWindow(&fixedModel{n: 10}, fixedFactory(20), Options{})

	if w.opts.MarginFactor != 3.0 {
		t.Errorf("expected default margin factor, got %v", w.opts.MarginFactor)
	}
	if w.cache.Capacity() != 512 {
		t.Errorf("expected default cache capacity 512, got %d", w.cache.Capacity())
	}
	if !w.NeedsReflow() {
		t.Error("a new window needs its first reflow")
	}
	if w.Origin() != (core.Origin{}) {
		t.Errorf("expected origin at document start, got %v", w.Origin())
	}
}

func TestWindowFirstReflow(t *testing.T) {
	w := newFixedWindow(1000, 20, DefaultOptions())
	arr := w.Arrangement()

	if arr.VisibleCount() != 15 {
		t.Errorf("expected 15 visible rows, got %d", arr.VisibleCount())
	}
	if arr.TopCount() != 0 {
		t.Errorf("expected no top margin, got %d", arr.TopCount())
	}
	if arr.BottomCount() != 61 {
		t.Errorf("expected 61 bottom rows, got %d", arr.BottomCount())
	}
	if w.CacheLen() != 61 {
		t.Errorf("expected 61 cached rows, got %d", w.CacheLen())
	}
	if w.NeedsReflow() {
		t.Error("reflow should drain the queue")
	}
}

func TestWindowOriginInMiddle(t *testing.T) {
	w := newFixedWindow(1000, 20, DefaultOptions())
	w.SetOrigin(originAt(500))
	arr := w.Arrangement()

	if arr.TopIndex() != 454 || arr.TopCount() != 46 {
		t.Errorf("expected 46 top rows from 454, got %d from %d", arr.TopCount(), arr.TopIndex())
	}
}

func TestWindowReflowIdempotent(t *testing.T) {
	w := newFixedWindow(1000, 20, DefaultOptions())
	w.SetOrigin(core.Origin{Index: 321, Offset: 5})
	a := w.Arrangement()

	type snap struct {
		index int
		y, h  float64
	}
	take := func() []snap {
		var out []snap
		arr := w.Arrangement()
		for i := 0; i < arr.Len(); i++ {
			r := arr.At(i)
			out = append(out, snap{r.Index, r.Y, r.Height})
		}
		return out
	}
	first := take()
	w.Reflow()
	second := take()

	if len(first) != len(second) || a.Len() != len(second) {
		t.Fatalf("row count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("position %d: %+v != %+v", i, first[i], second[i])
		}
	}
}

func TestWindowCoalescesInvalidations(t *testing.T) {
	w := newFixedWindow(1000, 20, DefaultOptions())
	w.Arrangement()

	w.SetSize(100, 200)
	w.SetOrigin(originAt(40))
	w.SetWrapText(true)
	w.Invalidate(dirty.ReasonStyle)

	w.Arrangement()
	w.Arrangement()
	if got := w.Stats().Reflows; got != 2 {
		t.Errorf("expected 2 reflows, got %d", got)
	}
	if w.Arrangement().Origin() != originAt(40) {
		t.Errorf("expected origin 40, got %v", w.Arrangement().Origin())
	}
}

func TestWindowReentrantOriginChange(t *testing.T) {
	var w *Window
	triggered := false
	f := row.FactoryFunc(func(index int) row.Content {
		if !triggered {
			triggered = true
			w.SetOrigin(originAt(7))
			w.Reflow()
		}
		return row.NewEmbeddedContent("", 1, 10, 20)
	})
	w = NewWindow(&fixedModel{n: 100}, f, DefaultOptions())
	w.SetSize(100, 300)

	arr := w.Arrangement()
	if arr.Origin() != originAt(0) {
		t.Errorf("the running pass must not see the new origin, got %v", arr.Origin())
	}
	if w.Stats().Reflows != 1 {
		t.Errorf("expected a single reflow, got %d", w.Stats().Reflows)
	}
	if w.NeedsReflow() {
		t.Error("a change made during reflow must not schedule another pass")
	}

	w.Invalidate(dirty.ReasonResize)
	if got := w.Arrangement().Origin(); got != originAt(7) {
		t.Errorf("the next pass should use the deferred origin, got %v", got)
	}
}

func TestWindowCacheBoundedDuringScroll(t *testing.T) {
	w := newFixedWindow(10000, 20, DefaultOptions())
	w.Arrangement()

	steps := 0
	for w.ScrollVerticalPixels(100) {
		w.Arrangement()
		if w.CacheLen() > 512 {
			t.Fatalf("cache grew to %d entries at step %d", w.CacheLen(), steps)
		}
		if w.Stats().Rows > 200 {
			t.Fatalf("window materialized %d rows", w.Stats().Rows)
		}
		steps++
		if steps > 5000 {
			t.Fatal("scrolling did not reach the document end")
		}
	}

	arr := w.Arrangement()
	if !arr.IsVisible(9999) {
		t.Error("the last paragraph should be visible at the end")
	}
	if w.Origin() != originAt(9985) {
		t.Errorf("expected the window to rest at 9985, got %v", w.Origin())
	}
	if arr.BottomEdge() != 300 {
		t.Errorf("the document end should meet the viewport bottom, got %v", arr.BottomEdge())
	}
}

func TestWindowBlockScroll(t *testing.T) {
	w := newFixedWindow(1000, 20, DefaultOptions())

	if w.ScrollVerticalPixels(-10) {
		t.Error("scrolling above the start should be a no-op")
	}
	if !w.PageDown() {
		t.Fatal("expected page down")
	}
	if w.Origin() != originAt(15) {
		t.Errorf("expected origin 15, got %v", w.Origin())
	}
	if !w.PageUp() || w.Origin() != originAt(0) {
		t.Errorf("expected origin back at start, got %v", w.Origin())
	}

	w.ScrollVerticalFraction(1)
	arr := w.Arrangement()
	if !arr.AtEnd() || arr.BottomEdge() != 300 {
		t.Errorf("fraction 1 should show the document end, bottom %v", arr.BottomEdge())
	}
}

func TestWindowLongPixelScrollStaysBounded(t *testing.T) {
	w := newFixedWindow(1_000_000, 20, DefaultOptions())
	w.Arrangement()

	if !w.ScrollVerticalPixels(2e6) {
		t.Fatal("expected scroll")
	}
	arr := w.Arrangement()
	if arr.Len() > 200 {
		t.Errorf("window materialized %d rows after a long scroll", arr.Len())
	}
	if arr.VisibleCount() != 15 {
		t.Errorf("expected 15 visible rows, got %d", arr.VisibleCount())
	}
	if w.Origin() != originAt(100_000) {
		t.Errorf("expected origin 100000, got %v", w.Origin())
	}
}

func TestWindowEditBeforeOrigin(t *testing.T) {
	w := newFixedWindow(1000, 20, DefaultOptions())
	w.SetOrigin(originAt(10))
	w.Arrangement()
	if w.CacheLen() == 0 {
		t.Fatal("expected cached rows")
	}

	w.HandleChange(core.Change{
		Kind:  core.ChangeEdit,
		Start: core.LeadingPos(3, 0),
		End:   core.LeadingPos(3, 0),
	})
	if w.Origin() != originAt(3) {
		t.Errorf("expected origin reset to 3, got %v", w.Origin())
	}
	if w.CacheLen() != 0 {
		t.Errorf("expected cache cleared, got %d entries", w.CacheLen())
	}
	if !w.NeedsReflow() {
		t.Error("an edit should schedule a reflow")
	}
	if got := w.Arrangement().Origin(); got != originAt(3) {
		t.Errorf("expected reflow from 3, got %v", got)
	}

	// An edit below the origin leaves it alone
	w.HandleChange(core.Change{Kind: core.ChangeEdit, Start: core.LeadingPos(20, 0), End: core.LeadingPos(21, 0)})
	if w.Origin() != originAt(3) {
		t.Errorf("origin should stay at 3, got %v", w.Origin())
	}
}

func TestWindowEditShrinksDocument(t *testing.T) {
	m := &fixedModel{n: 1000}
	w := NewWindow(m, fixedFactory(20), DefaultOptions())
	w.SetSize(100, 300)
	w.SetOrigin(originAt(900))
	w.Arrangement()

	m.n = 100
	w.HandleChange(core.Change{Kind: core.ChangeEdit, Start: core.LeadingPos(950, 0), End: core.LeadingPos(999, 0)})
	if w.Origin() != originAt(99) {
		t.Errorf("expected origin clamped to 99, got %v", w.Origin())
	}
	if got := w.Arrangement().Origin(); got != originAt(85) {
		t.Errorf("expected the window to fill the viewport from 85, got %v", got)
	}
}

func TestWindowStyleChange(t *testing.T) {
	w := newFixedWindow(100, 20, DefaultOptions())
	w.SetOrigin(originAt(10))
	w.Arrangement()

	w.HandleChange(core.Change{Kind: core.ChangeStyle, Start: core.LeadingPos(2, 0), End: core.LeadingPos(4, 0)})
	if w.Origin() != originAt(10) {
		t.Errorf("a style change should not move the origin, got %v", w.Origin())
	}
	if w.CacheLen() != 0 || !w.NeedsReflow() {
		t.Error("a style change should rebuild rows")
	}
}

func TestWindowSetModel(t *testing.T) {
	w := newFixedWindow(1000, 20, DefaultOptions())
	w.SetOrigin(originAt(300))
	w.Arrangement()

	w.SetModel(&fixedModel{n: 50, id: uuid.New()}, nil)
	if w.Origin() != originAt(0) || w.CacheLen() != 0 {
		t.Errorf("model swap should reset origin and cache, got %v / %d", w.Origin(), w.CacheLen())
	}
	if got := w.Arrangement().ParagraphCount(); got != 50 {
		t.Errorf("expected 50 paragraphs, got %d", got)
	}
}

func TestWindowContentPadding(t *testing.T) {
	w := newFixedWindow(1000, 20, DefaultOptions())
	w.Arrangement()

	w.SetContentPadding(core.Insets{Top: 3, Bottom: 2})
	if w.Origin() != (core.Origin{Offset: -3}) {
		t.Errorf("expected origin anchored at the padded start, got %v", w.Origin())
	}
	arr := w.Arrangement()
	if arr.Row(0).Y != 3 {
		t.Errorf("expected first row below the padding, got %v", arr.Row(0).Y)
	}
	if arr.ContentHeight() != 20005 {
		t.Errorf("expected content height 20005, got %v", arr.ContentHeight())
	}
}

func TestWindowEmptyModel(t *testing.T) {
	w := newFixedWindow(0, 20, DefaultOptions())
	arr := w.Arrangement()

	if arr.Len() != 0 {
		t.Errorf("expected empty arrangement, got %d rows", arr.Len())
	}
	if w.TextPosAt(10, 10) != core.ZeroPos {
		t.Error("expected zero position")
	}
	if w.CaretInfo(core.ZeroPos) != nil {
		t.Error("expected no caret geometry")
	}
	if w.DocumentEnd() != core.ZeroPos {
		t.Error("expected document end at zero")
	}
	if w.ScrollVerticalPixels(10) {
		t.Error("an empty document cannot scroll")
	}
	if w.VerticalScrollBar().Visible() {
		t.Error("an empty document needs no scroll bar")
	}
}

func TestWindowLogsReflow(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	opts := DefaultOptions()
	opts.Logger = &logger

	w := NewWindow(&fixedModel{n: 10, id: uuid.New()}, fixedFactory(20), opts)
	w.SetSize(100, 300)
	w.Arrangement()

	out := buf.String()
	if !strings.Contains(out, `"component":"viewport"`) || !strings.Contains(out, `"message":"reflow"`) {
		t.Errorf("expected a reflow debug entry, got %s", out)
	}
}

func TestWindowDecorations(t *testing.T) {
	dec := &mockDecorator{width: 3}
	w := newFixedWindow(1000, 20, DefaultOptions())
	w.SetSideDecorator(Left, dec)

	items := w.Decorations(Left)
	if len(items) != 15 {
		t.Fatalf("expected labels for 15 visible rows, got %d", len(items))
	}
	if items[1].Index != 1 || items[1].Y != 20 || items[1].Height != 20 {
		t.Errorf("unexpected decoration %+v", items[1])
	}
	w.Reflow()
	if dec.calls != 15 {
		t.Errorf("labels should be cached, got %d calls", dec.calls)
	}
	if x, width := w.TextAreaX(); x != 3 || width != 97 {
		t.Errorf("unexpected text area (%v, %v)", x, width)
	}
	if x, width := w.DecoratorX(Right); x != 100 || width != 0 {
		t.Errorf("unexpected right strip (%v, %v)", x, width)
	}
	if w.Decorations(Right) != nil {
		t.Error("no right decorator installed")
	}

	w.SetSideDecorator(Left, nil)
	if x, _ := w.TextAreaX(); x != 0 {
		t.Errorf("removing the decorator frees its space, got x %v", x)
	}
}

func TestWindowDecorationsSurviveReflow(t *testing.T) {
	w := newFixedWindow(1000, 20, DefaultOptions())
	w.SetSideDecorator(Left, &mockDecorator{width: 3})

	before := w.Decorations(Left)
	if !w.PageDown() {
		t.Fatal("expected page down")
	}
	after := w.Decorations(Left)
	if after[0].Index != 15 {
		t.Errorf("expected labels from 15 after paging, got %d", after[0].Index)
	}
	if before[0].Index != 0 || before[0].Y != 0 {
		t.Errorf("an earlier result was overwritten: %+v", before[0])
	}
}

// growingDecorator widens with the paragraph count, like a line-number
// gutter.
type growingDecorator struct {
	calls int
}

func (d *growingDecorator) Width(count int) float64 {
	if count >= 100 {
		return 4
	}
	return 3
}

func (d *growingDecorator) Label(index int) string {
	d.calls++
	return "n"
}

func TestWindowDecoratorResize(t *testing.T) {
	m := &fixedModel{n: 10}
	w := NewWindow(m, fixedFactory(20), DefaultOptions())
	w.SetSize(100, 300)
	dec := &growingDecorator{}
	w.SetSideDecorator(Left, dec)
	w.Arrangement()
	if dec.calls != 10 {
		t.Fatalf("expected 10 label calls, got %d", dec.calls)
	}

	m.n = 200
	w.Invalidate(dirty.ReasonModel)
	w.Arrangement()
	if x, width := w.TextAreaX(); x != 4 || width != 96 {
		t.Errorf("expected the text area to shrink, got (%v, %v)", x, width)
	}
	if dec.calls != 25 {
		t.Errorf("a resized decorator relabels its rows, got %d calls", dec.calls)
	}

	w.InvalidateDecorations()
	w.Arrangement()
	if dec.calls != 40 {
		t.Errorf("expected labels rebuilt after invalidation, got %d calls", dec.calls)
	}
}

func TestWindowPreferredSize(t *testing.T) {
	opts := DefaultOptions()
	opts.UseContentHeight = true
	opts.Padding = core.Insets{Top: 5, Bottom: 3}

	short := newFixedWindow(10, 20, opts)
	if w, h := short.PreferredSize(); w != 100 || h != 208 {
		t.Errorf("expected 100x208, got %vx%v", w, h)
	}

	long := newFixedWindow(1000, 20, opts)
	long.SetOrigin(originAt(300))
	if long.ScrollVerticalPixels(100) {
		t.Error("a content-sized window does not scroll")
	}
	if got := long.Origin(); got != (core.Origin{Offset: -5}) {
		t.Errorf("expected the origin pinned at the start, got %v", got)
	}
	if _, h := long.PreferredSize(); h != 20008 {
		t.Errorf("expected estimated height 20008, got %v", h)
	}

	wopts := DefaultOptions()
	wopts.UseContentWidth = true
	tw := newTextWindow(repeat("abcdef", 5), 20, 10, wopts)
	tw.SetSideDecorator(Left, &mockDecorator{width: 2})
	if w, h := tw.PreferredSize(); w != 9 || h != 10 {
		t.Errorf("expected 9x10, got %vx%v", w, h)
	}
}
