// Package viewport implements the window controller of the virtualized
// paragraph view.
//
// A Window owns the row cache and the current arrangement. Invalidation
// sources (resize, scrolling, wrap toggle, model swap, edits) push named
// reasons into a queue; the window drains the queue and runs a single
// reflow the next time its arrangement is needed, so invalidations that
// arrive before a frame coalesce into one pass.
//
// The window is not safe for concurrent use. All calls are expected on the
// host's event loop.
package viewport

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/vflow/internal/renderer/arrangement"
	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/dirty"
	"github.com/dshills/vflow/internal/renderer/row"
	"github.com/dshills/vflow/internal/renderer/rowcache"
)

// Model is the document as seen by the window.
type Model interface {
	// ParagraphCount returns the number of paragraphs.
	ParagraphCount() int

	// ParagraphLength returns the length of a paragraph in runes.
	ParagraphLength(index int) int
}

// Identified is optionally implemented by models with a stable identity.
type Identified interface {
	ID() uuid.UUID
}

// Options configures a Window.
type Options struct {
	// MarginFactor is the size of each pre-materialized margin, in
	// viewport heights. Values <= 1 use the default.
	MarginFactor float64

	// MinMarginRows is the minimum number of rows in each margin.
	MinMarginRows int

	// CacheSize is the row cache capacity.
	CacheSize int

	// WrapText wraps paragraphs at the viewport width.
	WrapText bool

	// Padding is the content padding.
	Padding core.Insets

	// HorizontalGuard is extra horizontal scroll room past the widest row,
	// so the caret stays visible at the end of a line.
	HorizontalGuard float64

	// MinViewportWidth is the smallest width wrapped rows are laid out at.
	MinViewportWidth float64

	// HighlightCurrentParagraph enables the current paragraph shape.
	HighlightCurrentParagraph bool

	// CaretMargins keep the caret away from the viewport edges when
	// scrolling it into view.
	CaretMargins MarginConfig

	// UseContentHeight sizes the window to its content: the origin stays at
	// the document start and PreferredSize reports the content height.
	UseContentHeight bool

	// UseContentWidth makes PreferredSize report the content width.
	UseContentWidth bool

	// Logger receives debug output. The zero value logs nothing.
	Logger *zerolog.Logger
}

// DefaultOptions returns the default window options.
func DefaultOptions() Options {
	return Options{
		MarginFactor:     arrangement.DefaultMarginFactor,
		MinMarginRows:    arrangement.DefaultMinMarginRows,
		CacheSize:        rowcache.DefaultCapacity,
		HorizontalGuard:  1,
		MinViewportWidth: 1,
		CaretMargins:     NoMargins(),
	}
}

// Window is the controller of the sliding-window view.
type Window struct {
	model   Model
	factory row.Factory
	opts    Options
	log     zerolog.Logger

	// Full viewport size, including side decorators.
	width  float64
	height float64

	origin        core.Origin
	pendingOrigin *core.Origin
	offsetX       float64
	wrap          bool
	padding       core.Insets

	cache *rowcache.Cache[*row.Row]
	arr   *arrangement.Arrangement
	queue *dirty.Queue

	inReflow bool
	reflows  uint64

	vbar               *ScrollBar
	hbar               *ScrollBar
	handleScrollEvents bool

	caret core.TextPos

	left  *decoratorState
	right *decoratorState
}

// NewWindow creates a window over model, building rows with factory.
// The window starts at the document start and has no size until SetSize
// is called.
func NewWindow(model Model, factory row.Factory, opts Options) *Window {
	def := DefaultOptions()
	if opts.MarginFactor <= 1 {
		opts.MarginFactor = def.MarginFactor
	}
	if opts.MinMarginRows < 0 {
		opts.MinMarginRows = def.MinMarginRows
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = def.CacheSize
	}
	if opts.MinViewportWidth <= 0 {
		opts.MinViewportWidth = def.MinViewportWidth
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "viewport").Logger()
	}

	cacheCfg := rowcache.DefaultConfig()
	cacheCfg.Capacity = opts.CacheSize

	w := &Window{
		model:              model,
		factory:            factory,
		opts:               opts,
		log:                log,
		wrap:               opts.WrapText,
		padding:            opts.Padding,
		origin:             core.Origin{Offset: -opts.Padding.Top},
		cache:              rowcache.New[*row.Row](cacheCfg),
		queue:              dirty.NewQueue(),
		handleScrollEvents: true,
		caret:              core.ZeroPos,
	}
	w.arr = arrangement.Empty(0, 0, opts.Padding)
	w.vbar = newScrollBar(Vertical, w.onVerticalBarChange)
	w.hbar = newScrollBar(Horizontal, w.onHorizontalBarChange)
	w.queue.Push(dirty.ReasonModel)
	return w
}

// Model returns the current model.
func (w *Window) Model() Model { return w.model }

// Width returns the viewport width.
func (w *Window) Width() float64 { return w.width }

// Height returns the viewport height.
func (w *Window) Height() float64 { return w.height }

// Origin returns the current origin.
func (w *Window) Origin() core.Origin { return w.origin }

// OffsetX returns the horizontal scroll offset.
func (w *Window) OffsetX() float64 { return w.offsetX }

// WrapText returns true if paragraphs wrap at the viewport width.
func (w *Window) WrapText() bool { return w.wrap }

// Padding returns the content padding.
func (w *Window) Padding() core.Insets { return w.padding }

// VerticalScrollBar returns the vertical scroll bar model.
func (w *Window) VerticalScrollBar() *ScrollBar { return w.vbar }

// HorizontalScrollBar returns the horizontal scroll bar model.
func (w *Window) HorizontalScrollBar() *ScrollBar { return w.hbar }

// Caret returns the caret position used for the current paragraph
// highlight and ScrollCaretToVisible.
func (w *Window) Caret() core.TextPos { return w.caret }

// SetCaret sets the caret position.
func (w *Window) SetCaret(pos core.TextPos) {
	w.caret = pos
}

// SetSize sets the viewport size. Negative dimensions are treated as zero.
func (w *Window) SetSize(width, height float64) {
	width = math.Max(0, width)
	height = math.Max(0, height)
	if width == w.width && height == w.height {
		return
	}
	w.width = width
	w.height = height
	w.queue.Push(dirty.ReasonResize)
}

// SetWrapText toggles wrapping. Wrapped text has no horizontal scroll.
func (w *Window) SetWrapText(wrap bool) {
	if wrap == w.wrap {
		return
	}
	w.wrap = wrap
	if wrap {
		w.offsetX = 0
	}
	w.queue.Push(dirty.ReasonWrap)
}

// SetContentPadding sets the content padding. A window resting at the
// document start stays anchored at the new start.
func (w *Window) SetContentPadding(p core.Insets) {
	if p == w.padding {
		return
	}
	if w.origin.Index == 0 && w.origin.Offset <= -w.padding.Top {
		w.origin.Offset = -p.Top
	}
	w.padding = p
	w.queue.Push(dirty.ReasonPadding)
}

// SetModel swaps the document. The row cache is cleared and the window
// returns to the document start.
func (w *Window) SetModel(model Model, factory row.Factory) {
	w.model = model
	if factory != nil {
		w.factory = factory
	}
	w.cache.Clear()
	w.clearDecoratorCaches()
	w.origin = core.Origin{Offset: -w.padding.Top}
	w.pendingOrigin = nil
	w.offsetX = 0
	w.caret = core.ZeroPos
	ev := w.log.Debug().Int("paragraphs", w.paragraphCount())
	if id, ok := model.(Identified); ok {
		ev = ev.Str("model", id.ID().String())
	}
	ev.Msg("model swapped")
	w.queue.Push(dirty.ReasonModel)
}

// SetOrigin moves the window. During a reflow the change is deferred: it
// is not seen by the running pass and is applied without scheduling
// another one.
func (w *Window) SetOrigin(o core.Origin) {
	if w.opts.UseContentHeight {
		return
	}
	if w.inReflow {
		w.pendingOrigin = &o
		return
	}
	o = arrangement.NormalizeOrigin(o, w.paragraphCount(), w.padding.Top)
	if o == w.origin {
		return
	}
	w.origin = o
	w.queue.Push(dirty.ReasonOrigin)
}

// Invalidate schedules a reflow for the given reason.
func (w *Window) Invalidate(r dirty.Reason) {
	w.queue.Push(r)
}

// NeedsReflow returns true if an invalidation is pending.
func (w *Window) NeedsReflow() bool {
	return w.queue.Pending()
}

// Arrangement returns the current arrangement, reflowing first if an
// invalidation is pending.
func (w *Window) Arrangement() *arrangement.Arrangement {
	if w.queue.Pending() && !w.inReflow {
		w.Reflow()
	}
	return w.arr
}

func (w *Window) paragraphCount() int {
	if w.model == nil {
		return 0
	}
	return w.model.ParagraphCount()
}

// textWidth returns the width of the text area between the decorators.
func (w *Window) textWidth() float64 {
	return math.Max(0, w.width-w.left.width()-w.right.width())
}

// layoutWidth returns the width rows are measured at.
func (w *Window) layoutWidth() float64 {
	if !w.wrap {
		return 0
	}
	return math.Max(w.opts.MinViewportWidth, w.textWidth()-w.padding.Left-w.padding.Right)
}

// prepareRow returns the cached row for a paragraph, building it on a miss.
func (w *Window) prepareRow(index int) *row.Row {
	if r, ok := w.cache.Get(index); ok {
		return r
	}
	r := row.New(index, w.factory.Content(index))
	w.cache.Put(index, r)
	return r
}

// Reflow drains pending invalidations and rebuilds the arrangement. A call
// made while a reflow is running returns immediately.
func (w *Window) Reflow() {
	if w.inReflow {
		return
	}
	w.inReflow = true
	defer func() { w.inReflow = false }()

	start := time.Now()
	reasons := w.queue.Drain()

	if w.decoratorsResized() {
		reasons = reasons.With(dirty.ReasonDecorator)
	}

	p := arrangement.Params{
		Origin:            w.origin,
		Count:             w.paragraphCount(),
		Width:             w.textWidth(),
		Height:            w.height,
		Padding:           w.padding,
		LayoutWidth:       w.layoutWidth(),
		MarginFactor:      w.opts.MarginFactor,
		MinMarginRows:     w.opts.MinMarginRows,
		CorrectWhitespace: !w.opts.UseContentHeight,
	}
	var arr *arrangement.Arrangement
	if w.factory == nil {
		arr = arrangement.Empty(p.Width, p.Height, p.Padding)
	} else {
		arr = arrangement.Build(p, arrangement.RowSourceFunc(w.prepareRow))
	}
	w.arr = arr
	w.origin = arr.Origin()

	w.clampHorizontal()
	w.updateScrollBars()
	w.layoutDecorators()
	w.reflows++

	if w.pendingOrigin != nil {
		w.origin = arrangement.NormalizeOrigin(*w.pendingOrigin, p.Count, w.padding.Top)
		w.pendingOrigin = nil
	}

	w.log.Debug().
		Str("reasons", reasons.String()).
		Str("origin", arr.Origin().String()).
		Int("top", arr.TopCount()).
		Int("visible", arr.VisibleCount()).
		Int("bottom", arr.BottomCount()).
		Int("cached", w.cache.Len()).
		Dur("took", time.Since(start)).
		Msg("reflow")
}

// contentWidth returns the horizontal scroll range.
func (w *Window) contentWidth() float64 {
	if w.wrap {
		return w.textWidth()
	}
	return w.arr.UnwrappedWidth() + w.padding.Left + w.padding.Right + w.opts.HorizontalGuard
}

// PreferredSize returns the size the window asks for. With UseContentHeight
// the height is the content height, exact once the whole document is
// materialized and estimated otherwise; with UseContentWidth the width is
// the content width plus the decorators. Other dimensions are the current
// size.
func (w *Window) PreferredSize() (width, height float64) {
	arr := w.Arrangement()
	width, height = w.width, w.height
	if w.opts.UseContentHeight {
		if arr.AtStart() && arr.AtEnd() {
			height = arr.BottomEdge()
		} else {
			height = arr.ContentHeight()
		}
	}
	if w.opts.UseContentWidth {
		width = w.contentWidth() + w.left.width() + w.right.width()
	}
	return width, height
}

// maxOffsetX returns the largest horizontal offset.
func (w *Window) maxOffsetX() float64 {
	if w.wrap {
		return 0
	}
	return math.Max(0, w.contentWidth()-w.textWidth())
}

// clampHorizontal keeps the content's right edge from leaving a gap inside
// the viewport after the width or content changed.
func (w *Window) clampHorizontal() {
	if m := w.maxOffsetX(); w.offsetX > m {
		w.offsetX = m
	}
	if w.offsetX < 0 {
		w.offsetX = 0
	}
}

// Stats returns window statistics.
func (w *Window) Stats() Stats {
	return Stats{
		Reflows: w.reflows,
		Rows:    w.arr.Len(),
		Cache:   w.cache.Stats(),
		Queue:   w.queue.Stats(),
	}
}

// Stats holds window statistics.
type Stats struct {
	Reflows uint64
	Rows    int
	Cache   rowcache.Stats
	Queue   dirty.QueueStats
}

// CacheLen returns the number of cached rows.
func (w *Window) CacheLen() int {
	return w.cache.Len()
}
