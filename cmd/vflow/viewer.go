package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/vflow/internal/config"
	"github.com/dshills/vflow/internal/document"
	"github.com/dshills/vflow/internal/document/sqlstore"
	"github.com/dshills/vflow/internal/logging"
	"github.com/dshills/vflow/internal/renderer"
	"github.com/dshills/vflow/internal/renderer/backend"
	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/gutter"
	"github.com/dshills/vflow/internal/renderer/highlight"
	"github.com/dshills/vflow/internal/renderer/layout"
	"github.com/dshills/vflow/internal/renderer/row"
	"github.com/dshills/vflow/internal/renderer/statusline"
	"github.com/dshills/vflow/internal/renderer/viewport"
	"github.com/dshills/vflow/internal/watcher"
)

// errQuit is returned by event handlers to stop the viewer.
var errQuit = errors.New("quit")

// sampleSize is how much of a file is used to guess its language.
const sampleSize = 4096

// model is the paragraph source shown by the window.
type model interface {
	viewport.Model
	row.Source
}

// viewer couples a document with a window, a painter and a terminal.
type viewer struct {
	cfg  config.Config
	base zerolog.Logger // untagged, for subsystems that add their own component
	log  zerolog.Logger

	term *backend.Terminal
	path string

	// Exactly one of doc and store is set.
	doc         *document.Document
	store       *sqlstore.Store
	unsubscribe func()

	factory  *row.TextFactory
	resolver *highlight.Resolver
	gutter   *gutter.Gutter
	marks    *editMarks
	win      *viewport.Window
	paint    *renderer.Renderer
	status   *statusline.StatusLine
	watch    *watcher.Watcher

	// targetX is the sticky content x for vertical caret moves, or -1.
	targetX float64

	lineNumbers bool
	dragging    bool // scroll thumb held
	selecting   bool // button held in the text area
	modified    bool
	quit        atomic.Bool
}

// newViewer opens path, either directly or through a SQLite store at
// storePath, and wires the viewing stack around it.
func newViewer(cfg config.Config, log zerolog.Logger, term *backend.Terminal, path, storePath string) (*viewer, error) {
	v := &viewer{
		cfg:     cfg,
		base:    log,
		log:     logging.Component(log, "viewer"),
		term:    term,
		path:    path,
		status:  statusline.New(),
		marks:   newEditMarks(),
		targetX: -1,
	}

	src, err := v.open(storePath)
	if err != nil {
		return nil, err
	}

	metrics := row.Metrics{CellWidth: cfg.Layout.CellWidth, LineHeight: cfg.Layout.LineHeight}
	engine := layout.NewEngine(cfg.Layout.TabWidth, cfg.Layout.WrapAtWord)
	v.factory = row.NewTextFactory(src, engine, metrics)

	theme, ok := highlight.LoadTheme(cfg.Highlight.Theme)
	if !ok {
		v.log.Warn().Str("theme", cfg.Highlight.Theme).Msg("unknown theme, using fallback")
	}
	if cfg.Highlight.Enabled {
		v.resolver = v.newResolver(src, theme)
		v.factory.SetStyleResolver(v.resolver)
	}

	v.win = viewport.NewWindow(src, v.factory, windowOptions(cfg, &v.base))
	gcfg := gutter.DefaultConfig()
	gcfg.CellWidth = cfg.Layout.CellWidth
	gcfg.ShowSigns = v.doc != nil
	v.gutter = gutter.New(gcfg)
	v.gutter.SetSignProvider(v.marks)
	if cfg.Viewport.LineNumbers {
		v.lineNumbers = true
		v.win.SetSideDecorator(viewport.Left, v.gutter)
	}
	v.paint = renderer.New(v.win, metrics, renderer.ThemeFrom(theme))

	v.status.SetFilename(v.displayName())
	if v.resolver != nil {
		v.status.SetLanguage(v.resolver.Language())
	}

	if path != "" {
		if err := v.startWatcher(); err != nil {
			v.log.Warn().Err(err).Str("path", path).Msg("file watching disabled")
		}
	}
	v.log.Info().
		Str("path", path).
		Bool("store", v.store != nil).
		Int("paragraphs", src.ParagraphCount()).
		Msg("opened")
	return v, nil
}

// windowOptions maps the viewport settings to window options.
func windowOptions(cfg config.Config, log *zerolog.Logger) viewport.Options {
	vc := cfg.Viewport
	return viewport.Options{
		MarginFactor:  vc.MarginFactor,
		MinMarginRows: vc.MinMarginRows,
		CacheSize:     vc.CacheSize,
		WrapText:      vc.WrapText,
		Padding: core.Insets{
			Top:    vc.PaddingTop,
			Right:  vc.PaddingRight,
			Bottom: vc.PaddingBottom,
			Left:   vc.PaddingLeft,
		},
		HorizontalGuard:           vc.HorizontalGuard,
		MinViewportWidth:          vc.MinViewportWidth,
		HighlightCurrentParagraph: vc.HighlightCurrentParagraph,
		CaretMargins:              viewport.DefaultMargins(),
		Logger:                    log,
	}
}

func (v *viewer) open(storePath string) (model, error) {
	if storePath == "" {
		doc, err := v.loadDocument()
		if err != nil {
			return nil, err
		}
		v.doc = doc
		v.unsubscribe = doc.OnChange(v.onChange)
		return doc, nil
	}

	store, err := sqlstore.Open(storePath,
		sqlstore.WithLogger(v.base),
		sqlstore.WithCacheSize(v.cfg.Viewport.CacheSize),
	)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	v.store = store
	if v.path != "" {
		if err := v.importFile(); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

func (v *viewer) loadDocument() (*document.Document, error) {
	if v.path == "" {
		return document.New(), nil
	}
	doc, err := document.LoadFile(v.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document.New(), nil
		}
		return nil, fmt.Errorf("load %s: %w", v.path, err)
	}
	return doc, nil
}

func (v *viewer) importFile() error {
	f, err := os.Open(v.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", v.path, err)
	}
	defer f.Close()
	n, err := v.store.Import(context.Background(), f)
	if err != nil {
		return fmt.Errorf("import %s: %w", v.path, err)
	}
	v.log.Debug().Int("paragraphs", n).Str("path", v.path).Msg("imported")
	return nil
}

func (v *viewer) newResolver(src model, theme *highlight.Theme) *highlight.Resolver {
	var r *highlight.Resolver
	if lang := v.cfg.Highlight.Language; lang != "" {
		var ok bool
		if r, ok = highlight.NewResolver(lang, theme); !ok {
			v.log.Warn().Str("language", lang).Msg("unknown language")
		}
	} else {
		r = highlight.ForFile(v.path, sample(src), theme)
	}
	r.SetContext(src, highlight.DefaultContextLines)
	return r
}

// sample joins leading paragraphs for content-based language detection.
func sample(src row.Source) string {
	var buf bytes.Buffer
	for i := 0; i < src.ParagraphCount() && buf.Len() < sampleSize; i++ {
		buf.WriteString(src.ParagraphText(i))
		buf.WriteByte('\n')
	}
	return buf.String()
}

func (v *viewer) displayName() string {
	if v.path == "" {
		return ""
	}
	return filepath.Base(v.path)
}

func (v *viewer) startWatcher() error {
	w, err := watcher.New(func(e watcher.Event) {
		if err := v.term.PostEvent(tcell.NewEventInterrupt(e)); err != nil {
			v.log.Debug().Err(err).Msg("dropped file event")
		}
	}, watcher.WithLogger(v.base))
	if err != nil {
		return err
	}
	if err := w.Watch(v.path); err != nil {
		w.Close()
		return err
	}
	v.watch = w
	return nil
}

func (v *viewer) onChange(c core.Change) {
	v.marks.Apply(c)
	v.win.HandleChange(c)
}

// Quit asks the event loop to stop. It is safe to call from any goroutine.
func (v *viewer) Quit() {
	v.quit.Store(true)
	v.term.PostEvent(tcell.NewEventInterrupt(nil)) //nolint:errcheck // queue full means the loop is awake
}

// Close releases the watcher and the store.
func (v *viewer) Close() error {
	var errs []error
	if v.watch != nil {
		errs = append(errs, v.watch.Close())
	}
	if v.unsubscribe != nil {
		v.unsubscribe()
	}
	if v.store != nil {
		s := v.store.CacheStats()
		v.log.Debug().
			Uint64("hits", s.Hits).
			Uint64("misses", s.Misses).
			Msg("store cache")
		errs = append(errs, v.store.Close())
	}
	st := v.win.Stats()
	v.log.Info().
		Uint64("reflows", st.Reflows).
		Uint64("frames", v.paint.Frames()).
		Msg("closed")
	return errors.Join(errs...)
}

// Run draws the window and processes events until quit.
func (v *viewer) Run() error {
	v.resize()
	v.draw()
	for !v.quit.Load() {
		ev := v.term.PollEvent()
		if ev == nil {
			return nil
		}
		if err := v.handleEvent(ev); err != nil {
			return err
		}
		if !v.quit.Load() {
			v.draw()
		}
	}
	return nil
}

func (v *viewer) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.resize()
		v.term.Sync()
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventInterrupt:
		if e, ok := ev.Data().(watcher.Event); ok {
			v.reload(e)
		}
	}
	return nil
}

// resize gives the window the whole screen except the status row and the
// scroll bar column.
func (v *viewer) resize() {
	w, h := v.term.Size()
	m := v.factory.Metrics()
	v.win.SetSize(float64(max(0, w-1))*m.CellWidth, float64(max(0, h-1))*m.LineHeight)
}

func (v *viewer) draw() {
	v.paint.Draw(v.term)

	_, h := v.term.Size()
	mode := "NOWRAP"
	if v.win.WrapText() {
		mode = "WRAP"
	}
	if v.modified {
		mode += " +"
	}
	v.status.SetMode(mode)
	v.status.SetPosition(v.win.Caret(), v.win.Model().ParagraphCount())
	v.status.SetScroll(v.win.VerticalScrollBar().Value())
	v.status.Render(v.term, h-1)
	v.term.Show()
}

// reload refreshes the view after the file changed on disk.
func (v *viewer) reload(e watcher.Event) {
	v.log.Debug().Str("path", e.Path).Str("op", e.Op.String()).Msg("file changed")
	if (e.Op.Has(watcher.OpRemove) || e.Op.Has(watcher.OpRename)) && !e.Op.Has(watcher.OpCreate) {
		v.status.SetMessage("file removed on disk", statusline.MessageWarning)
		return
	}

	caret, origin := v.win.Caret(), v.win.Origin()
	var src model
	if v.store != nil {
		if err := v.importFile(); err != nil {
			v.status.SetMessage(err.Error(), statusline.MessageError)
			return
		}
		src = v.store
	} else {
		doc, err := v.loadDocument()
		if err != nil {
			v.status.SetMessage(err.Error(), statusline.MessageError)
			return
		}
		if doc.Text() == v.doc.Text() {
			return
		}
		if v.modified {
			v.status.SetMessage("file changed on disk, unsaved edits kept", statusline.MessageWarning)
			return
		}
		v.unsubscribe()
		v.marks.Reset()
		v.doc = doc
		v.unsubscribe = doc.OnChange(v.onChange)
		src = doc
	}

	v.factory.SetSource(src)
	if v.resolver != nil {
		v.resolver.SetContext(src, highlight.DefaultContextLines)
	}
	v.win.SetModel(src, v.factory)
	v.win.SetOrigin(origin)
	v.win.SetCaret(v.win.ClampPos(caret))
	v.paint.ClearSelection()
	v.status.SetMessage("reloaded", statusline.MessageInfo)
}

// save writes the document back to its file.
func (v *viewer) save() {
	if v.doc == nil {
		v.status.SetMessage("store is read only", statusline.MessageWarning)
		return
	}
	if v.path == "" {
		v.status.SetMessage("no file name", statusline.MessageError)
		return
	}
	var buf bytes.Buffer
	if _, err := v.doc.WriteTo(&buf); err != nil {
		v.status.SetMessage(err.Error(), statusline.MessageError)
		return
	}
	if err := os.WriteFile(v.path, buf.Bytes(), 0o644); err != nil {
		v.status.SetMessage(err.Error(), statusline.MessageError)
		return
	}
	v.modified = false
	v.marks.Reset()
	v.win.InvalidateDecorations()
	v.log.Info().Str("path", v.path).Int("bytes", buf.Len()).Msg("saved")
	v.status.SetMessage(fmt.Sprintf("wrote %d bytes", buf.Len()), statusline.MessageInfo)
}
