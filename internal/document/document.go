// Package document provides the in-memory paragraph model shown by the
// viewport.
//
// A Document is a list of paragraphs separated by line breaks. Edits are
// expressed in paragraph/offset positions and every edit is reported to
// listeners as a core.Change, which the viewport consumes. Offsets are rune
// indices within a paragraph.
//
// All methods are thread-safe. Listeners are called after the lock is
// released, on the editing goroutine.
package document

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dshills/vflow/internal/renderer/core"
)

// PageBreak is the paragraph text shown as an embedded page-break row.
const PageBreak = "\f"

// Listener receives change notifications.
type Listener func(core.Change)

// Document is an editable list of paragraphs.
type Document struct {
	mu         sync.RWMutex
	id         uuid.UUID
	paras      []string
	lineEnding LineEnding
	readOnly   bool
	revision   uint64

	listeners map[int]Listener
	nextID    int
}

// Option configures a Document.
type Option func(*Document)

// WithID sets the document identity.
func WithID(id uuid.UUID) Option {
	return func(d *Document) {
		d.id = id
	}
}

// WithLineEnding sets the line ending used by WriteTo.
func WithLineEnding(le LineEnding) Option {
	return func(d *Document) {
		d.lineEnding = le
	}
}

// WithReadOnly rejects all edits.
func WithReadOnly() Option {
	return func(d *Document) {
		d.readOnly = true
	}
}

// New creates a document with a single empty paragraph.
func New(opts ...Option) *Document {
	d := &Document{
		id:        uuid.New(),
		paras:     []string{""},
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FromString creates a document from text. The line ending is detected
// before the options are applied.
func FromString(s string, opts ...Option) *Document {
	d := New(append([]Option{WithLineEnding(DetectLineEnding(s))}, opts...)...)
	d.paras = splitParagraphs(s)
	return d
}

// Load reads a document from r.
func Load(r io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if !utf8.Valid(data) {
		data = []byte(strings.ToValidUTF8(string(data), string(utf8.RuneError)))
	}
	return FromString(string(data), opts...), nil
}

// LoadFile reads a document from a file.
func LoadFile(path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return Load(f, opts...)
}

// ID returns the document identity.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Revision returns a counter incremented by every edit.
func (d *Document) Revision() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// LineEnding returns the line ending used by WriteTo.
func (d *Document) LineEnding() LineEnding {
	return d.lineEnding
}

// ParagraphCount returns the number of paragraphs. It is at least 1.
func (d *Document) ParagraphCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.paras)
}

// ParagraphText returns the text of a paragraph, or "" if out of range.
func (d *Document) ParagraphText(index int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if index < 0 || index >= len(d.paras) {
		return ""
	}
	return d.paras[index]
}

// ParagraphLength returns the length of a paragraph in runes.
func (d *Document) ParagraphLength(index int) int {
	return utf8.RuneCountInString(d.ParagraphText(index))
}

// Embedded reports page-break paragraphs as one-line embedded rows.
func (d *Document) Embedded(index int) (label string, height float64, ok bool) {
	if d.ParagraphText(index) == PageBreak {
		return "page break", 1, true
	}
	return "", 0, false
}

// Text returns the full content joined with "\n".
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return strings.Join(d.paras, "\n")
}

// WriteTo writes the content using the document's line ending.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	d.mu.RLock()
	text := strings.Join(d.paras, d.lineEnding.Sequence())
	d.mu.RUnlock()
	n, err := io.WriteString(w, text)
	return int64(n), err
}

// End returns the position after the last character.
func (d *Document) End() core.TextPos {
	d.mu.RLock()
	defer d.mu.RUnlock()
	last := len(d.paras) - 1
	return core.LeadingPos(last, utf8.RuneCountInString(d.paras[last]))
}

// OnChange registers a listener and returns a function removing it.
func (d *Document) OnChange(l Listener) (remove func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// Insert inserts text at pos and returns the position after the inserted
// text.
func (d *Document) Insert(pos core.TextPos, text string) (core.TextPos, error) {
	return d.Replace(pos, pos, text)
}

// Delete removes the text between start and end.
func (d *Document) Delete(start, end core.TextPos) error {
	_, err := d.Replace(start, end, "")
	return err
}

// Replace replaces the text between start and end with text and returns the
// position after the inserted text. Listeners receive a single change.
func (d *Document) Replace(start, end core.TextPos, text string) (core.TextPos, error) {
	d.mu.Lock()
	if d.readOnly {
		d.mu.Unlock()
		return start, ErrReadOnly
	}
	if end.Before(start) {
		d.mu.Unlock()
		return start, ErrRangeInvalid
	}
	if err := d.validate(start); err != nil {
		d.mu.Unlock()
		return start, err
	}
	if err := d.validate(end); err != nil {
		d.mu.Unlock()
		return start, err
	}

	head := []rune(d.paras[start.Index])[:start.Offset]
	tail := []rune(d.paras[end.Index])[end.Offset:]
	parts := splitParagraphs(text)
	last := len(parts) - 1
	added := utf8.RuneCountInString(parts[0])
	addedBottom := utf8.RuneCountInString(parts[last])

	repl := parts
	repl[0] = string(head) + repl[0]
	repl[last] += string(tail)

	paras := make([]string, 0, len(d.paras)-(end.Index-start.Index)+last)
	paras = append(paras, d.paras[:start.Index]...)
	paras = append(paras, repl...)
	paras = append(paras, d.paras[end.Index+1:]...)
	d.paras = paras
	d.revision++

	change := core.Change{
		Kind:          core.ChangeEdit,
		Start:         start,
		End:           end,
		CharsAddedTop: added,
		LinesAdded:    last,
	}
	after := core.LeadingPos(start.Index, start.Offset+added)
	if last > 0 {
		change.CharsAddedBottom = addedBottom
		after = core.LeadingPos(start.Index+last, addedBottom)
	}
	listeners := d.snapshotListeners()
	d.mu.Unlock()

	for _, l := range listeners {
		l(change)
	}
	return after, nil
}

// NotifyStyleChange reports a style-only change over a range, for example
// after the highlighting theme changed.
func (d *Document) NotifyStyleChange(start, end core.TextPos) {
	d.mu.RLock()
	listeners := d.snapshotListeners()
	d.mu.RUnlock()

	c := core.Change{Kind: core.ChangeStyle, Start: start, End: end}
	for _, l := range listeners {
		l(c)
	}
}

// validate checks pos against the current paragraphs. Caller holds the
// lock.
func (d *Document) validate(pos core.TextPos) error {
	if pos.Index < 0 || pos.Index >= len(d.paras) {
		return fmt.Errorf("%w: paragraph %d of %d", ErrPositionOutOfRange, pos.Index, len(d.paras))
	}
	if n := utf8.RuneCountInString(d.paras[pos.Index]); pos.Offset < 0 || pos.Offset > n {
		return fmt.Errorf("%w: offset %d in paragraph %d of length %d", ErrPositionOutOfRange, pos.Offset, pos.Index, n)
	}
	return nil
}

func (d *Document) snapshotListeners() []Listener {
	if len(d.listeners) == 0 {
		return nil
	}
	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = d.listeners[id]
	}
	return out
}
