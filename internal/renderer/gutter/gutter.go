// Package gutter provides the line-number side decorator.
// The gutter is the strip to the left of the text area that displays
// paragraph numbers and an optional sign column (errors, bookmarks, diff
// markers). Labels are produced per paragraph and cached by the window.
package gutter

// Config holds gutter configuration.
type Config struct {
	// ShowLineNumbers enables paragraph number display.
	ShowLineNumbers bool

	// LineNumberWidth is the fixed width for numbers in cells (0 = auto).
	LineNumberWidth int

	// MinLineNumberWidth is the minimum width for auto-calculated widths.
	MinLineNumberWidth int

	// ShowSigns enables the sign column.
	ShowSigns bool

	// SignColumnWidth is the width of the sign column in cells.
	SignColumnWidth int

	// CellWidth converts cells to viewport pixels.
	CellWidth float64
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		ShowLineNumbers:    true,
		MinLineNumberWidth: 3,
		SignColumnWidth:    2,
		CellWidth:          1,
	}
}

// SignType represents the type of sign to display.
type SignType uint8

const (
	SignNone SignType = iota
	SignError
	SignWarning
	SignInfo
	SignBookmark
	SignAdded
	SignModified
	SignDeleted
)

// Sign marks a paragraph in the sign column.
type Sign struct {
	Index int
	Type  SignType
}

// SignProvider provides signs for the gutter.
type SignProvider interface {
	// SignsFor returns the signs of a paragraph.
	SignsFor(index int) []Sign
}

// Gutter is a viewport side decorator showing paragraph numbers.
// It is not safe for concurrent use.
type Gutter struct {
	config       Config
	digits       int // Number column width for the last count
	signProvider SignProvider
}

// New creates a new gutter with the given configuration.
func New(config Config) *Gutter {
	if config.CellWidth <= 0 {
		config.CellWidth = 1
	}
	g := &Gutter{config: config}
	g.digits = g.numberWidth(1)
	return g
}

// Config returns the current configuration.
func (g *Gutter) Config() Config {
	return g.config
}

// SetSignProvider sets the sign provider. The window's label cache must be
// cleared by the caller when signs change.
func (g *Gutter) SetSignProvider(sp SignProvider) {
	g.signProvider = sp
}

// Cells returns the gutter width in cells for a document of count
// paragraphs, including the trailing separator.
func (g *Gutter) Cells(count int) int {
	width := 0
	if g.config.ShowSigns {
		width += g.config.SignColumnWidth
	}
	if g.config.ShowLineNumbers {
		width += g.numberWidth(count)
	}
	if width > 0 {
		width++
	}
	return width
}

// Width implements viewport.SideDecorator.
func (g *Gutter) Width(count int) float64 {
	g.digits = g.numberWidth(count)
	return float64(g.Cells(count)) * g.config.CellWidth
}

// Label implements viewport.SideDecorator. Numbers are 1-based and right
// aligned to the width computed by the last Width call.
func (g *Gutter) Label(index int) string {
	buf := make([]byte, 0, g.digits+g.config.SignColumnWidth+1)
	if g.config.ShowSigns && g.config.SignColumnWidth > 0 {
		glyph := byte(' ')
		if g.signProvider != nil {
			glyph = signGlyph(highestPriority(g.signProvider.SignsFor(index)).Type)
		}
		buf = append(buf, glyph)
		for i := 1; i < g.config.SignColumnWidth; i++ {
			buf = append(buf, ' ')
		}
	}
	if g.config.ShowLineNumbers {
		buf = append(buf, PadLeft(FormatNumber(index+1), g.digits)...)
	}
	if len(buf) > 0 {
		buf = append(buf, ' ')
	}
	return string(buf)
}

// numberWidth returns the width of the number column.
func (g *Gutter) numberWidth(count int) int {
	if !g.config.ShowLineNumbers {
		return 0
	}
	if g.config.LineNumberWidth > 0 {
		return g.config.LineNumberWidth
	}
	return CalculateWidth(count, g.config.MinLineNumberWidth)
}

// CalculateWidth calculates the minimum width needed to display numbers
// for the given paragraph count.
func CalculateWidth(count, minWidth int) int {
	digits := countDigits(count)
	if digits < minWidth {
		return minWidth
	}
	return digits
}

// countDigits returns the number of digits needed to display a number.
func countDigits(n int) int {
	if n <= 0 {
		return 1
	}
	digits := 0
	for n > 0 {
		digits++
		n /= 10
	}
	return digits
}

// FormatNumber converts a non-negative number to a string.
func FormatNumber(n int) string {
	if n <= 0 {
		return "0"
	}

	var buf [20]byte
	i := len(buf)

	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[i:])
}

// PadLeft pads a string with spaces on the left to the specified width.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := make([]byte, width-len(s))
	for i := range padding {
		padding[i] = ' '
	}
	return string(padding) + s
}

// highestPriority returns the sign with highest priority.
func highestPriority(signs []Sign) Sign {
	if len(signs) == 0 {
		return Sign{Type: SignNone}
	}

	best := signs[0]
	for _, s := range signs[1:] {
		if signPriority(s.Type) > signPriority(best.Type) {
			best = s
		}
	}
	return best
}

// signPriority returns the priority of a sign type (higher = more important).
func signPriority(st SignType) int {
	switch st {
	case SignError:
		return 100
	case SignWarning:
		return 80
	case SignInfo:
		return 70
	case SignBookmark:
		return 60
	case SignDeleted:
		return 50
	case SignModified:
		return 40
	case SignAdded:
		return 30
	default:
		return 0
	}
}

// signGlyph returns the glyph for a sign type.
func signGlyph(st SignType) byte {
	switch st {
	case SignError:
		return 'E'
	case SignWarning:
		return 'W'
	case SignInfo:
		return 'I'
	case SignBookmark:
		return '#'
	case SignAdded:
		return '+'
	case SignModified:
		return '~'
	case SignDeleted:
		return '-'
	default:
		return ' '
	}
}
