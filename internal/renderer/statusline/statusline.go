// Package statusline draws the one-line status bar of the viewer.
package statusline

import (
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/vflow/internal/renderer"
	"github.com/dshills/vflow/internal/renderer/core"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// StatusLine renders the bottom status line.
type StatusLine struct {
	filename string
	mode     string // e.g. "WRAP" or "NOWRAP"
	language string

	paragraph  int // 0-based caret paragraph
	column     int // 0-based caret offset
	paragraphs int
	scroll     float64 // vertical scroll bar value in [0, 1]

	message     string
	messageType MessageType

	barStyle  core.Style
	modeStyle core.Style
}

// New creates a status line.
func New() *StatusLine {
	return &StatusLine{
		barStyle: core.Style{
			Foreground: core.ColorFromRGB(255, 255, 255),
			Background: core.ColorFromRGB(68, 68, 68),
		},
		modeStyle: core.Style{
			Foreground: core.ColorFromRGB(0, 0, 0),
			Background: core.ColorFromRGB(102, 153, 204),
			Attributes: core.AttrBold,
		},
	}
}

// SetFilename updates the displayed filename.
func (s *StatusLine) SetFilename(filename string) {
	s.filename = filename
}

// SetMode updates the mode indicator.
func (s *StatusLine) SetMode(mode string) {
	s.mode = mode
}

// SetLanguage updates the highlighting language shown on the right.
func (s *StatusLine) SetLanguage(lang string) {
	s.language = lang
}

// SetPosition updates the caret position and paragraph count.
func (s *StatusLine) SetPosition(pos core.TextPos, paragraphs int) {
	s.paragraph = pos.Index
	s.column = pos.Offset
	s.paragraphs = paragraphs
}

// SetScroll updates the scroll position, a scroll bar value in [0, 1].
func (s *StatusLine) SetScroll(value float64) {
	s.scroll = value
}

// SetMessage displays a status message instead of the bar.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Render draws the status line on row y.
func (s *StatusLine) Render(surf renderer.Surface, y int) {
	width, _ := surf.Size()
	if s.message != "" {
		s.renderMessage(surf, y, width)
		return
	}
	surf.Fill(0, y, width, 1, ' ', s.barStyle)

	col := 0
	if s.mode != "" {
		col = put(surf, col, y, width, " "+s.mode+" ", s.modeStyle)
		col = put(surf, col, y, width, " ", s.barStyle)
	}

	name := s.filename
	if name == "" {
		name = "[No Name]"
	}
	pos := s.formatPosition()
	if s.language != "" {
		pos = s.language + " | " + pos
	}
	posStart := width - runewidth.StringWidth(pos) - 1

	put(surf, col, y, posStart-1, name, s.barStyle)
	if posStart > col {
		put(surf, posStart, y, width, pos, s.barStyle)
	}
}

func (s *StatusLine) renderMessage(surf renderer.Surface, y, width int) {
	st := core.DefaultStyle()
	switch s.messageType {
	case MessageError:
		st = st.WithForeground(core.ColorFromRGB(255, 85, 85))
		st.Attributes |= core.AttrBold
	case MessageWarning:
		st = st.WithForeground(core.ColorFromRGB(255, 204, 0))
	}
	surf.Fill(0, y, width, 1, ' ', st)
	put(surf, 0, y, width, s.message, st)
}

// formatPosition formats the position info, e.g. "¶ 12/300, Col 5 | 4%".
func (s *StatusLine) formatPosition() string {
	result := "¶ " + strconv.Itoa(s.paragraph+1) + "/" + strconv.Itoa(max(s.paragraphs, 1)) +
		", Col " + strconv.Itoa(s.column+1)

	switch {
	case s.scroll <= 0:
		result += " | Top"
	case s.scroll >= 1:
		result += " | Bot"
	default:
		result += " | " + strconv.Itoa(int(s.scroll*100)) + "%"
	}
	return result
}

// put draws text from column x, stopping before limit, and returns the
// column after the last cell drawn.
func put(surf renderer.Surface, x, y, limit int, text string, st core.Style) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > limit {
			break
		}
		surf.SetCluster(x, y, string(r), st)
		x += w
	}
	return x
}
