package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/statusline"
	"github.com/dshills/vflow/internal/renderer/viewport"
)

// Wheel steps in cells.
const (
	wheelLines   = 3
	wheelColumns = 4
)

func (v *viewer) handleKey(ev *tcell.EventKey) error {
	v.status.ClearMessage()
	extend := ev.Modifiers()&tcell.ModShift != 0
	sticky := false

	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyCtrlC:
		return errQuit
	case tcell.KeyEscape:
		v.paint.ClearSelection()

	case tcell.KeyUp:
		v.moveVertically(-1, extend)
		sticky = true
	case tcell.KeyDown:
		v.moveVertically(1, extend)
		sticky = true
	case tcell.KeyPgUp:
		v.page(-1, extend)
		sticky = true
	case tcell.KeyPgDn:
		v.page(1, extend)
		sticky = true
	case tcell.KeyLeft:
		v.moveTo(v.prevPos(v.win.Caret()), extend)
	case tcell.KeyRight:
		v.moveTo(v.nextPos(v.win.Caret()), extend)
	case tcell.KeyHome, tcell.KeyEnd:
		v.win.ScrollCaretToVisible()
		if pos, ok := v.win.LineEdge(v.win.Caret(), ev.Key() == tcell.KeyHome); ok {
			v.moveTo(pos, extend)
		}
	case tcell.KeyCtrlT:
		v.win.ScrollVerticalFraction(0)
		v.moveTo(core.ZeroPos, extend)
	case tcell.KeyCtrlB:
		v.win.ScrollVerticalFraction(1)
		v.moveTo(v.win.DocumentEnd(), extend)

	case tcell.KeyCtrlW:
		v.win.SetWrapText(!v.win.WrapText())
		v.win.ScrollCaretToVisible()
	case tcell.KeyCtrlL:
		v.toggleLineNumbers()
	case tcell.KeyCtrlS:
		v.save()

	case tcell.KeyEnter:
		v.insert("\n")
	case tcell.KeyTab:
		v.insert("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		v.deleteBackward()
	case tcell.KeyDelete:
		v.deleteForward()
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl) == 0 {
			v.insert(string(ev.Rune()))
		}
	}

	if !sticky {
		v.targetX = -1
	}
	return nil
}

func (v *viewer) toggleLineNumbers() {
	v.lineNumbers = !v.lineNumbers
	if v.lineNumbers {
		v.win.SetSideDecorator(viewport.Left, v.gutter)
		return
	}
	v.win.SetSideDecorator(viewport.Left, nil)
}

// moveTo places the caret at pos and scrolls it into view. With extend the
// selection grows from the old caret; otherwise it is cleared.
func (v *viewer) moveTo(pos core.TextPos, extend bool) {
	if extend {
		if _, ok := v.paint.Selection(); !ok {
			v.paint.SetSelection(v.win.Caret())
		}
	} else {
		v.paint.ClearSelection()
	}
	v.win.SetCaret(v.win.ClampPos(pos))
	v.win.ScrollCaretToVisible()
}

// moveVertically moves the caret by visual lines, keeping its column
// across consecutive moves.
func (v *viewer) moveVertically(lines int, extend bool) {
	v.win.ScrollCaretToVisible()
	caret := v.win.Caret()
	if v.targetX < 0 {
		ci := v.win.CaretInfo(caret)
		if ci == nil {
			return
		}
		v.targetX = ci.MinX + v.win.OffsetX()
	}
	pos, ok := v.win.MoveVertically(caret, v.targetX-v.win.OffsetX(), lines)
	if !ok {
		return
	}
	v.moveTo(pos, extend)
}

// page scrolls one screen and keeps the caret at the same viewport row.
func (v *viewer) page(dir int, extend bool) {
	v.win.ScrollCaretToVisible()
	ci := v.win.CaretInfo(v.win.Caret())
	if ci == nil {
		return
	}
	if v.targetX < 0 {
		v.targetX = ci.MinX + v.win.OffsetX()
	}
	y := ci.MinY + ci.Height()/2

	moved := v.win.PageDown
	edge := v.win.DocumentEnd()
	if dir < 0 {
		moved = v.win.PageUp
		edge = core.ZeroPos
	}
	if !moved() {
		v.moveTo(edge, extend)
		return
	}
	v.moveTo(v.win.TextPosAt(v.targetX-v.win.OffsetX(), y), extend)
}

func (v *viewer) prevPos(pos core.TextPos) core.TextPos {
	switch {
	case pos.Offset > 0:
		return core.LeadingPos(pos.Index, pos.Offset-1)
	case pos.Index > 0:
		return core.LeadingPos(pos.Index-1, v.win.Model().ParagraphLength(pos.Index-1))
	}
	return core.ZeroPos
}

func (v *viewer) nextPos(pos core.TextPos) core.TextPos {
	m := v.win.Model()
	switch {
	case pos.Offset < m.ParagraphLength(pos.Index):
		return core.LeadingPos(pos.Index, pos.Offset+1)
	case pos.Index < m.ParagraphCount()-1:
		return core.LeadingPos(pos.Index+1, 0)
	}
	return pos
}

// selectionRange returns the ordered selection, or the caret twice.
func (v *viewer) selectionRange() (start, end core.TextPos, ok bool) {
	caret := v.win.Caret()
	anchor, ok := v.paint.Selection()
	if !ok || anchor.Compare(caret) == 0 {
		return caret, caret, false
	}
	if caret.Before(anchor) {
		return caret, anchor, true
	}
	return anchor, caret, true
}

func (v *viewer) insert(text string) {
	start, end, _ := v.selectionRange()
	v.replace(start, end, text)
}

func (v *viewer) deleteBackward() {
	start, end, ok := v.selectionRange()
	if !ok {
		start = v.prevPos(end)
	}
	if start.Compare(end) != 0 {
		v.replace(start, end, "")
	}
}

func (v *viewer) deleteForward() {
	start, end, ok := v.selectionRange()
	if !ok {
		end = v.nextPos(start)
	}
	if start.Compare(end) != 0 {
		v.replace(start, end, "")
	}
}

func (v *viewer) replace(start, end core.TextPos, text string) {
	if v.doc == nil {
		v.status.SetMessage("store is read only", statusline.MessageWarning)
		return
	}
	pos, err := v.doc.Replace(start, end, text)
	if err != nil {
		v.log.Debug().Err(err).Str("start", start.String()).Str("end", end.String()).Msg("edit rejected")
		v.status.SetMessage(err.Error(), statusline.MessageError)
		return
	}
	v.modified = true
	v.paint.ClearSelection()
	v.win.SetCaret(pos)
	v.win.ScrollCaretToVisible()
}

func (v *viewer) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	btn := ev.Buttons()
	m := v.factory.Metrics()

	switch {
	case btn&tcell.WheelUp != 0:
		v.win.ScrollVerticalPixels(-wheelLines * m.LineHeight)
		return
	case btn&tcell.WheelDown != 0:
		v.win.ScrollVerticalPixels(wheelLines * m.LineHeight)
		return
	case btn&tcell.WheelLeft != 0:
		v.win.ScrollHorizontalPixels(-wheelColumns * m.CellWidth)
		return
	case btn&tcell.WheelRight != 0:
		v.win.ScrollHorizontalPixels(wheelColumns * m.CellWidth)
		return
	}

	bar := v.win.VerticalScrollBar()
	if btn&tcell.Button1 == 0 {
		if v.dragging {
			v.dragging = false
			bar.SetPressed(false)
		}
		v.selecting = false
		return
	}

	barX := int(v.win.Width() / m.CellWidth)
	track := float64(int(v.win.Height() / m.LineHeight))
	if v.dragging || (!v.selecting && x == barX && float64(y) < track) {
		v.dragging = true
		bar.SetPressed(true)
		// The held bar keeps this value across the reflow it triggers.
		_, length := bar.Thumb(track)
		bar.SetValue(bar.ValueAt(float64(y)-length/2, track))
		return
	}

	// A press places the caret; motion with the button held selects.
	px, py := float64(x)*m.CellWidth, float64(y)*m.LineHeight
	tx, tw := v.win.TextAreaX()
	if !v.selecting && (px < tx || px >= tx+tw || py >= v.win.Height()) {
		return
	}
	extend := v.selecting || ev.Modifiers()&tcell.ModShift != 0
	v.selecting = true
	v.targetX = -1
	v.moveTo(v.win.TextPosAt(px, py), extend)
}
