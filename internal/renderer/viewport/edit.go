package viewport

import (
	"github.com/dshills/vflow/internal/renderer/arrangement"
	"github.com/dshills/vflow/internal/renderer/core"
	"github.com/dshills/vflow/internal/renderer/dirty"
)

// HandleChange reacts to a document change notification.
//
// An edit starting above the origin paragraph moves the origin to the
// start of the edited paragraph, since the rows between them may have
// changed height. The whole row cache is dropped: row heights below the
// edit cannot be cheaply reused once paragraphs shift.
func (w *Window) HandleChange(c core.Change) {
	w.cache.Clear()
	w.clearDecoratorCaches()

	if !c.IsEdit() {
		w.queue.Push(dirty.ReasonStyle)
		return
	}

	if c.Start.Index < w.origin.Index {
		w.SetOrigin(core.Origin{Index: c.Start.Index})
	}
	n := w.paragraphCount()
	if o := arrangement.NormalizeOrigin(w.origin, n, w.padding.Top); o != w.origin {
		w.SetOrigin(o)
	}
	w.caret = w.ClampPos(w.caret)

	end := c.End.Index
	if d := c.ParagraphDelta(); d > 0 {
		end += d
	}
	w.queue.PushEdit(dirty.NewRange(c.Start.Index, end))

	w.log.Debug().
		Str("start", c.Start.String()).
		Str("end", c.End.String()).
		Int("delta", c.ParagraphDelta()).
		Str("origin", w.origin.String()).
		Msg("edit")
}
