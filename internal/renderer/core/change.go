package core

// ChangeKind distinguishes content edits from style-only changes.
type ChangeKind uint8

const (
	// ChangeEdit indicates text was inserted, deleted or replaced.
	ChangeEdit ChangeKind = iota

	// ChangeStyle indicates only styling changed over the range.
	ChangeStyle
)

// String returns the string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeEdit:
		return "edit"
	case ChangeStyle:
		return "style"
	default:
		return "unknown"
	}
}

// Change is the notification a document sends after a modification.
//
// Start and End delimit the replaced range in the coordinates of the
// document before the change. CharsAddedTop is the number of characters
// added to the Start paragraph, LinesAdded the number of whole paragraphs
// inserted after it, and CharsAddedBottom the characters added to the
// paragraph holding the end of the insertion.
type Change struct {
	Kind             ChangeKind
	Start            TextPos
	End              TextPos
	CharsAddedTop    int
	LinesAdded       int
	CharsAddedBottom int
}

// IsEdit returns true if the change modified content.
func (c Change) IsEdit() bool {
	return c.Kind == ChangeEdit
}

// ParagraphDelta returns how many paragraphs the document gained (negative
// when paragraphs were removed).
func (c Change) ParagraphDelta() int {
	return c.LinesAdded - (c.End.Index - c.Start.Index)
}
