package dirty

import "strings"

// Reason names why the window must be rebuilt.
type Reason uint8

const (
	// ReasonResize indicates the viewport size changed.
	ReasonResize Reason = iota

	// ReasonOrigin indicates the window origin moved (vertical scroll).
	ReasonOrigin

	// ReasonHorizontal indicates the horizontal offset changed.
	ReasonHorizontal

	// ReasonWrap indicates the wrap mode was toggled.
	ReasonWrap

	// ReasonModel indicates the document was swapped.
	ReasonModel

	// ReasonEdit indicates document content changed.
	ReasonEdit

	// ReasonStyle indicates only styling changed.
	ReasonStyle

	// ReasonPadding indicates the content padding changed.
	ReasonPadding

	// ReasonDecorator indicates a side decorator was added or removed.
	ReasonDecorator

	numReasons
)

// String returns the string representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonResize:
		return "resize"
	case ReasonOrigin:
		return "origin"
	case ReasonHorizontal:
		return "horizontal"
	case ReasonWrap:
		return "wrap"
	case ReasonModel:
		return "model"
	case ReasonEdit:
		return "edit"
	case ReasonStyle:
		return "style"
	case ReasonPadding:
		return "padding"
	case ReasonDecorator:
		return "decorator"
	default:
		return "unknown"
	}
}

// Set is a set of reasons.
type Set uint16

// Has returns true if the set contains r.
func (s Set) Has(r Reason) bool {
	return s&(1<<r) != 0
}

// With returns the set with r added.
func (s Set) With(r Reason) Set {
	return s | 1<<r
}

// Empty returns true if the set holds no reasons.
func (s Set) Empty() bool {
	return s == 0
}

// Reasons returns the reasons in declaration order.
func (s Set) Reasons() []Reason {
	var out []Reason
	for r := Reason(0); r < numReasons; r++ {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// String returns the reasons joined with '|'.
func (s Set) String() string {
	if s == 0 {
		return "none"
	}
	rs := s.Reasons()
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.String()
	}
	return strings.Join(names, "|")
}

// Queue accumulates invalidation reasons between frames.
// Pushing the same reason twice before a drain records it once.
type Queue struct {
	pending Set

	edits    Range
	hasEdits bool

	pushes uint64
	drains uint64
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push records a reason.
func (q *Queue) Push(r Reason) {
	if r >= numReasons {
		return
	}
	q.pending |= 1 << r
	q.pushes++
}

// PushEdit records an edit touching the given paragraphs.
func (q *Queue) PushEdit(rng Range) {
	q.Push(ReasonEdit)
	if q.hasEdits {
		q.edits = q.edits.Merge(rng)
		return
	}
	q.edits = rng
	q.hasEdits = true
}

// Pending returns true if any reason is waiting.
func (q *Queue) Pending() bool {
	return !q.pending.Empty()
}

// Peek returns the pending reasons without draining them.
func (q *Queue) Peek() Set {
	return q.pending
}

// EditRange returns the merged range of pushed edits, if any.
func (q *Queue) EditRange() (Range, bool) {
	return q.edits, q.hasEdits
}

// Drain returns the pending reasons and empties the queue.
func (q *Queue) Drain() Set {
	s := q.pending
	q.pending = 0
	q.edits = Range{}
	q.hasEdits = false
	if s != 0 {
		q.drains++
	}
	return s
}

// Stats returns queue statistics.
func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Pushes: q.pushes,
		Drains: q.drains,
	}
}

// QueueStats holds queue statistics.
type QueueStats struct {
	Pushes uint64
	Drains uint64
}
