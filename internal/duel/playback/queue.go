// Package playback owns the serialization of presentation: events queue up as
// fast as the engine produces them, but leave one at a time, each gated on an
// explicit acknowledgment from the animation layer.
package playback

import (
	"github.com/google/uuid"

	"github.com/duelview/duelview/internal/duel"
)

// Entry pairs one presentation event with the match state that results from
// it. Entries are immutable values; coalescing replaces the tail entry
// wholesale rather than mutating a queued one.
type Entry struct {
	ID    string     `json:"id"`
	Event duel.Event `json:"event"`
	Next  duel.State `json:"nextState"`
}

// Queue is a strict FIFO of entries with one extra first-class operation:
// tail replacement, used when a later message retroactively changes how the
// most recent event should be presented.
//
// The queue carries the module's dual clock. The head is what the consumer is
// currently animating; the tail state is the authoritative truth the engine
// is fed responses from. Reads of both never copy state, they return the
// stored snapshots, which are immutable by construction.
//
// Queue is not self-synchronizing: the decode loop and the acknowledgment
// path are specified never to interleave, and the owning client enforces
// that.
type Queue struct {
	entries []Entry
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{entries: make([]Entry, 0, 32)}
}

// Enqueue appends an event with its resulting state and returns the new entry.
func (q *Queue) Enqueue(event duel.Event, next duel.State) Entry {
	entry := Entry{ID: uuid.NewString(), Event: event, Next: next}
	q.entries = append(q.entries, entry)
	return entry
}

// ReplaceTail swaps the most recently appended entry for a new one. Calling
// it on an empty queue is a programming error in the decoder, not an
// environmental condition, and panics.
func (q *Queue) ReplaceTail(event duel.Event, next duel.State) Entry {
	if len(q.entries) == 0 {
		panic("playback: ReplaceTail on empty queue")
	}
	entry := Entry{ID: uuid.NewString(), Event: event, Next: next}
	q.entries[len(q.entries)-1] = entry
	return entry
}

// Acknowledge removes and returns the head entry. This is the only way an
// entry leaves the queue, and it is always driven externally. Acknowledging
// an idle queue means the consumer has lost track of the protocol and panics.
func (q *Queue) Acknowledge() Entry {
	if len(q.entries) == 0 {
		panic("playback: Acknowledge on empty queue")
	}
	head := q.entries[0]
	q.entries = q.entries[1:]
	return head
}

// Head returns the entry currently being presented.
func (q *Queue) Head() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	return q.entries[0], true
}

// Tail returns the most recently appended entry, whose state is the
// authoritative one.
func (q *Queue) Tail() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	return q.entries[len(q.entries)-1], true
}

// Len returns the number of queued, unacknowledged entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Entries returns a copy of the queued entries in FIFO order.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// RewriteStates maps every queued entry's resulting state through fn. Used
// when a late reveal (a drawn card's code becoming known) has to propagate
// into snapshots that were queued before the reveal.
func (q *Queue) RewriteStates(fn func(duel.State) duel.State) {
	for i := range q.entries {
		q.entries[i].Next = fn(q.entries[i].Next)
	}
}
