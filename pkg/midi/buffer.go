// Package midi implements MIDI event types and the time-ordered event
// buffer used by the disk reader's MIDI path: a ring of pending events
// paired with a note tracker that can resolve currently-sounding notes
// into synthetic note-offs at a loop wrap or a buffer reset.
package midi

import "github.com/audiocore/diskstream/pkg/ringbuffer"

// EventBuffer is a single-producer/single-consumer, time-ordered ring of
// MIDI events backed by pkg/ringbuffer, plus the NoteTracker that observes
// events as they're actually delivered downstream.
type EventBuffer struct {
	ring    *ringbuffer.Buffer[Event]
	Tracker *NoteTracker
}

// NewEventBuffer allocates an event buffer with room for capacity events.
func NewEventBuffer(capacity int) *EventBuffer {
	return &EventBuffer{
		ring:    ringbuffer.New[Event](capacity),
		Tracker: NewNoteTracker(),
	}
}

// WriteSpace returns how many more events can be written before the ring
// is full.
func (b *EventBuffer) WriteSpace() int { return b.ring.WriteSpace() }

// ReadSpace returns how many events are currently buffered.
func (b *EventBuffer) ReadSpace() int { return b.ring.ReadSpace() }

// Write appends events to the ring in the order given (the caller is
// responsible for presenting them in ascending sample-offset order).
func (b *EventBuffer) Write(events []Event) int {
	return b.ring.Write(events)
}

// Read copies up to len(dst) pending events into dst. When advance is true,
// consumed events are removed from the ring and observed by the tracker so
// later resolves see accurate sounding state; advance=false peeks ahead by
// offset without disturbing the ring or the tracker.
func (b *EventBuffer) Read(dst []Event, advance bool, offset int) int {
	n := b.ring.Read(dst, advance, offset)
	if advance {
		for i := 0; i < n; i++ {
			b.Tracker.Observe(dst[i])
		}
	}
	return n
}

// CanSeek reports whether the ring holds enough buffered events (or
// already-consumed history) to satisfy an internal seek of distance events.
func (b *EventBuffer) CanSeek(distance int) bool {
	return b.ring.CanSeek(distance)
}

// IncrementReadPtr advances the read cursor by n events without copying
// them out (used by the non-loop skip_to path); skipped events are dropped
// without updating the tracker, matching a plain ring skip.
func (b *EventBuffer) IncrementReadPtr(n int) int {
	return b.ring.IncrementReadPtr(n)
}

// ResetRing discards all buffered events without touching tracker state.
func (b *EventBuffer) ResetRing() {
	b.ring.Reset()
}

// Reset discards all buffered events and clears tracker state without
// emitting note-offs. Callers that need note-offs for sounding notes must
// call Tracker.Resolve before Reset.
func (b *EventBuffer) Reset() {
	b.ring.Reset()
	b.Tracker.Reset()
}
