package midi

import "sort"

// noteKey identifies a sounding note by channel and note number.
type noteKey struct {
	channel uint8
	note    uint8
}

// NoteTracker remembers which notes are currently sounding so that a loop
// wrap, seek, or overwrite can resolve them into synthetic note-offs instead
// of leaving a MIDI note stuck on forever.
type NoteTracker struct {
	sounding map[noteKey]uint8 // velocity at note-on time
}

// NewNoteTracker returns an empty tracker.
func NewNoteTracker() *NoteTracker {
	return &NoteTracker{sounding: make(map[noteKey]uint8, 32)}
}

// Observe updates sounding state from an event that has actually been
// delivered downstream (not merely buffered).
func (t *NoteTracker) Observe(e Event) {
	switch ev := e.(type) {
	case NoteOnEvent:
		if ev.Velocity == 0 {
			delete(t.sounding, noteKey{ev.EventChannel, ev.NoteNumber})
			return
		}
		t.sounding[noteKey{ev.EventChannel, ev.NoteNumber}] = ev.Velocity
	case NoteOffEvent:
		delete(t.sounding, noteKey{ev.EventChannel, ev.NoteNumber})
	}
}

// Resolve emits a NoteOffEvent at the given sample offset for every note
// currently tracked as sounding, then clears tracked state. Iteration order
// is channel-then-note so repeated resolves are deterministic.
func (t *NoteTracker) Resolve(offset int32) []Event {
	if len(t.sounding) == 0 {
		return nil
	}
	keys := make([]noteKey, 0, len(t.sounding))
	for k := range t.sounding {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].channel != keys[j].channel {
			return keys[i].channel < keys[j].channel
		}
		return keys[i].note < keys[j].note
	})

	out := make([]Event, len(keys))
	for i, k := range keys {
		out[i] = NoteOffEvent{
			BaseEvent:  BaseEvent{EventChannel: k.channel, Offset: offset},
			NoteNumber: k.note,
			Velocity:   0,
		}
	}
	t.sounding = make(map[noteKey]uint8, 32)
	return out
}

// IsSounding reports whether the tracker believes the given note is
// currently on.
func (t *NoteTracker) IsSounding(channel, note uint8) bool {
	_, ok := t.sounding[noteKey{channel, note}]
	return ok
}

// Reset clears tracked state without emitting note-offs (used when the
// sounding state is known to already be silent, e.g. a fresh seek target).
func (t *NoteTracker) Reset() {
	t.sounding = make(map[noteKey]uint8, 32)
}

// Len reports how many notes are currently tracked as sounding.
func (t *NoteTracker) Len() int {
	return len(t.sounding)
}
