package midi

import "testing"

func noteOn(ch, note, vel uint8, offset int32) Event {
	return NoteOnEvent{BaseEvent: BaseEvent{EventChannel: ch, Offset: offset}, NoteNumber: note, Velocity: vel}
}

func noteOff(ch, note uint8, offset int32) Event {
	return NoteOffEvent{BaseEvent: BaseEvent{EventChannel: ch, Offset: offset}, NoteNumber: note, Velocity: 0}
}

func TestNoteTrackerTracksSoundingNotes(t *testing.T) {
	tr := NewNoteTracker()
	tr.Observe(noteOn(0, 60, 100, 10))
	tr.Observe(noteOn(0, 64, 100, 10))

	if !tr.IsSounding(0, 60) || !tr.IsSounding(0, 64) {
		t.Fatalf("expected both notes sounding")
	}
	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
}

func TestNoteTrackerNoteOffClears(t *testing.T) {
	tr := NewNoteTracker()
	tr.Observe(noteOn(0, 60, 100, 10))
	tr.Observe(noteOff(0, 60, 20))

	if tr.IsSounding(0, 60) {
		t.Fatalf("note should no longer be sounding after note-off")
	}
}

func TestNoteTrackerZeroVelocityNoteOnActsAsNoteOff(t *testing.T) {
	tr := NewNoteTracker()
	tr.Observe(noteOn(0, 60, 100, 10))
	tr.Observe(noteOn(0, 60, 0, 20))

	if tr.IsSounding(0, 60) {
		t.Fatalf("zero-velocity note-on should clear sounding state")
	}
}

func TestNoteTrackerResolveEmitsNoteOffsInDeterministicOrder(t *testing.T) {
	tr := NewNoteTracker()
	tr.Observe(noteOn(1, 64, 90, 0))
	tr.Observe(noteOn(0, 72, 90, 0))
	tr.Observe(noteOn(0, 60, 90, 0))

	offs := tr.Resolve(500)
	if len(offs) != 3 {
		t.Fatalf("Resolve() returned %d events, want 3", len(offs))
	}

	want := []struct {
		ch, note uint8
	}{{0, 60}, {0, 72}, {1, 64}}

	for i, w := range want {
		ev, ok := offs[i].(NoteOffEvent)
		if !ok {
			t.Fatalf("event %d is not a NoteOffEvent: %T", i, offs[i])
		}
		if ev.EventChannel != w.ch || ev.NoteNumber != w.note {
			t.Errorf("event %d = {ch:%d note:%d}, want {ch:%d note:%d}", i, ev.EventChannel, ev.NoteNumber, w.ch, w.note)
		}
		if ev.Offset != 500 {
			t.Errorf("event %d offset = %d, want 500", i, ev.Offset)
		}
	}

	if tr.Len() != 0 {
		t.Errorf("tracker should be empty after Resolve, Len() = %d", tr.Len())
	}
}

func TestNoteTrackerResolveOnEmptyTrackerReturnsNil(t *testing.T) {
	tr := NewNoteTracker()
	if got := tr.Resolve(10); got != nil {
		t.Errorf("Resolve() on empty tracker = %v, want nil", got)
	}
}

func TestNoteTrackerReset(t *testing.T) {
	tr := NewNoteTracker()
	tr.Observe(noteOn(0, 60, 100, 0))
	tr.Reset()
	if tr.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", tr.Len())
	}
}
