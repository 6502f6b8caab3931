package midi

import "testing"

func TestEventBufferWriteRead(t *testing.T) {
	b := NewEventBuffer(8)
	events := []Event{
		noteOn(0, 60, 100, 10),
		noteOn(0, 64, 100, 10),
	}
	n := b.Write(events)
	if n != 2 {
		t.Fatalf("Write() = %d, want 2", n)
	}
	if got := b.ReadSpace(); got != 2 {
		t.Fatalf("ReadSpace() = %d, want 2", got)
	}

	dst := make([]Event, 2)
	got := b.Read(dst, true, 0)
	if got != 2 {
		t.Fatalf("Read() = %d, want 2", got)
	}
	if !b.Tracker.IsSounding(0, 60) || !b.Tracker.IsSounding(0, 64) {
		t.Errorf("advancing Read() should observe delivered note-ons into the tracker")
	}
}

func TestEventBufferPeekDoesNotObserve(t *testing.T) {
	b := NewEventBuffer(8)
	b.Write([]Event{noteOn(0, 60, 100, 10)})

	dst := make([]Event, 1)
	b.Read(dst, false, 0)
	if b.Tracker.IsSounding(0, 60) {
		t.Errorf("peek read should not update the tracker")
	}
	if got := b.ReadSpace(); got != 1 {
		t.Errorf("ReadSpace() after peek = %d, want 1 (unchanged)", got)
	}
}

func TestEventBufferResetClearsRingAndTracker(t *testing.T) {
	b := NewEventBuffer(8)
	b.Write([]Event{noteOn(0, 60, 100, 10)})
	dst := make([]Event, 1)
	b.Read(dst, true, 0)

	b.Reset()
	if b.ReadSpace() != 0 {
		t.Errorf("ReadSpace() after Reset = %d, want 0", b.ReadSpace())
	}
	if b.Tracker.Len() != 0 {
		t.Errorf("Tracker.Len() after Reset = %d, want 0", b.Tracker.Len())
	}
}

func TestEventBufferResetRingPreservesTracker(t *testing.T) {
	b := NewEventBuffer(8)
	b.Write([]Event{noteOn(0, 60, 100, 10)})
	dst := make([]Event, 1)
	b.Read(dst, true, 0)

	b.ResetRing()
	if b.ReadSpace() != 0 {
		t.Errorf("ReadSpace() after ResetRing = %d, want 0", b.ReadSpace())
	}
	if !b.Tracker.IsSounding(0, 60) {
		t.Errorf("ResetRing should not touch tracker state")
	}
}

func TestEventBufferCanSeek(t *testing.T) {
	b := NewEventBuffer(8)
	b.Write([]Event{noteOn(0, 60, 100, 0), noteOn(0, 61, 100, 1), noteOn(0, 62, 100, 2)})

	if !b.CanSeek(3) {
		t.Errorf("CanSeek(3) = false, want true")
	}
	if b.CanSeek(4) {
		t.Errorf("CanSeek(4) = true, want false")
	}
}
