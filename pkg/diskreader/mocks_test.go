package diskreader

import "github.com/audiocore/diskstream/pkg/midi"

// fakeAudioPlaylist serves a deterministic, infinite ramp so tests can
// assert on exact sample values without needing a real file backend.
type fakeAudioPlaylist struct {
	reads []audioReadCall
}

type audioReadCall struct {
	start   int64
	n       int
	channel int
}

func (f *fakeAudioPlaylist) Read(sum []Sample, mixdown bool, gain float32, start int64, n int, channel int) int {
	f.reads = append(f.reads, audioReadCall{start, n, channel})
	for i := 0; i < n; i++ {
		sum[i] = Sample(start+int64(i)) * gain
	}
	return n
}

// fakeMIDIPlaylist serves events from a fixed, pre-sorted schedule keyed by
// sample offset, honoring loop wrap the same way the real playlist would:
// squish happens in the caller, this fake just filters by [start, start+n).
type fakeMIDIPlaylist struct {
	schedule map[int64]midi.Event
}

func newFakeMIDIPlaylist(events map[int64]midi.Event) *fakeMIDIPlaylist {
	return &fakeMIDIPlaylist{schedule: events}
}

func (f *fakeMIDIPlaylist) Read(dst []midi.Event, start int64, n int, loopRange *LoopRange, tracker *midi.NoteTracker, filter func(midi.Event) bool) int {
	count := 0
	for offset := int64(0); offset < int64(n) && count < len(dst); offset++ {
		sample := start + offset
		e, ok := f.schedule[sample]
		if !ok {
			continue
		}
		if filter != nil && !filter(e) {
			continue
		}
		tracker.Observe(e)
		dst[count] = e
		count++
	}
	return count
}

func (f *fakeMIDIPlaylist) ResolveNoteTrackers(dst *midi.NoteTracker, time int64) {}
