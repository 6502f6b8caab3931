package diskreader

import (
	"github.com/audiocore/diskstream/pkg/diagnostics"
	"github.com/audiocore/diskstream/pkg/midi"
)

// squish maps a playlist sample position into a loop region [ls, le) by
// wrapping modulo the loop length. Positions already inside the region are
// returned unchanged.
func squish(pos int64, loop LoopRange) int64 {
	length := loop.Len()
	if length <= 0 {
		return pos
	}
	if pos >= loop.Start && pos < loop.End {
		return pos
	}
	offset := (pos - loop.Start) % length
	if offset < 0 {
		offset += length
	}
	return loop.Start + offset
}

// readLoopAwareMIDI is the butler-side MIDI read described for a looped
// track: it resolves the requested range against the loop region, splitting
// across the wrap boundary when necessary, and resolves the note tracker
// exactly when playback re-enters the loop at its start. It queries the
// MIDI playlist directly (the playlist owns the loop-aware region data) and
// returns the number of events written into dst.
func (d *DiskReader) readLoopAwareMIDI(startSample int64, nframes int, dst []midi.Event) int {
	loop := d.LoopLocation
	if loop == nil {
		return d.readSkipToMIDI(startSample, nframes, dst)
	}

	effectiveStart := squish(startSample, *loop)
	n := 0
	if effectiveStart == loop.Start {
		n += copy(dst[n:], d.midiTracker.Resolve(0))
	}

	wrapAt := loop.End - effectiveStart
	if wrapAt >= int64(nframes) {
		n += d.MidiPlaylist.Read(dst[n:], effectiveStart, nframes, loop, d.midiTracker, nil)
		return n
	}

	first := int(wrapAt)
	n += d.MidiPlaylist.Read(dst[n:n+first], effectiveStart, first, loop, d.midiTracker, nil)
	n += copy(dst[n:], d.midiTracker.Resolve(int32(first)))

	remaining := nframes - first
	n += d.MidiPlaylist.Read(dst[n:n+remaining], loop.Start, remaining, loop, d.midiTracker, nil)
	return n
}

// readSkipToMIDI is the non-looping path: skip the MIDI ring forward to
// start_sample (warning if events were dropped) and read the requested
// range.
func (d *DiskReader) readSkipToMIDI(startSample int64, nframes int, dst []midi.Event) int {
	delta := startSample - d.FileSampleMIDI
	if delta > 0 {
		skipped := d.MidiBuf.IncrementReadPtr(int(delta))
		if skipped > 0 {
			diagnostics.Warn("skip_to dropped buffered MIDI events", "track", d.TrackID, "skipped", skipped, "target", startSample)
		}
		d.FileSampleMIDI += int64(skipped)
	}
	return d.MidiPlaylist.Read(dst, startSample, nframes, nil, d.midiTracker, nil)
}
