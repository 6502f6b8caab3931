package diskreader

import (
	"github.com/audiocore/diskstream/pkg/diagnostics"
)

// Seek is the butler-side seek: it resets every ring, repositions both
// file cursors, and refills from the new position. completeRefill asks for
// a full refill (repeated chunks until the rings report full) rather than a
// single chunk.
func (d *DiskReader) Seek(target int64, completeRefill bool) {
	d.PendingOverwrite.Store(false)
	d.OverwriteQueued = false

	for i := range d.Channels {
		d.Channels[i].Ring.Reset()
	}
	if d.MidiBuf != nil {
		d.MidiBuf.ResetRing()
	}
	d.midiTracker.Reset()

	d.FileSampleAudio = target
	d.FileSampleMIDI = target
	d.PlaybackSample = target

	if completeRefill {
		for d.RefillAudio(0) != 0 {
		}
	} else {
		d.RefillAudio(0)
	}
	d.RefillMIDI()
}

// SetPendingOverwrite is the RT-side half of overwrite: it snapshots the
// current playback position, flushes the read side of every audio ring (so
// stale disk-read content behind the RT cursor is discarded), and raises
// the pending_overwrite flag for the butler to act on.
func (d *DiskReader) SetPendingOverwrite() {
	d.OverwriteSample = d.PlaybackSample
	for i := range d.Channels {
		d.Channels[i].Ring.ReadFlush()
	}
	d.PendingOverwrite.Store(true)
}

// OverwriteExistingBuffers is the butler-side half of overwrite: for each
// audio channel it reads capacity-1 samples from the playlist at
// overwrite_sample, Resets the ring and writes them in; the MIDI ring is
// rebuilt the same way. This is not an in-place splice. It panics unless
// pending_overwrite is already set (see SetPendingOverwrite).
func (d *DiskReader) OverwriteExistingBuffers(reverse bool) {
	if !d.PendingOverwrite.Load() {
		panic("diskreader: OverwriteExistingBuffers called without a pending overwrite")
	}

	for ch := range d.Channels {
		ring := d.Channels[ch].Ring
		capacity := ring.Capacity()
		scratch := d.scratch.audioBuf(capacity - 1)
		n := d.AudioPlaylist.Read(scratch, false, 1, d.OverwriteSample, len(scratch), ch)
		if reverse {
			reverseInPlace(scratch[:n])
		}
		// The read side was already flushed by SetPendingOverwrite, so
		// resetting here discards only already-stale content before the
		// replacement write, not unread data.
		ring.Reset()
		ring.Write(scratch[:n])
	}

	if d.MidiBuf != nil {
		offs := d.midiTracker.Resolve(0)
		d.MidiBuf.Reset()
		if len(offs) > 0 {
			d.MidiBuf.Write(offs)
		}
		scratch := d.scratch.midiBuf(d.ChunkSamples)
		n := d.MidiPlaylist.Read(scratch, d.OverwriteSample, len(scratch), d.LoopLocation, d.midiTracker, nil)
		d.MidiBuf.Write(scratch[:n])
		d.FileSampleMIDI = d.OverwriteSample + int64(len(scratch))
	}

	d.PendingOverwrite.Store(false)
}

// RefillAudio is the butler's per-cycle audio refill. fillLevel reserves
// headroom below full: the refill only attempts to fill up to
// capacity-fillLevel. It returns 1 when more work remains (total free space
// still exceeds one chunk), 0 otherwise.
func (d *DiskReader) RefillAudio(fillLevel int) int {
	if len(d.Channels) == 0 {
		return 0
	}

	totalSpace := d.Channels[0].Ring.WriteSpace()
	for _, c := range d.Channels[1:] {
		if ws := c.Ring.WriteSpace(); ws < totalSpace {
			totalSpace = ws
		}
	}
	if fillLevel > 0 {
		capacity := d.Channels[0].Ring.Capacity() - 1
		maxFill := capacity - fillLevel
		if totalSpace > maxFill {
			totalSpace = maxFill
		}
	}

	speed := d.TransportSpeed
	if d.Slaved {
		capacity := d.Channels[0].Ring.Capacity() - 1
		if totalSpace < capacity/2 {
			return 0
		}
	} else if totalSpace < d.ChunkSamples && abs(speed) < 2 {
		return 0
	}
	if totalSpace <= 0 {
		return 0
	}

	readSize := clampChunkSamples(totalSpace, d.ChunkSamples)
	reverse := speed < 0

	samplesRead := 0
	for ch := range d.Channels {
		scratch := d.scratch.audioBuf(readSize)
		n := d.AudioPlaylist.Read(scratch, false, 1, d.FileSampleAudio, readSize, ch)
		if n < readSize {
			diagnostics.Warn("playlist read short of requested range", "track", d.TrackID, "channel", ch, "requested", readSize, "got", n)
		}
		if reverse {
			reverseInPlace(scratch[:n])
		}
		written := d.Channels[ch].Ring.Write(scratch[:n])
		if written > samplesRead {
			samplesRead = written
		}
	}

	if samplesRead == 0 {
		return 0
	}
	if reverse {
		d.FileSampleAudio -= int64(samplesRead)
	} else {
		d.FileSampleAudio += int64(samplesRead)
	}

	if totalSpace-samplesRead > d.ChunkSamples {
		return 1
	}
	return 0
}

// RefillMIDI is the butler's per-cycle MIDI refill, gated by the readahead
// window: it tops the ring up to midi_readahead samples ahead of the RT
// read cursor, honoring loop wrap via readLoopAwareMIDI when a loop is
// active.
func (d *DiskReader) RefillMIDI() {
	if d.MidiPlaylist == nil || d.MidiBuf == nil {
		return
	}

	written := d.SamplesWrittenToMidiRing.Load()
	read := d.SamplesReadFromMidiRing.Load()
	lag := written - read
	if int64(lag) >= MidiReadahead {
		return
	}

	want := MidiReadahead - int64(lag)
	if space := int64(d.MidiBuf.WriteSpace()); want > space {
		want = space
	}
	if want <= 0 {
		return
	}

	scratch := d.scratch.midiBuf(int(want))
	var n int
	if d.LoopLocation != nil {
		n = d.readLoopAwareMIDI(d.FileSampleMIDI, int(want), scratch)
	} else {
		n = d.MidiPlaylist.Read(scratch, d.FileSampleMIDI, int(want), nil, d.midiTracker, nil)
	}
	d.MidiBuf.Write(scratch[:n])
	d.FileSampleMIDI += want
	d.SamplesWrittenToMidiRing.Store(uint32(d.FileSampleMIDI))
}

func clampChunkSamples(available, defaultSamples int) int {
	n := available
	if n > defaultSamples {
		n = defaultSamples
	}
	bytesPerSample := 4 // float32 native width
	byteSize := n * bytesPerSample
	if byteSize < MinChunkBytes {
		byteSize = MinChunkBytes
	}
	if byteSize > MaxChunkBytes {
		byteSize = MaxChunkBytes
	}
	byteSize -= byteSize % ChunkRoundingBytes
	n = byteSize / bytesPerSample
	if n > available {
		n = available
	}
	return n
}

func reverseInPlace(s []Sample) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
