package diskreader

import (
	"github.com/audiocore/diskstream/pkg/dsp"
	"github.com/audiocore/diskstream/pkg/midi"
)

// RunParams bundles one realtime cycle's inputs. Bufs, Scratch, and
// MidiScratch must all be pre-allocated by the caller (the RT path never
// allocates); Scratch and MidiScratch must each hold at least NFrames
// elements.
type RunParams struct {
	Bufs       [][]Sample
	StartSample int64
	EndSample   int64
	Speed       int // -1, 0, or +1
	NFrames     int

	ResultRequired        bool
	Monitor               MonitorState
	GlobalLocatePending   bool
	Locating              bool
	TransportFadesEnabled bool

	Scratch     []Sample
	MidiScratch []midi.Event
}

// Run is the realtime pull operation. It never allocates, locks, or
// blocks: an underrun aborts the cycle immediately via the Underruns
// signal, leaving the playback cursor and the short channel's ring
// untouched (channels read earlier in the same cycle are not rewound).
func (d *DiskReader) Run(p RunParams) {
	// 1. Honor pending-active transition.
	d.honorPendingActive()

	// 2. Compute target gain.
	targetGain := Sample(1)
	if p.Speed == 0 || !p.Monitor.Has(MonitorDisk) {
		targetGain = 0
	}
	if !p.TransportFadesEnabled {
		d.Declick.SetGain(targetGain)
	}

	// 3. Early-out when stopped with no declick work remaining.
	if p.Speed == 0 && p.Monitor.DiskOnly() && !d.Declick.IsRamping(targetGain) {
		return
	}

	// 4. How many disk samples this cycle consumes.
	diskSamplesToConsume := 0
	if p.Speed != 0 {
		diskSamplesToConsume = p.NFrames
	}

	skipRead := !p.ResultRequired || !p.Monitor.Has(MonitorDisk) || p.GlobalLocatePending || d.PendingOverwrite.Load() || d.NoDiskOutput

	consumedSamples := 0
	for ch := range d.Channels {
		n, ok := d.runAudioChannel(ch, p, targetGain, diskSamplesToConsume, skipRead)
		if !ok {
			// Underrun: abort the whole cycle before the cursor moves.
			return
		}
		if n > consumedSamples {
			consumedSamples = n
		}
	}

	if p.Speed == 0 && d.Declick.IsRamping(targetGain) && consumedSamples > 0 {
		d.DeclickOffs += consumedSamples
	}

	// 6. MIDI path: drain whatever the butler has already resolved into the
	// ring (loop wrap is applied at refill time, see readLoopAwareMIDI).
	if d.MidiBuf != nil && p.Monitor.Has(MonitorDisk) && !p.Locating {
		d.MidiBuf.Read(p.MidiScratch, true, 0)
	}

	// 7. Cursor update.
	if !p.Locating {
		d.PlaybackSample += int64(p.Speed) * int64(diskSamplesToConsume)
		if d.MidiBuf != nil {
			d.SamplesReadFromMidiRing.Store(uint32(d.PlaybackSample))
		}
	}

	// 8. Butler demand.
	needAudio := d.audioNeedsButler()
	needMIDI := d.midiNeedsButler(diskSamplesToConsume)
	d.NeedButler.Store(needAudio || needMIDI)
}

// runAudioChannel runs the per-channel audio policy of step 5. It returns
// the number of samples consumed and false if an underrun occurred.
func (d *DiskReader) runAudioChannel(ch int, p RunParams, targetGain Sample, diskSamplesToConsume int, skipRead bool) (int, bool) {
	ring := d.Channels[ch].Ring

	if p.StartSample != d.PlaybackSample && targetGain != 0 {
		delta := p.StartSample - d.PlaybackSample
		seekOK := true
		if delta > 0 {
			if seekOK = ring.CanSeek(int(delta)); seekOK {
				ring.IncrementReadPtr(int(delta))
			}
		} else if delta < 0 {
			if seekOK = ring.CanSeek(int(delta)); seekOK {
				ring.DecrementReadPtr(int(-delta))
			}
		}
		if !seekOK {
			// Debug builds abort here (see rtinvariant_debug.go); release
			// builds fall through and silence this channel for the cycle.
			rtInvariantBroken("diskreader: realtime invariant violated, ring cannot bridge seek")
			if p.ResultRequired && ch < len(p.Bufs) {
				dsp.Clear(p.Bufs[ch][:p.NFrames])
			}
			return 0, true
		}
	}

	if skipRead {
		if !p.Locating && !d.NoDiskOutput {
			ring.IncrementReadPtr(diskSamplesToConsume)
		}
		if p.ResultRequired && ch < len(p.Bufs) {
			dsp.Clear(p.Bufs[ch][:p.NFrames])
		}
		return 0, true
	}

	dest := p.Bufs[ch]
	usingScratch := p.Monitor.Has(MonitorInput)
	if usingScratch {
		dest = p.Scratch
	}

	n := 0
	if p.Speed != 0 {
		if ring.ReadSpace() < diskSamplesToConsume {
			d.Underruns.Publish(Underrun{Channel: ch, At: d.PlaybackSample})
			return 0, false
		}
		n = ring.Read(dest[:diskSamplesToConsume], true, 0)
	} else if d.Declick.IsRamping(targetGain) {
		n = ring.Read(dest[:p.NFrames], false, d.DeclickOffs)
	}

	if n > 0 {
		d.Declick.ApplyGain(dest, n, targetGain)
		chGain := Sample(1)
		if len(d.Channels) > 0 {
			ratio := float32(len(p.Bufs)) / float32(len(d.Channels))
			if ratio < 1 {
				chGain = ratio
			}
		}
		dsp.Scale(dest[:n], chGain)

		if usingScratch && ch < len(p.Bufs) {
			dsp.Add(p.Bufs[ch][:n], dest[:n])
		}
	}

	return n, true
}

func (d *DiskReader) audioNeedsButler() bool {
	if len(d.Channels) == 0 {
		return false
	}
	minFree := d.Channels[0].Ring.WriteSpace()
	for _, c := range d.Channels[1:] {
		if ws := c.Ring.WriteSpace(); ws < minFree {
			minFree = ws
		}
	}
	if d.Slaved {
		cap := d.Channels[0].Ring.Capacity()
		return minFree >= cap/2
	}
	return minFree >= d.ChunkSamples
}

func (d *DiskReader) midiNeedsButler(consumed int) bool {
	if d.MidiBuf == nil {
		return false
	}
	read := d.SamplesReadFromMidiRing.Load()
	written := d.SamplesWrittenToMidiRing.Load()
	if read > written {
		// overwrite race window: force a wakeup.
		return true
	}
	lag := int64(written-read) + int64(consumed)
	return lag < MidiReadahead
}
