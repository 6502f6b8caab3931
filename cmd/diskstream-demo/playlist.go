package main

import (
	"math"

	"github.com/audiocore/diskstream/pkg/diskreader"
	"github.com/audiocore/diskstream/pkg/midi"
)

// sinePlaylist is a synthetic diskreader.AudioPlaylist standing in for a
// session's region graph: every channel reads the same 440Hz tone so the
// demo has something audible to pull without needing real media on disk.
type sinePlaylist struct {
	sampleRate float64
	freq       float64
}

func newSinePlaylist(sampleRate float64) *sinePlaylist {
	return &sinePlaylist{sampleRate: sampleRate, freq: 440}
}

func (p *sinePlaylist) Read(sum []diskreader.Sample, mixdown bool, gain float32, start int64, n int, channel int) int {
	for i := 0; i < n; i++ {
		t := float64(start+int64(i)) / p.sampleRate
		v := diskreader.Sample(math.Sin(2*math.Pi*p.freq*t)) * gain
		if mixdown {
			sum[i] += v
		} else {
			sum[i] = v
		}
	}
	return n
}

// metronomePlaylist is a synthetic diskreader.MIDIPlaylist emitting a
// note-on/note-off pair once per beat, used to exercise the loop-aware and
// skip-to MIDI read paths without a real MIDI region.
type metronomePlaylist struct {
	samplesPerBeat int64
}

func newMetronomePlaylist(sampleRate float64) *metronomePlaylist {
	const bpm = 120
	return &metronomePlaylist{samplesPerBeat: int64(sampleRate * 60 / bpm)}
}

func (p *metronomePlaylist) Read(dst []midi.Event, start int64, n int, loopRange *diskreader.LoopRange, tracker *midi.NoteTracker, filter func(midi.Event) bool) int {
	count := 0
	for offset := int64(0); offset < int64(n) && count < len(dst); offset++ {
		pos := start + offset
		beat := pos % p.samplesPerBeat
		var e midi.Event
		switch beat {
		case 0:
			e = midi.NoteOnEvent{
				BaseEvent:  midi.BaseEvent{EventChannel: 9, Offset: int32(offset)},
				NoteNumber: 37,
				Velocity:   100,
			}
		case p.samplesPerBeat / 2:
			e = midi.NoteOffEvent{
				BaseEvent:  midi.BaseEvent{EventChannel: 9, Offset: int32(offset)},
				NoteNumber: 37,
			}
		default:
			continue
		}
		if filter != nil && !filter(e) {
			continue
		}
		if tracker != nil {
			tracker.Observe(e)
		}
		dst[count] = e
		count++
	}
	return count
}

func (p *metronomePlaylist) ResolveNoteTrackers(dst *midi.NoteTracker, time int64) {}
