package diskreader

import "github.com/audiocore/diskstream/pkg/midi"

// butlerScratch is the per-DiskReader pair of scratch buffers the butler
// thread reuses across RefillAudio/RefillMIDI/OverwriteExistingBuffers calls instead of
// allocating a fresh slice per call. It is sized once to the largest chunk
// the butler will ever request and is only ever touched from the butler
// thread, never the RT thread.
type butlerScratch struct {
	audio []Sample
	midi  []midi.Event
}

func newButlerScratch(maxChunkSamples int) *butlerScratch {
	return &butlerScratch{
		audio: make([]Sample, maxChunkSamples),
		midi:  make([]midi.Event, maxChunkSamples),
	}
}

// audioBuf returns a scratch slice of exactly n samples, growing the
// backing array if a caller ever asks for more than maxChunkSamples.
func (s *butlerScratch) audioBuf(n int) []Sample {
	if cap(s.audio) < n {
		s.audio = make([]Sample, n)
	}
	return s.audio[:n]
}

func (s *butlerScratch) midiBuf(n int) []midi.Event {
	if cap(s.midi) < n {
		s.midi = make([]midi.Event, n)
	}
	return s.midi[:n]
}
