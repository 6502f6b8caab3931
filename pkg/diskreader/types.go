// Package diskreader implements the per-track disk streaming engine: the
// realtime pull path (Run), the butler-side refill/seek/overwrite
// operations, and the loop-aware MIDI read. It is the consumer side of
// pkg/ringbuffer and pkg/midi and the embedder of pkg/declick.
package diskreader

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/audiocore/diskstream/pkg/declick"
	"github.com/audiocore/diskstream/pkg/midi"
	"github.com/audiocore/diskstream/pkg/ringbuffer"
	"github.com/audiocore/diskstream/pkg/signal"
)

// Sample is one audio frame of a single channel.
type Sample = float32

// MonitorState is the bitflag set determining which signal sources are
// audible on a track's output.
type MonitorState uint8

const (
	MonitorDisk  MonitorState = 1 << iota
	MonitorInput
)

// Has reports whether all bits in want are set.
func (m MonitorState) Has(want MonitorState) bool { return m&want == want }

// DiskOnly reports whether Disk is the only audible source.
func (m MonitorState) DiskOnly() bool { return m == MonitorDisk }

// LoopRange is a half-open sample range [Start, End) that playback wraps
// within when looping is active.
type LoopRange struct {
	Start int64
	End   int64
}

// Len returns the loop's length in samples.
func (l LoopRange) Len() int64 { return l.End - l.Start }

// Underrun is published exactly once per realtime cycle in which the audio
// ring could not supply enough samples.
type Underrun struct {
	Channel int
	At      int64
}

// ChannelInfo owns one audio channel's ring buffer.
type ChannelInfo struct {
	Ring *ringbuffer.Buffer[Sample]
}

// NewChannelInfo allocates a channel with the given ring capacity.
func NewChannelInfo(capacity int) ChannelInfo {
	return ChannelInfo{Ring: ringbuffer.New[Sample](capacity)}
}

// AudioPlaylist is the external collaborator that serves audio region
// reads. Implementations live outside this module (session/region code).
type AudioPlaylist interface {
	// Read fills sum with n samples for channel starting at the playlist
	// position start, optionally mixing down multiple regions with gain
	// applied, and returns the number of samples actually read.
	Read(sum []Sample, mixdown bool, gain float32, start int64, n int, channel int) int
}

// MIDIPlaylist is the external collaborator that serves MIDI region reads
// with loop semantics.
type MIDIPlaylist interface {
	// Read fills dst with up to n events starting at the playlist position
	// start, honoring loopRange if non-nil, updating tracker as events are
	// produced, and applying filter (nil means no filtering).
	Read(dst []midi.Event, start int64, n int, loopRange *LoopRange, tracker *midi.NoteTracker, filter func(midi.Event) bool) int
	// ResolveNoteTrackers asks the playlist's own tracker state (distinct
	// from this reader's NoteTracker) to resolve into dst at time.
	ResolveNoteTrackers(dst *midi.NoteTracker, time int64)
}

// Constants from the external interfaces section.
const (
	DefaultChunkSamples = 65536
	MidiReadahead       = 4096
	MinChunkBytes       = 256 * 1024
	MaxChunkBytes       = 4 * 1024 * 1024
	ChunkRoundingBytes  = 16 * 1024
)

// DiskReader is the per-track object described by the DATA MODEL: it owns
// the audio channel rings, the optional MIDI ring, playlist references,
// file-position cursors, the pending-overwrite flag, the MIDI flow-control
// counters, declick state, and loop location.
type DiskReader struct {
	// TrackID identifies this reader in diagnostic log lines and signal
	// payloads; it has no bearing on playback semantics.
	TrackID string

	Channels []ChannelInfo
	MidiBuf  *midi.EventBuffer // nil if the track carries no MIDI

	AudioPlaylist AudioPlaylist
	MidiPlaylist  MIDIPlaylist

	// file_sample[AUDIO|MIDI]: next playlist position the butler will
	// read from.
	FileSampleAudio int64
	FileSampleMIDI  int64

	// playback_sample: the RT-observed playback cursor.
	PlaybackSample int64

	OverwriteSample  int64
	OverwriteQueued  bool
	PendingOverwrite atomic.Bool

	SamplesReadFromMidiRing    atomic.Uint32
	SamplesWrittenToMidiRing   atomic.Uint32

	Declick     *declick.Ramp
	DeclickOffs int

	LoopLocation *LoopRange
	Slaved       bool
	NoDiskOutput bool

	// TransportSpeed mirrors the session's current transport speed for the
	// butler's refill policy (reverse reads, refill-anyway at |speed|>=2);
	// the RT run() path's own speed argument is authoritative for the
	// cycle itself and is not read from here.
	TransportSpeed int

	// active tracks whether this track is currently eligible for disk
	// output; flips exactly once per Run cycle when PendingActiveFlip is
	// set by the control thread.
	active            bool
	PendingActiveFlip atomic.Bool

	NeedButler atomic.Bool

	Underruns *signal.Bus[Underrun]

	SampleRate   float64
	ChunkSamples int

	// midiTracker is this reader's own resolve-on-wrap tracker, separate
	// from whatever tracker the MIDI playlist collaborator maintains.
	midiTracker *midi.NoteTracker

	// scratch is the butler thread's reusable read buffer pair; never
	// touched from Run.
	scratch *butlerScratch
}

// New constructs a DiskReader for a track with the given channel count,
// each channel's ring sized to ringCapacity samples. midiCapacity of 0
// means the track carries no MIDI.
func New(channelCount, ringCapacity, midiCapacity int, sampleRate float64) *DiskReader {
	channels := make([]ChannelInfo, channelCount)
	for i := range channels {
		channels[i] = NewChannelInfo(ringCapacity)
	}

	var midiBuf *midi.EventBuffer
	if midiCapacity > 0 {
		midiBuf = midi.NewEventBuffer(midiCapacity)
	}

	return &DiskReader{
		TrackID:      uuid.New().String(),
		Channels:     channels,
		MidiBuf:      midiBuf,
		Declick:      declick.New(sampleRate),
		SampleRate:   sampleRate,
		ChunkSamples: DefaultChunkSamples,
		Underruns:    signal.NewBus[Underrun](),
		midiTracker:  midi.NewNoteTracker(),
		scratch:      newButlerScratch(MaxChunkBytes / 4),
	}
}

// Active reports whether the track is currently eligible for disk output.
func (d *DiskReader) Active() bool { return d.active }

// RequestActiveFlip asks the RT thread to flip Active exactly once on its
// next Run cycle.
func (d *DiskReader) RequestActiveFlip() { d.PendingActiveFlip.Store(true) }

func (d *DiskReader) honorPendingActive() {
	if d.PendingActiveFlip.CompareAndSwap(true, false) {
		d.active = !d.active
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
