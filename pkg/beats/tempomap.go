package beats

// TempoMap is the external collaborator that converts between musical time
// and sample time. The core never assumes a constant tempo; it only ever
// talks to this interface (see spec §4.8, BeatsFramesConverter).
type TempoMap interface {
	// BeatsToSamples converts a musical position to an absolute sample
	// position at the given sample rate.
	BeatsToSamples(b Beats, sampleRate float64) int64
	// SamplesToBeats converts an absolute sample position to a musical
	// position at the given sample rate.
	SamplesToBeats(sample int64, sampleRate float64) Beats
}

// ConstantTempoMap is the minimal TempoMap implementation: a single tempo
// (beats per minute) applying for all time. Real sessions supply a richer,
// tempo-ramp-aware map; this is the reference collaborator used by tests and
// by callers with no tempo automation.
type ConstantTempoMap struct {
	BPM float64
}

// NewConstantTempoMap creates a tempo map fixed at bpm beats per minute.
func NewConstantTempoMap(bpm float64) *ConstantTempoMap {
	return &ConstantTempoMap{BPM: bpm}
}

func (m *ConstantTempoMap) secondsPerBeat() float64 {
	return 60.0 / m.BPM
}

// BeatsToSamples implements TempoMap.
func (m *ConstantTempoMap) BeatsToSamples(b Beats, sampleRate float64) int64 {
	seconds := b.ToFloat() * m.secondsPerBeat()
	return int64(seconds * sampleRate)
}

// SamplesToBeats implements TempoMap.
func (m *ConstantTempoMap) SamplesToBeats(sample int64, sampleRate float64) Beats {
	seconds := float64(sample) / sampleRate
	beatsValue := seconds / m.secondsPerBeat()
	return FromReal(beatsValue)
}
