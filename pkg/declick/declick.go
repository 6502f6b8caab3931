// Package declick provides the one-pole gain ramp applied at transport
// start/stop to avoid audible clicks. It plays the same role as the
// teacher's param.Smoother (pkg/framework/param/smoother.go in the retrieval
// pack) in ExponentialSmoothing mode, specialized to the disk streaming
// engine's fixed time constant and block-at-a-time update discipline.
package declick

import "math"

// blockSize is how many samples the ramp coefficient is applied per update;
// updating once per block instead of per sample amortizes the multiply.
const blockSize = 16

// snapThreshold is how close g must get to target before it snaps exactly,
// avoiding an infinite asymptotic tail.
const snapThreshold = 1e-5

// Ramp holds the declick state: the current gain and the smoothing
// coefficient derived from the sample rate. The target is passed to each
// ApplyGain call.
type Ramp struct {
	g     float32
	a     float32
	sampleRate float64
}

// New creates a ramp for the given sample rate, coefficient a = 4550 /
// sampleRate (roughly a 10ms time constant at 44.1kHz), starting at gain 1.
func New(sampleRate float64) *Ramp {
	return &Ramp{
		g:          1,
		a:          float32(4550.0 / sampleRate),
		sampleRate: sampleRate,
	}
}

// Gain returns the current gain value.
func (r *Ramp) Gain() float32 {
	return r.g
}

// SetGain forces the current gain to an exact value, with no ramping (used
// when transport fades are disabled and the target must apply immediately).
func (r *Ramp) SetGain(g float32) {
	r.g = g
}

// IsRamping reports whether g has not yet reached target (useful to decide
// whether declick work remains before a transition can complete).
func (r *Ramp) IsRamping(target float32) bool {
	return r.g != target
}

// ApplyGain applies a one-pole ramp from the current gain toward target
// across buf[:n], mutating g in place. When g already equals target this
// short-circuits to a constant-gain multiply. Never allocates.
func (r *Ramp) ApplyGain(buf []float32, n int, target float32) {
	if n > len(buf) {
		n = len(buf)
	}
	if n <= 0 {
		return
	}

	if r.g == target {
		if target == 1 {
			return
		}
		for i := 0; i < n; i++ {
			buf[i] *= target
		}
		return
	}

	g := r.g
	i := 0
	for i < n {
		end := i + blockSize
		if end > n {
			end = n
		}
		for j := i; j < end; j++ {
			buf[j] *= g
			g += r.a * (target - g)
		}
		if float32(math.Abs(float64(g-target))) < snapThreshold {
			g = target
		}
		i = end
		if g == target {
			// Remaining samples in this call ramp no further; apply the
			// settled gain directly (still per-sample to honor magnitude
			// monotonicity for target==0 mute-outs).
			for j := i; j < n; j++ {
				buf[j] *= g
			}
			break
		}
	}

	r.g = g
}
