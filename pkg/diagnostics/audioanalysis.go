package diagnostics

import (
	"fmt"
	"math"
)

// AudioAnalyzer checks disk-reader output for the invariant violations that
// matter on the realtime path: NaN/Inf samples, clipping, and DC offset
// left behind by a broken declick ramp.
type AudioAnalyzer struct {
	ClippingThreshold float32
	DCThreshold       float32
	SilenceThreshold  float32
}

// NewAudioAnalyzer returns an analyzer with the thresholds used elsewhere
// in the disk streaming path (declick snap at 1e-5 is tighter; these are
// buffer-health thresholds, not ramp thresholds).
func NewAudioAnalyzer() *AudioAnalyzer {
	return &AudioAnalyzer{
		ClippingThreshold: 0.99,
		DCThreshold:       0.01,
		SilenceThreshold:  0.0001,
	}
}

// AnalysisResult summarizes one buffer's health.
type AnalysisResult struct {
	Peak           float32
	RMS            float32
	DC             float32
	Clipping       bool
	ClippedSamples int
	Silent         bool
	HasNaN         bool
	NaNCount       int
}

// Analyze computes peak/RMS/DC and flags clipping, silence, and NaN.
func (a *AudioAnalyzer) Analyze(buffer []float32) AnalysisResult {
	var result AnalysisResult
	if len(buffer) == 0 {
		return result
	}

	var sum, sumSquares float64
	for _, sample := range buffer {
		if math.IsNaN(float64(sample)) || math.IsInf(float64(sample), 0) {
			result.HasNaN = true
			result.NaNCount++
			continue
		}
		abs := sample
		if abs < 0 {
			abs = -abs
		}
		if abs > result.Peak {
			result.Peak = abs
		}
		if abs >= a.ClippingThreshold {
			result.Clipping = true
			result.ClippedSamples++
		}
		sum += float64(sample)
		sumSquares += float64(sample) * float64(sample)
	}

	result.RMS = float32(math.Sqrt(sumSquares / float64(len(buffer))))
	result.DC = float32(sum / float64(len(buffer)))
	result.Silent = result.RMS < a.SilenceThreshold
	return result
}

// CheckBuffer returns a human-readable issue for each invariant violation
// found in buffer, empty when the buffer is healthy.
func (a *AudioAnalyzer) CheckBuffer(buffer []float32, name string) []string {
	var issues []string
	result := a.Analyze(buffer)

	if result.HasNaN {
		issues = append(issues, fmt.Sprintf("%s: contains %d NaN/Inf samples", name, result.NaNCount))
	}
	if result.Clipping {
		issues = append(issues, fmt.Sprintf("%s: clipping detected (%d samples)", name, result.ClippedSamples))
	}
	if math.Abs(float64(result.DC)) > float64(a.DCThreshold) {
		issues = append(issues, fmt.Sprintf("%s: DC offset detected (%.3f)", name, result.DC))
	}
	if result.Peak > 1.0 {
		issues = append(issues, fmt.Sprintf("%s: peak exceeds 1.0 (%.3f)", name, result.Peak))
	}
	return issues
}

var defaultAnalyzer = NewAudioAnalyzer()

// CheckAudioBuffer logs a Warn for every issue found in buffer using the
// default analyzer.
func CheckAudioBuffer(buffer []float32, name string) {
	for _, issue := range defaultAnalyzer.CheckBuffer(buffer, name) {
		Warn(issue)
	}
}
