package diagnostics

import "testing"

func TestAnalyzeDetectsClipping(t *testing.T) {
	a := NewAudioAnalyzer()
	buf := []float32{0.1, 0.995, -0.998, 0.2}
	result := a.Analyze(buf)
	if !result.Clipping {
		t.Error("expected clipping to be detected")
	}
	if result.ClippedSamples != 2 {
		t.Errorf("ClippedSamples = %d, want 2", result.ClippedSamples)
	}
}

func TestAnalyzeDetectsNaN(t *testing.T) {
	a := NewAudioAnalyzer()
	buf := []float32{0.1, float32(nan()), 0.2}
	result := a.Analyze(buf)
	if !result.HasNaN || result.NaNCount != 1 {
		t.Errorf("expected 1 NaN detected, got HasNaN=%v count=%d", result.HasNaN, result.NaNCount)
	}
}

func TestAnalyzeDetectsSilence(t *testing.T) {
	a := NewAudioAnalyzer()
	buf := make([]float32, 16)
	result := a.Analyze(buf)
	if !result.Silent {
		t.Error("expected an all-zero buffer to be reported silent")
	}
}

func TestCheckBufferHealthyProducesNoIssues(t *testing.T) {
	a := NewAudioAnalyzer()
	buf := []float32{0.1, -0.1, 0.2, -0.2}
	if issues := a.CheckBuffer(buf, "disk"); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}
