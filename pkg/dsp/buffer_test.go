package dsp

import "testing"

func TestClear(t *testing.T) {
	buf := []float32{1, 2, 3}
	Clear(buf)
	for i, v := range buf {
		if v != 0 {
			t.Errorf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestAdd(t *testing.T) {
	dst := []float32{1, 2, 3}
	Add(dst, []float32{10, 20, 30})
	want := []float32{11, 22, 33}
	for i, v := range want {
		if dst[i] != v {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], v)
		}
	}
}

func TestScale(t *testing.T) {
	buf := []float32{1, 2, 3}
	Scale(buf, 0.5)
	want := []float32{0.5, 1, 1.5}
	for i, v := range want {
		if buf[i] != v {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], v)
		}
	}
}

func TestPeak(t *testing.T) {
	if got := Peak([]float32{0.1, -0.9, 0.3}); got != 0.9 {
		t.Errorf("Peak() = %v, want 0.9", got)
	}
}

func TestClip(t *testing.T) {
	buf := []float32{2, -2, 0.5}
	Clip(buf, 1.0)
	want := []float32{1, -1, 0.5}
	for i, v := range want {
		if buf[i] != v {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], v)
		}
	}
}
