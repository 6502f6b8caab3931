package diagnostics

import (
	"testing"
	"time"
)

func TestProfilerRecordsStartStop(t *testing.T) {
	p := NewProfiler()
	stop := p.Start("refill_audio")
	time.Sleep(time.Millisecond)
	stop()

	m, ok := p.GetMeasurement("refill_audio")
	if !ok {
		t.Fatal("expected a measurement for refill_audio")
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
	if m.Average() <= 0 {
		t.Errorf("Average() = %v, want > 0", m.Average())
	}
}

func TestProfilerDisabledSkipsRecording(t *testing.T) {
	p := NewProfiler()
	p.SetEnabled(false)
	stop := p.Start("refill_midi")
	stop()

	if _, ok := p.GetMeasurement("refill_midi"); ok {
		t.Errorf("expected no measurement when disabled")
	}
}

func TestProfilerReset(t *testing.T) {
	p := NewProfiler()
	p.Time("seek", func() {})
	p.Reset()
	if _, ok := p.GetMeasurement("seek"); ok {
		t.Errorf("expected measurements cleared after Reset")
	}
}

func TestRefillBudgetReportsOverage(t *testing.T) {
	p := NewProfiler()
	p.record("refill_audio", 100*time.Millisecond)

	within, report := p.RefillBudget("refill_audio", 256, 44100)
	if within {
		t.Errorf("100ms refill against a ~6ms chunk budget should be over budget; report=%s", report)
	}

	p2 := NewProfiler()
	p2.record("refill_audio", time.Microsecond)
	within2, _ := p2.RefillBudget("refill_audio", 65536, 44100)
	if !within2 {
		t.Errorf("1us refill should be within budget")
	}
}
