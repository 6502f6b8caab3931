package diagnostics

import "testing"

func TestDetectAllocationRunsFn(t *testing.T) {
	ran := false
	DetectAllocation(func() { ran = true })
	if !ran {
		t.Error("DetectAllocation did not invoke fn")
	}
}
