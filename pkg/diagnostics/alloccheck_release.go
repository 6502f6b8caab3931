//go:build !debug

package diagnostics

// DetectAllocation is a no-op outside -tags debug builds.
func DetectAllocation(fn func()) { fn() }
