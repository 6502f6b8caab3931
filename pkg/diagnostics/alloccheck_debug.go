//go:build debug

package diagnostics

import (
	"fmt"
	"runtime"
)

// DetectAllocation runs fn and panics if it caused any heap growth. A test
// can wrap a realtime path such as DiskReader.Run in it to check that the
// path does not allocate; only compiled into -tags debug builds since ReadMemStats
// forces a GC and is too heavy to carry in production.
func DetectAllocation(fn func()) {
	var before, after runtime.MemStats

	runtime.GC()
	runtime.ReadMemStats(&before)

	fn()

	runtime.ReadMemStats(&after)

	if after.Mallocs > before.Mallocs {
		panic(fmt.Sprintf("allocation detected in realtime path: %d mallocs", after.Mallocs-before.Mallocs))
	}
}
