//go:build linux

package ringbuffer

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// lockResident best-effort locks the ring's backing storage into physical
// memory, so the realtime consumer never takes a page fault reading from it.
// Failure (e.g. insufficient RLIMIT_MEMLOCK, common outside containers with
// elevated privileges) is silently tolerated: the buffer still works, it
// just loses the page-fault guarantee, matching the teacher's posture of
// never letting a diagnostic aid fail the caller.
func lockResident[T any](s []T) {
	if len(s) == 0 {
		return
	}
	var zero T
	size := int(unsafe.Sizeof(zero)) * len(s)
	if size == 0 {
		return
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), size)
	_ = unix.Mlock(b)
}
