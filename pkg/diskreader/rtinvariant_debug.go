//go:build debug

package diskreader

// rtInvariantBroken aborts the process immediately: debug builds want a
// realtime invariant violation to crash loudly at the point it happened
// rather than silently degrade. See rtinvariant_release.go for the
// production behavior.
func rtInvariantBroken(msg string) {
	panic(msg)
}
