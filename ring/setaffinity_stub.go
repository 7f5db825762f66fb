//go:build !linux || tinygo

// setaffinity_stub.go
//
// No-op affinity fallback for platforms without sched_setaffinity(2).
// The consumer still runs on a locked OS thread, just not a chosen core.

package ring

// setAffinity is a no-op on unsupported platforms.
func setAffinity(cpu int) {}
