//go:build !linux || tinygo

// setaffinity_stub.go
//
// No-op pinning fallback; runs still execute, just without fixed cores.

package litmus

// setAffinity is a no-op on unsupported platforms.
func setAffinity(cpu int) {}
