//go:build (!amd64 && !arm64) || noasm

// relax_stub.go
//
// Portable no-op so the engine compiles on every target.

package litmus

// cpuRelax is a no-op on unsupported targets.
func cpuRelax() {}
