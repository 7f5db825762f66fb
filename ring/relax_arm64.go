//go:build arm64 && !noasm

// relax_arm64.go
//
// Go declaration for cpuRelax on arm64.  The implementation lives in
// relax_arm64.s and emits a YIELD hint so spin loops share the core
// politely, which matters on big.LITTLE and Apple Silicon parts.

package ring

// cpuRelax executes the arm64 YIELD instruction.
//
//go:noescape
func cpuRelax()
