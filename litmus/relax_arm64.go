//go:build arm64 && !noasm

// relax_arm64.go
//
// Go declaration for cpuRelax on arm64; the body lives in relax_arm64.s
// and emits a YIELD hint for the rendezvous spins.

package litmus

// cpuRelax executes the arm64 YIELD instruction.
//
//go:noescape
func cpuRelax()
