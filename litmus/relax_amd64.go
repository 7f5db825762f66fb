//go:build amd64 && !noasm

// relax_amd64.go
//
// Go declaration for cpuRelax on amd64; the body lives in relax_amd64.s
// and emits a single PAUSE so the rendezvous spins back off politely.

package litmus

// cpuRelax executes the x86_64 PAUSE instruction.
//
//go:noescape
func cpuRelax()
