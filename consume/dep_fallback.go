//go:build (!amd64 && !arm64) || noasm

// dep_fallback.go
//
// Portable implementations for targets without assembly stubs. The
// loads use sync/atomic, whose seq-cst ordering is a conservative
// superset of relaxed. zeroOf hides behind noinline so the call site
// cannot constant-fold the result; that is weaker than the assembly
// boundary but these targets either order loads anyway or fall back to
// the atomic ordering above.

package consume

import "sync/atomic"

//go:noinline
func zeroOf(w uintptr) uintptr {
	return w ^ w
}

func loadRelaxedUintptr(p *uintptr) uintptr {
	return atomic.LoadUintptr(p)
}

func loadRelaxed64(p *uint64) uint64 {
	return atomic.LoadUint64(p)
}

func loadRelaxed32(p *uint32) uint32 {
	return atomic.LoadUint32(p)
}
