//go:build (amd64 || arm64) && !noasm

// dep_asm.go
//
// Go declarations for the opaque dependency primitives on amd64 and
// arm64. The bodies live in dep_amd64.s / dep_arm64.s. Keeping them in
// assembly is the point: the compiler cannot prove zeroOf returns 0, so
// the masked addresses built from it are never folded back to plain
// loads, and on arm64 the EOR-self idiom keeps the architectural address
// dependency intact.

package consume

// zeroOf returns 0 through a computation that is data-dependent on w.
//
//go:noescape
func zeroOf(w uintptr) uintptr

// loadRelaxedUintptr performs a single unordered word load of *p.
//
//go:noescape
func loadRelaxedUintptr(p *uintptr) uintptr

// loadRelaxed64 performs a single unordered 64-bit load of *p.
//
//go:noescape
func loadRelaxed64(p *uint64) uint64

// loadRelaxed32 performs a single unordered 32-bit load of *p.
//
//go:noescape
func loadRelaxed32(p *uint32) uint32
