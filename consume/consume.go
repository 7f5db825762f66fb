// consume.go
//
// Package consume implements consume-ordered loads for Go: the weakest
// memory ordering that still guarantees reader-side ordering through data
// dependencies, as exposed by the address-dependency rule on ARM and POWER.
//
// A chain begins at a consume load of an atomic location. Every value that
// is computed from the loaded value — a dereference, an indexed element,
// an integer conversion for pointer tagging — stays ordered after the
// matching release store on the writer side, without any reader fence, for
// as long as the chain is unbroken. The types in this package make the
// chain explicit so that breaking it is visible in the source:
//
//   - Dependency is the opaque token a chain threads through values.
//   - Dependent[T] pairs a plain value with its token.
//   - Ptr[T] is a restricted pointer that carries its token implicitly and
//     only exposes operations that keep the chain alive.
//
// Two mechanisms back the token. For bookkeeping, each chain-extending
// read mints a tag bit, and merging chains ORs the bits; a pointer whose
// token has no bits is untracked. For the hardware guarantee, the token
// also carries a word that is always zero at runtime but is computed from
// the loaded values behind an assembly boundary the compiler cannot see
// through; that word is OR-ed into every dependent address, so the ISA
// observes a genuine address dependency from the consume load to each
// subsequent read.
//
// Nothing here can fail at runtime. Misuse — assigning a raw pointer over
// a tracked one, comparing through the wrapper, escaping the chain through
// Escape — is a usage hazard the tracked/untracked split makes visible,
// not an error condition.
//
// Read-modify-write consume forms (exchange, compare-exchange) are
// deliberately absent; only the load forms are defined.
package consume

import (
	_ "go4.org/unsafe/assume-no-moving-gc"
)
