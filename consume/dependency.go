// dependency.go
//
// The Dependency token. Combinable, never comparable: exposing equality
// would let an optimizing build branch on token identity and treat reads
// past the branch as independent of the chain, which is exactly the
// reordering the chain exists to rule out.

package consume

import (
	"sync/atomic"
	"unsafe"
)

// ptrBits is the word width in bits (32 or 64).
const ptrBits = 32 << (^uintptr(0) >> 63)

// tagCounter mints a distinct bit position for every chain-extending read.
var tagCounter atomic.Uint64

// nextTag returns a one-bit bookkeeping tag for a single read. Positions
// wrap at the word width; a collision merely merges two chains, which is
// conservative (false dependencies are allowed, missing ones are not).
func nextTag() uintptr {
	n := tagCounter.Add(1)
	return uintptr(1) << (n & (ptrBits - 1))
}

// Dependency is an opaque token representing a chain of data-dependent
// reads rooted at one or more consume loads. The zero value carries no
// dependency. Tokens have no equality or ordering operations.
type Dependency struct {
	// bits records which reads this token covers; zero means untracked.
	bits uintptr
	// zero is always 0 at runtime but is data-dependent on every value
	// the chain has passed through. It is what flows into addresses.
	zero uintptr
}

// DependencyOn seeds a fresh token from an arbitrary loaded value. Any
// load result can root a chain; the token it returns is data-dependent on
// v at the ISA level.
func DependencyOn[T any](v T) Dependency {
	return Dependency{bits: nextTag(), zero: zeroOf(wordOf(v))}
}

// Combine merges two tokens into one that depends on both inputs. The
// operation is associative, commutative, and idempotent.
func (d Dependency) Combine(o Dependency) Dependency {
	return Dependency{bits: d.bits | o.bits, zero: d.zero | o.zero}
}

// Mask returns v unchanged while making the result data-dependent on the
// token. This is the pointer-tagging primitive: tag arithmetic performed
// on a masked address stays inside the chain.
func (d Dependency) Mask(v uintptr) uintptr {
	return v | d.zero
}

// extend covers one more read with a fresh tag. An untracked token stays
// untracked: there is no chain to extend.
func (d Dependency) extend() Dependency {
	if d.bits == 0 {
		return Dependency{}
	}
	return Dependency{bits: d.bits | nextTag(), zero: d.zero}
}

// extendWith additionally makes the token depend on a word produced by
// the read being covered, so chains continued from the read's result keep
// the hardware dependency.
func (d Dependency) extendWith(w uintptr) Dependency {
	if d.bits == 0 {
		return Dependency{}
	}
	return Dependency{bits: d.bits | nextTag(), zero: d.zero | zeroOf(w)}
}

// wordOf folds a value of any type into a single machine word. Only data
// dependence matters, not distribution, so plain XOR folding is enough.
func wordOf[T any](v T) uintptr {
	switch size := unsafe.Sizeof(v); size {
	case 1:
		return uintptr(*(*uint8)(unsafe.Pointer(&v)))
	case 2:
		return uintptr(*(*uint16)(unsafe.Pointer(&v)))
	case 4:
		return uintptr(*(*uint32)(unsafe.Pointer(&v)))
	case 8:
		return uintptr(*(*uint64)(unsafe.Pointer(&v)))
	default:
		var w uintptr
		b := unsafe.Slice((*byte)(unsafe.Pointer(&v)), size)
		for i, c := range b {
			w ^= uintptr(c) << ((i & 7) * 8)
		}
		return w
	}
}
