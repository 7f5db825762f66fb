// load.go
//
// The consume-load entry points. Three forms, mirroring how chains are
// used in practice:
//
//   1. Load / LoadUint32 / LoadUint64 / LoadUintptr — begin a chain from
//      an atomic location.
//   2. LoadThrough / LoadDependent — continue an existing chain through a
//      subsequent load whose address already depends on a tracked value.
//   3. LoadAt / LoadValueAt — manual bridging, when the caller holds a
//      raw address plus an explicit token.
//
// The loads themselves are relaxed where the target provides assembly;
// the portable fallback is sequentially consistent, a strictly stronger
// superset. Ordering against the writer's release store comes from the
// dependency, not from a fence.

package consume

import (
	"sync/atomic"
	"unsafe"
)

// The reinterpretations below rely on each atomic wrapper being exactly
// its payload word.
var (
	_ [unsafe.Sizeof(atomic.Pointer[byte]{}) - unsafe.Sizeof(uintptr(0))]byte
	_ [unsafe.Sizeof(uintptr(0)) - unsafe.Sizeof(atomic.Pointer[byte]{})]byte
	_ [unsafe.Sizeof(atomic.Uintptr{}) - unsafe.Sizeof(uintptr(0))]byte
	_ [unsafe.Sizeof(uintptr(0)) - unsafe.Sizeof(atomic.Uintptr{})]byte
	_ [unsafe.Sizeof(atomic.Uint64{}) - 8]byte
	_ [8 - unsafe.Sizeof(atomic.Uint64{})]byte
	_ [unsafe.Sizeof(atomic.Uint32{}) - 4]byte
	_ [4 - unsafe.Sizeof(atomic.Uint32{})]byte
)

// Load begins a dependency chain from an atomic pointer cell. If the
// loaded value was published by a release store on another thread, every
// read reached through the returned Ptr without breaking the chain is
// ordered after that store.
//
//go:nocheckptr
func Load[T any](cell *atomic.Pointer[T]) Ptr[T] {
	w := loadRelaxedUintptr((*uintptr)(unsafe.Pointer(cell)))
	d := Dependency{bits: nextTag(), zero: zeroOf(w)}
	return Ptr[T]{ptr: unsafe.Pointer(d.Mask(w)), dep: d}
}

// LoadUintptr begins a chain from an atomic word.
func LoadUintptr(cell *atomic.Uintptr) Dependent[uintptr] {
	w := loadRelaxedUintptr((*uintptr)(unsafe.Pointer(cell)))
	return Dependent[uintptr]{Value: w, Dep: Dependency{bits: nextTag(), zero: zeroOf(w)}}
}

// LoadUint64 begins a chain from an atomic 64-bit scalar.
func LoadUint64(cell *atomic.Uint64) Dependent[uint64] {
	w := loadRelaxed64((*uint64)(unsafe.Pointer(cell)))
	return Dependent[uint64]{Value: w, Dep: Dependency{bits: nextTag(), zero: zeroOf(uintptr(w))}}
}

// LoadUint32 begins a chain from an atomic 32-bit scalar.
func LoadUint32(cell *atomic.Uint32) Dependent[uint32] {
	w := loadRelaxed32((*uint32)(unsafe.Pointer(cell)))
	return Dependent[uint32]{Value: w, Dep: Dependency{bits: nextTag(), zero: zeroOf(uintptr(w))}}
}

// LoadThrough continues a chain through a pointer-to-pointer: the
// address of the load depends on the incoming chain, and the returned
// Ptr covers both that chain and the new read.
//
//go:nocheckptr
func LoadThrough[T any](p Ptr[*T]) Ptr[T] {
	w := loadRelaxedUintptr((*uintptr)(p.masked()))
	d := Dependency{bits: p.dep.bits | nextTag(), zero: p.dep.zero | zeroOf(w)}
	return Ptr[T]{ptr: unsafe.Pointer(d.Mask(w)), dep: d}
}

// LoadDependent continues a chain through a load of a non-pointer value.
//
//go:norace
func LoadDependent[T any](p Ptr[T]) Dependent[T] {
	v := *(*T)(p.masked())
	d := Dependency{bits: p.dep.bits | nextTag(), zero: p.dep.zero | zeroOf(wordOf(v))}
	return Dependent[T]{Value: v, Dep: d}
}

// LoadAt bridges a raw pointer-to-pointer plus an explicit token into a
// chained load, for callers that tracked the dependency by hand.
func LoadAt[T any](pp **T, d Dependency) Ptr[T] {
	return LoadThrough(Tracked(pp, d))
}

// LoadValueAt is the value analog of LoadAt.
func LoadValueAt[T any](p *T, d Dependency) Dependent[T] {
	return LoadDependent(Tracked(p, d))
}
