// ptr.go
//
// Ptr[T]: a restricted pointer that carries its dependency token
// implicitly. It exposes only the operations that can be performed
// without severing the chain; everything else must go through an explicit
// escape to a raw *T, which is visibly chain-breaking in the source.
//
// A Ptr is always in one of two states: untracked (raw-constructed, the
// zero value, or overwritten by a raw pointer) or tracked (built with a
// token, or produced by a consume load). The asymmetry to keep in mind:
// copying and tracked assignment merge chains, raw assignment breaks
// them.
//
// Comparison operators are intentionally not provided. Branching on a
// tracked comparison would let the optimizer order dependent reads
// against the branch instead of the chain; compare the raw pointers from
// RawValue or Escape instead.

package consume

import "unsafe"

// Ptr is a pointer obtained through, or attached to, a dependency chain.
// Plain struct copies duplicate the token verbatim, which is
// conservative; use Adopt to merge in the copying context's own chain.
type Ptr[T any] struct {
	ptr unsafe.Pointer
	dep Dependency
}

// Untracked wraps a raw pointer with no chain. The zero Ptr is
// equivalent to Untracked[T](nil).
func Untracked[T any](p *T) Ptr[T] {
	return Ptr[T]{ptr: unsafe.Pointer(p)}
}

// UntrackedNil is an untracked null pointer.
func UntrackedNil[T any]() Ptr[T] {
	return Ptr[T]{}
}

// Tracked wraps a raw pointer and attaches an existing chain to it.
func Tracked[T any](p *T, d Dependency) Ptr[T] {
	return Ptr[T]{ptr: unsafe.Pointer(p), dep: d}
}

// FromUintptr rebuilds a pointer from a chain-carrying address integer,
// typically after tag arithmetic. The chain survives the round trip.
//
//go:nocheckptr
func FromUintptr[T any](dv Dependent[uintptr]) Ptr[T] {
	return Ptr[T]{ptr: unsafe.Pointer(dv.Dep.Mask(dv.Value)), dep: dv.Dep}
}

// FromIntptr is the signed-integer counterpart of FromUintptr.
//
//go:nocheckptr
func FromIntptr[T any](dv Dependent[int64]) Ptr[T] {
	return Ptr[T]{ptr: unsafe.Pointer(dv.Dep.Mask(uintptr(dv.Value))), dep: dv.Dep}
}

// Adopt is the copy-construction form: the result holds src's pointer
// and a token covering both src's chain and the adopting context's
// accumulated chain. Whatever chain the destination held before is
// irrelevant, since a fresh value is produced.
func Adopt[T any](src Ptr[T], ambient Dependency) Ptr[T] {
	return Ptr[T]{ptr: src.ptr, dep: src.dep.Combine(ambient)}
}

// SetRaw overwrites p with a raw pointer, breaking the chain: p is
// untracked afterwards regardless of its prior token.
func (p *Ptr[T]) SetRaw(v *T) {
	*p = Ptr[T]{ptr: unsafe.Pointer(v)}
}

// SetNil overwrites p with null, breaking the chain.
func (p *Ptr[T]) SetNil() {
	*p = Ptr[T]{}
}

// Assign overwrites p from another tracked pointer, extending src's
// chain to cover both the assignment and the assigned-to location. An
// untracked src leaves p untracked: there is no chain to extend.
func (p *Ptr[T]) Assign(src Ptr[T]) {
	*p = Ptr[T]{ptr: src.ptr, dep: src.dep.extend()}
}

// ToUintptr converts the address to an integer with the chain extended
// to the result, so pointer tagging can be performed without leaving the
// chain.
func (p Ptr[T]) ToUintptr() Dependent[uintptr] {
	return Dependent[uintptr]{Value: uintptr(p.ptr), Dep: p.dep.extend()}
}

// ToIntptr is the signed counterpart of ToUintptr.
func (p Ptr[T]) ToIntptr() Dependent[int64] {
	return Dependent[int64]{Value: int64(uintptr(p.ptr)), Dep: p.dep.extend()}
}

// At reads element i relative to p, extending the chain to the element.
//
//go:norace
func (p Ptr[T]) At(i int) Dependent[T] {
	var z T
	v := *(*T)(unsafe.Add(p.masked(), i*int(unsafe.Sizeof(z))))
	return Dependent[T]{Value: v, Dep: p.dep.extendWith(wordOf(v))}
}

// Deref reads the pointee, extending the chain to the value read.
//
//go:norace
func (p Ptr[T]) Deref() Dependent[T] {
	v := *(*T)(p.masked())
	return Dependent[T]{Value: v, Dep: p.dep.extendWith(wordOf(v))}
}

// Addr returns the address of p's own pointer slot, with the chain
// extended to the result. A free function rather than a method: a
// method returning Ptr[*T] would force the compiler to instantiate
// Ptr[*T], then Ptr[**T], without end.
func Addr[T any](p *Ptr[T]) Ptr[*T] {
	return Ptr[*T]{ptr: unsafe.Pointer(&p.ptr), dep: p.dep.extend()}
}

// Escape returns the raw pointer WITHOUT extending the chain into it.
// The access itself sits inside the chain — this is the member-access
// escape hatch, an offset computation whose result leaves the chain as
// an untracked raw handle. Reads made through the returned pointer are
// not ordered by the originating consume load.
func (p Ptr[T]) Escape() *T {
	return (*T)(p.ptr)
}

// RawValue returns the raw pointer with the chain extended to that
// value, for the cases where a plain *T is genuinely required — calling
// through a function pointer, handing the address to code that cannot
// take a Ptr. Unlike Escape, the returned value itself carries the
// hardware dependency.
//
//go:nocheckptr
func (p Ptr[T]) RawValue() *T {
	return (*T)(p.masked())
}

// Dependency returns the pure token, with no payload attached.
func (p Ptr[T]) Dependency() Dependency {
	return p.dep
}

// Tracked reports whether p currently carries a chain. Bookkeeping only;
// never gate a dependent read on it.
func (p Ptr[T]) Tracked() bool {
	return p.dep.bits != 0
}

// masked is the address every dependent access goes through: identical
// to the stored pointer at runtime, data-dependent on the chain at the
// ISA level.
//
//go:nocheckptr
func (p Ptr[T]) masked() unsafe.Pointer {
	return unsafe.Pointer(p.dep.Mask(uintptr(p.ptr)))
}
