// ring.go
//
// Lock-free single-producer/single-consumer publication ring whose
// consumer side rides dependency ordering instead of acquire fences.
// The producer initializes an object, then release-publishes its address
// into a slot; the consumer reads the slot's sequence stamp and reaches
// the payload through a load whose address depends on that stamp, so the
// payload read is ordered after the publication on any target with an
// address-dependency rule.  Producer and consumer fields sit on separate
// cache-lines to avoid false sharing, and each slot carries a sequence
// number so Push/Pop stay wait-free.

package ring

import (
	"sync/atomic"

	"github.com/TNorthover/stdconsume/consume"
)

// slot couples a payload pointer with its sequence stamp.
type slot[T any] struct {
	seq uint64 // position in the sequence space
	ptr *T     // published payload
}

// Ring is a fixed-capacity circular buffer dedicated to one producer and
// one consumer. Pop hands out consume-tracked pointers; dereference them
// through the tracked handle, not through an escaped raw pointer, or the
// publication guarantee is lost.
type Ring[T any] struct {
	_    [64]byte // producer head isolated on its own cache-line
	head uint64
	//lint:ignore U1000 padding to keep head & tail on different cache-lines
	_pad1 [64]byte
	tail  uint64
	//lint:ignore U1000 padding to keep hot fields from colliding with metadata
	_pad2 [64]byte
	mask  uint64
	buf   []slot[T]
}

// New allocates a ring whose size must be a power-of-two; otherwise it
// panics so that the bit-masking arithmetic stays valid.
func New[T any](size int) *Ring[T] {
	if size <= 0 || size&(size-1) != 0 {
		panic("ring: size must be >0 and a power of two")
	}
	r := &Ring[T]{
		mask: uint64(size - 1),
		buf:  make([]slot[T], size),
	}
	for i := range r.buf {
		r.buf[i].seq = uint64(i)
	}
	return r
}

// Push publishes p, returning false if the buffer is full. Every write
// that initializes *p must precede Push in program order; the release
// store of the sequence stamp is what publishes them.
func (r *Ring[T]) Push(p *T) bool {
	t := r.tail
	s := &r.buf[t&r.mask]
	if atomic.LoadUint64(&s.seq) != t {
		return false // consumer has not yet reclaimed the slot
	}
	s.ptr = p
	atomic.StoreUint64(&s.seq, t+1) // release publish
	r.tail = t + 1
	return true
}

// Pop dequeues the next published pointer as a tracked handle, or
// (untracked nil, false) if the buffer is empty. The returned chain is
// rooted in the sequence-stamp read that observed the publication.
func (r *Ring[T]) Pop() (consume.Ptr[T], bool) {
	h := r.head
	s := &r.buf[h&r.mask]
	seq := atomic.LoadUint64(&s.seq)
	if seq != h+1 {
		return consume.UntrackedNil[T](), false // nothing published yet
	}
	p := consume.LoadAt(&s.ptr, consume.DependencyOn(seq))
	atomic.StoreUint64(&s.seq, h+uint64(len(r.buf))) // reclaim the slot
	r.head = h + 1
	return p, true
}

// PopWait busy-spins until an item becomes available.
func (r *Ring[T]) PopWait() consume.Ptr[T] {
	for {
		if p, ok := r.Pop(); ok {
			return p
		}
		cpuRelax()
	}
}
