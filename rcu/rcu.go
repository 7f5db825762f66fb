// rcu.go
//
// Package rcu is a small user-space read-copy-update layer built on
// consume-ordered loads: readers reach the current version of an object
// through an unbroken dependency chain and pay no fence, writers publish
// full replacement objects with a release store and wait out readers
// with an epoch-based grace period.
//
// The shape is the classic one. A Cell holds the published pointer.
// Readers register once with a Domain, bracket each access between
// Lock/Unlock on their handle, and read through Cell.Read. A writer
// swaps in a new object with Cell.Publish and calls Domain.Synchronize
// before reclaiming the old one; Synchronize returns only after every
// reader active at the time of the call has left its critical section.
//
// There is no deferred-free callback queue; Synchronize is the only
// reclamation primitive.
package rcu

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/TNorthover/stdconsume/consume"
)

// Cell is a published pointer protected by the RCU discipline. The zero
// value is ready to use and holds nil.
type Cell[T any] struct {
	p atomic.Pointer[T]
}

// Publish makes v the current version. Every write initializing *v must
// precede Publish in program order; the store is a release, which pairs
// with the consume load on the reader side.
func (c *Cell[T]) Publish(v *T) {
	c.p.Store(v)
}

// Read returns the current version as a tracked handle. Call it between
// Reader.Lock and Reader.Unlock, and reach the object only through the
// handle: an escaped raw pointer is outside the chain and outside the
// guarantee.
func (c *Cell[T]) Read() consume.Ptr[T] {
	return consume.Load(&c.p)
}

// Domain tracks a set of registered readers for grace-period purposes.
type Domain struct {
	mu      sync.Mutex
	readers []*Reader
}

// Reader is one participant's registration. Each counter lives on its
// own cache-line so reader brackets never contend with each other.
type Reader struct {
	_     [64]byte
	epoch atomic.Uint64 // odd while inside a critical section
	_pad  [56]byte
}

// Register adds a reader to the domain. Handles are not reclaimed; a
// long-lived worker registers once and keeps its handle.
func (d *Domain) Register() *Reader {
	r := new(Reader)
	d.mu.Lock()
	d.readers = append(d.readers, r)
	d.mu.Unlock()
	return r
}

// Lock enters a read-side critical section. Read-side brackets never
// block and never allocate.
func (r *Reader) Lock() {
	r.epoch.Add(1)
}

// Unlock leaves the critical section entered by the matching Lock.
func (r *Reader) Unlock() {
	r.epoch.Add(1)
}

// Synchronize blocks until every reader that was inside a critical
// section when it was called has exited it. After it returns, no reader
// can still hold a handle to a version unpublished before the call.
func (d *Domain) Synchronize() {
	d.mu.Lock()
	readers := make([]*Reader, len(d.readers))
	copy(readers, d.readers)
	d.mu.Unlock()

	for _, r := range readers {
		start := r.epoch.Load()
		if start&1 == 0 {
			continue // quiescent at snapshot time
		}
		for r.epoch.Load() == start {
			runtime.Gosched() // cold wait; politeness beats latency here
		}
	}
}
