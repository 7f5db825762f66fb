// litmus.go
//
// Package litmus runs message-passing ordering experiments at scale: a
// writer initializes a payload and publishes it, a reader observes the
// publication and classifies whether the payload arrived intact. Run
// enough iterations on a weakly-ordered machine and the unordered
// variant shows stale payloads, while the consume-chained variant must
// never do so — that observable difference is the whole reason the
// dependency-chain discipline exists.
//
// Built-in experiments:
//
//	mp/consume  — release publish, reader chains through a consume load
//	mp/acquire  — release publish, reader uses a Go atomic load (baseline)
//	mp/plain    — unordered plain loads and stores (the control; may
//	              legitimately observe reordering on weak hardware)
//	ring/consume — publication through the SPSC ring's tracked Pop
//	rcu/consume  — version reads through an RCU cell
package litmus

import (
	"context"
	"sync/atomic"

	"github.com/TNorthover/stdconsume/consume"
	"github.com/TNorthover/stdconsume/rcu"
	"github.com/TNorthover/stdconsume/ring"
)

// Test is one runnable ordering experiment.
type Test struct {
	Name        string
	Description string

	// Expect reports whether a reordered observation is a failure for
	// this test (true for every chained/fenced variant) or an expected
	// possibility (the plain control).
	ExpectOrdered bool

	Run func(ctx context.Context, p Params) (ordered, reordered uint64, err error)
}

// mpState is the shared cell of the message-passing experiments. The
// payload and the two flag encodings sit on separate cache-lines.
type mpState struct {
	data  uint64
	_pad0 [56]byte
	cell  atomic.Pointer[uint64]
	_pad1 [56]byte
	word  uintptr
	_pad2 [56]byte
}

const payloadValue = 0x600dda7a

func runMPConsume(ctx context.Context, p Params) (uint64, uint64, error) {
	var s mpState
	return runPair(ctx, p,
		func() {
			s.data = 0
			s.cell.Store(nil)
		},
		func() {
			plainStore64(&s.data, payloadValue)
			s.cell.Store(&s.data) // release publish
		},
		func() bool {
			var h consume.Ptr[uint64]
			for {
				h = consume.Load(&s.cell)
				if h.Escape() != nil {
					break
				}
				cpuRelax()
			}
			return h.Deref().Value == payloadValue
		},
	)
}

func runMPAcquire(ctx context.Context, p Params) (uint64, uint64, error) {
	var s mpState
	return runPair(ctx, p,
		func() {
			s.data = 0
			s.cell.Store(nil)
		},
		func() {
			plainStore64(&s.data, payloadValue)
			s.cell.Store(&s.data)
		},
		func() bool {
			var ptr *uint64
			for {
				if ptr = s.cell.Load(); ptr != nil {
					break
				}
				cpuRelax()
			}
			return *ptr == payloadValue
		},
	)
}

func runMPPlain(ctx context.Context, p Params) (uint64, uint64, error) {
	var s mpState
	return runPair(ctx, p,
		func() {
			plainStore64(&s.data, 0)
			plainStore(&s.word, 0)
		},
		func() {
			plainStore64(&s.data, payloadValue)
			plainStore(&s.word, 1) // unordered publish: the control
		},
		func() bool {
			for plainLoad(&s.word) == 0 {
				cpuRelax()
			}
			return plainLoad64(&s.data) == payloadValue
		},
	)
}

func runRingConsume(ctx context.Context, p Params) (uint64, uint64, error) {
	r := ring.New[uint64](2)
	var slot uint64
	return runPair(ctx, p,
		func() {
			// A stale payload must be distinguishable from the
			// published one, or the classifier is blind.
			plainStore64(&slot, 0)
		},
		func() {
			plainStore64(&slot, payloadValue)
			for !r.Push(&slot) {
				cpuRelax()
			}
		},
		func() bool {
			h := r.PopWait()
			return h.Deref().Value == payloadValue
		},
	)
}

func runRCUConsume(ctx context.Context, p Params) (uint64, uint64, error) {
	var c rcu.Cell[uint64]
	var v uint64
	return runPair(ctx, p,
		func() {
			plainStore64(&v, 0)
			c.Publish(nil)
		},
		func() {
			plainStore64(&v, payloadValue)
			c.Publish(&v)
		},
		func() bool {
			var h consume.Ptr[uint64]
			for {
				h = c.Read()
				if h.Escape() != nil {
					break
				}
				cpuRelax()
			}
			return h.Deref().Value == payloadValue
		},
	)
}

// Builtin returns every built-in experiment, in a stable order.
func Builtin() []Test {
	return []Test{
		{
			Name:          "mp/consume",
			Description:   "release publish; reader chains through a consume load",
			ExpectOrdered: true,
			Run:           runMPConsume,
		},
		{
			Name:          "mp/acquire",
			Description:   "release publish; reader uses an atomic load (baseline)",
			ExpectOrdered: true,
			Run:           runMPAcquire,
		},
		{
			Name:          "mp/plain",
			Description:   "unordered publish and read (control; may reorder)",
			ExpectOrdered: false,
			Run:           runMPPlain,
		},
		{
			Name:          "ring/consume",
			Description:   "publication through the SPSC ring's tracked Pop",
			ExpectOrdered: true,
			Run:           runRingConsume,
		},
		{
			Name:          "rcu/consume",
			Description:   "version reads through an RCU cell",
			ExpectOrdered: true,
			Run:           runRCUConsume,
		},
	}
}

// Lookup finds a built-in experiment by name.
func Lookup(name string) (Test, bool) {
	for _, t := range Builtin() {
		if t.Name == name {
			return t, true
		}
	}
	return Test{}, false
}
