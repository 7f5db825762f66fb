// engine.go
//
// Two-thread iteration engine for ordering litmus runs. Writer and
// reader live on locked, core-pinned OS threads and rendezvous once per
// iteration through a pair of one-way counters:
//
//   1. writer resets the shared state, then arms the iteration
//      (release), so the reset is visible before the reader watches;
//   2. reader observes the arm, runs its body against the live test
//      state, classifies what it saw, then marks the iteration done;
//   3. writer waits for done and loops.
//
// The bodies in between are the only racy region, which is the point:
// whatever ordering the body under test provides is all the ordering
// the classified reads get.

package litmus

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Params fixes one run's shape.
type Params struct {
	Iterations int
	WriterCore int
	ReaderCore int
}

// pacer carries the per-iteration rendezvous counters, each on its own
// cache-line so arming and completion never contend.
type pacer struct {
	_     [64]byte
	armed atomic.Uint64
	_pad1 [56]byte
	done  atomic.Uint64
	_pad2 [56]byte
}

// runPair drives iterations of a writer/reader body pair and counts how
// many reader observations were fully ordered. reset runs on the writer
// thread before each iteration is armed. The reader body returns true
// for an ordered observation.
func runPair(
	ctx context.Context,
	p Params,
	reset func(),
	writer func(),
	reader func() bool,
) (ordered, reordered uint64, err error) {
	var pace pacer
	iters := uint64(p.Iterations)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		setAffinity(p.WriterCore)

		for i := uint64(0); i < iters; i++ {
			if i&1023 == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			reset()
			pace.armed.Store(i + 1)
			writer()
			for spin := 0; pace.done.Load() != i+1; spin++ {
				if spin&8191 == 8191 && ctx.Err() != nil {
					return ctx.Err()
				}
				cpuRelax()
			}
		}
		return nil
	})

	g.Go(func() error {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		setAffinity(p.ReaderCore)

		for i := uint64(0); i < iters; i++ {
			if i&1023 == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			for spin := 0; pace.armed.Load() != i+1; spin++ {
				if spin&8191 == 8191 && ctx.Err() != nil {
					return ctx.Err()
				}
				cpuRelax()
			}
			if reader() {
				ordered++
			} else {
				reordered++
			}
			pace.done.Store(i + 1)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return ordered, reordered, nil
}

// plainLoad is a deliberately unordered word read. noinline keeps the
// load from being hoisted out of spin loops.
//
//go:noinline
//go:norace
func plainLoad(p *uintptr) uintptr { return *p }

// plainLoad64 is the 64-bit companion of plainLoad.
//
//go:noinline
//go:norace
func plainLoad64(p *uint64) uint64 { return *p }

// plainStore is a deliberately unordered word write.
//
//go:noinline
//go:norace
func plainStore(p *uintptr, v uintptr) { *p = v }

// plainStore64 is the 64-bit companion of plainStore.
//
//go:noinline
//go:norace
func plainStore64(p *uint64, v uint64) { *p = v }
