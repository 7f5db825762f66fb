// pinned_consumer.go
//
// Low-latency SPSC consumer on a dedicated, core-pinned OS thread.
//
//   • Hot-spins (tight loop, no cpuRelax) while work keeps arriving
//     within hotTimeout OR the producer holds the hot flag at 1.
//   • After the grace window, and once hot == 0, drops to cold-spin:
//     cpuRelax every iteration.
//   • Exits only when *stop == 1 and closes done exactly once.
//
// The callback receives the tracked handle straight from Pop, so every
// read the consumer performs through it is ordered after the producer's
// publication without a reader-side fence.
//
// hot flag contract:
//     Producer             Consumer
//     --------             ------------------------------
//     Store 1  ─────────▶  read (wake / stay hot-spin)
//     ...push items…
//     (optionally) Store 0  ◀─ consumer never writes

package ring

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/TNorthover/stdconsume/consume"
)

const (
	spinBudget = 256              // polls before cold back-off
	hotTimeout = 15 * time.Second // hot-spin grace
)

// PinnedConsumer drains r until *stop is set.
func PinnedConsumer[T any](
	core int,
	r *Ring[T],
	stop, hot *uint32,
	fn func(consume.Ptr[T]),
	done chan<- struct{},
) {
	go func() {
		runtime.LockOSThread()
		setAffinity(core) // stub on non-Linux
		defer func() {
			runtime.UnlockOSThread()
			close(done)
		}()

		last := time.Now() // last time Pop delivered
		miss := 0

		for {
			// fast path: Pop succeeded → process & mark activity
			if p, ok := r.Pop(); ok {
				fn(p)
				last, miss = time.Now(), 0
				continue
			}

			// stop request?
			if atomic.LoadUint32(stop) != 0 {
				return
			}

			hotSpin := atomic.LoadUint32(hot) != 0 ||
				time.Since(last) <= hotTimeout

			if hotSpin {
				// tight loop: no cpuRelax
				continue
			}

			// cold-spin path: power-friendlier
			if miss++; miss >= spinBudget {
				miss = 0
			}
			cpuRelax()
		}
	}()
}
