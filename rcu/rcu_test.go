package rcu

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestPublishRead checks the basic read path: a published object is
// visible through a tracked handle, and an empty cell reads as nil.
func TestPublishRead(t *testing.T) {
	var c Cell[uint64]
	if p := c.Read(); p.Escape() != nil {
		t.Fatal("empty cell should read nil")
	}

	v := uint64(99)
	c.Publish(&v)
	p := c.Read()
	if !p.Tracked() {
		t.Fatal("Read must hand back a tracked pointer")
	}
	if got := p.Deref().Value; got != 99 {
		t.Fatalf("read %d, want 99", got)
	}
}

// TestSynchronizeWaitsForReader verifies a grace period does not end
// while a reader is inside its critical section, and ends promptly once
// the reader leaves.
func TestSynchronizeWaitsForReader(t *testing.T) {
	var d Domain
	r := d.Register()

	r.Lock()
	synced := make(chan struct{})
	go func() {
		d.Synchronize()
		close(synced)
	}()

	select {
	case <-synced:
		t.Fatal("Synchronize returned during an active critical section")
	case <-time.After(50 * time.Millisecond):
	}

	r.Unlock()
	select {
	case <-synced:
	case <-time.After(5 * time.Second):
		t.Fatal("Synchronize did not return after the reader left")
	}
}

// TestSynchronizeSkipsQuiescent: a registered but inactive reader must
// not delay the grace period.
func TestSynchronizeSkipsQuiescent(t *testing.T) {
	var d Domain
	_ = d.Register()

	done := make(chan struct{})
	go func() {
		d.Synchronize()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Synchronize blocked on a quiescent reader")
	}
}

// TestUpdateUnderReaders runs several readers hammering a cell while a
// writer repeatedly publishes replacements and reclaims old versions
// after a grace period. Readers must only ever observe internally
// consistent versions.
func TestUpdateUnderReaders(t *testing.T) {
	type version struct {
		n, nCopy uint64
	}

	var d Domain
	var c Cell[version]
	c.Publish(&version{})

	const readers = 4
	var stop atomic.Bool
	var wg sync.WaitGroup

	for i := 0; i < readers; i++ {
		h := d.Register()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !stop.Load() {
				h.Lock()
				v := c.Read().Deref().Value
				h.Unlock()
				if v.n != v.nCopy {
					t.Errorf("observed torn version: %d vs %d", v.n, v.nCopy)
					return
				}
			}
		}()
	}

	iters := 2000
	if testing.Short() {
		iters = 200
	}
	for i := 1; i <= iters; i++ {
		old := c.Read().Escape()
		c.Publish(&version{n: uint64(i), nCopy: uint64(i)})
		d.Synchronize()
		_ = old // safe to reclaim here; the GC does it for us
	}

	stop.Store(true)
	wg.Wait()
}
