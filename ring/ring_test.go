package ring

import (
	"testing"
	"time"
)

// TestNewPanicsOnBadSize verifies that the constructor rejects sizes
// that are either non-power-of-two or ≤ 0.  We wrap the call in a
// closure so we can recover() without terminating the whole test run.
func TestNewPanicsOnBadSize(t *testing.T) {
	bad := []int{0, 3, 1000}
	for _, sz := range bad {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("New(%d) should panic", sz)
				}
			}()
			_ = New[uint64](sz) // expect panic
		}()
	}
}

// TestPushPopRoundTrip pushes one element, pops it as a tracked handle,
// and confirms the ring is empty afterwards.
func TestPushPopRoundTrip(t *testing.T) {
	r := New[uint64](8)
	val := uint64(12345)

	if !r.Push(&val) {
		t.Fatal("first push must succeed")
	}
	got, ok := r.Pop()
	if !ok {
		t.Fatal("pop after push must succeed")
	}
	if !got.Tracked() {
		t.Fatal("popped handle must carry a chain")
	}
	if got.Deref().Value != val {
		t.Fatalf("got %d, want %d", got.Deref().Value, val)
	}
	if _, ok := r.Pop(); ok {
		t.Fatal("ring should now be empty")
	}
}

// TestPushFailsWhenFull fills the ring to capacity and checks that a
// further Push returns false (non-blocking back-pressure).
func TestPushFailsWhenFull(t *testing.T) {
	r := New[uint64](4)
	val := uint64(7)
	for i := 0; i < 4; i++ {
		if !r.Push(&val) {
			t.Fatalf("push %d unexpectedly failed", i)
		}
	}
	if r.Push(&val) {
		t.Fatal("push into full ring should return false")
	}
}

// TestPopEmptyUntracked confirms Pop on an empty ring reports no item
// and returns an untracked null handle.
func TestPopEmptyUntracked(t *testing.T) {
	r := New[uint64](4)
	p, ok := r.Pop()
	if ok {
		t.Fatal("Pop on empty ring reported an item")
	}
	if p.Tracked() || p.Escape() != nil {
		t.Fatal("empty Pop must hand back an untracked null")
	}
}

// TestPopWaitBlocksUntilItem launches a goroutine that pushes after a
// tiny delay, then asserts PopWait blocks and eventually returns the
// value.
func TestPopWaitBlocksUntilItem(t *testing.T) {
	r := New[uint64](2)
	want := uint64(42)

	go func() {
		time.Sleep(5 * time.Millisecond)
		r.Push(&want)
	}()

	if got := r.PopWait(); got.Deref().Value != want {
		t.Fatalf("PopWait returned %d, want %d", got.Deref().Value, want)
	}
}

// TestWrapAround exercises >mask iterations to ensure head/tail wrap
// correctly and masking math is sound.
func TestWrapAround(t *testing.T) {
	const size = 4
	r := New[uint64](size)
	vals := make([]uint64, 10)
	for i := 0; i < 10; i++ {
		vals[i] = uint64(i)
		if !r.Push(&vals[i]) {
			t.Fatalf("push %d failed unexpectedly", i)
		}
		got, ok := r.Pop()
		if !ok || got.Deref().Value != uint64(i) {
			t.Fatalf("iteration %d: got %d", i, got.Deref().Value)
		}
	}
}

// TestPublicationOrdering streams payloads from a producer goroutine and
// checks, through the tracked handles only, that every payload arrives
// fully initialized and in order.
func TestPublicationOrdering(t *testing.T) {
	const n = 50000
	type payload struct {
		seq  uint64
		a, b uint64
	}
	r := New[payload](256)

	go func() {
		for i := uint64(0); i < n; {
			p := &payload{seq: i, a: i * 2, b: i * 3}
			if r.Push(p) {
				i++
			}
		}
	}()

	for i := uint64(0); i < n; i++ {
		h := r.PopWait()
		got := h.Deref().Value
		if got.seq != i {
			t.Fatalf("out of order: got seq %d, want %d", got.seq, i)
		}
		if got.a != i*2 || got.b != i*3 {
			t.Fatalf("seq %d observed a torn payload: %+v", i, got)
		}
	}
}
