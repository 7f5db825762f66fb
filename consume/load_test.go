package consume

import (
	"sync/atomic"
	"testing"
)

// TestLoadBeginsChain: a consume load of an atomic pointer cell yields a
// tracked pointer that reads the published object.
func TestLoadBeginsChain(t *testing.T) {
	x := uint64(1234)
	var cell atomic.Pointer[uint64]
	cell.Store(&x)

	p := Load(&cell)
	if !p.Tracked() {
		t.Fatal("consume load must begin a chain")
	}
	if p.RawValue() != &x {
		t.Fatalf("loaded %p, want %p", p.RawValue(), &x)
	}
	if got := p.Deref().Value; got != 1234 {
		t.Fatalf("dereferenced %d, want 1234", got)
	}
}

// TestLoadNilCell: consuming a never-stored cell yields a tracked null;
// the chain exists even when the loaded value is nil.
func TestLoadNilCell(t *testing.T) {
	var cell atomic.Pointer[uint64]
	p := Load(&cell)
	if p.Escape() != nil {
		t.Fatal("empty cell should load nil")
	}
	if !p.Tracked() {
		t.Fatal("a load is a load; the chain begins regardless of the value")
	}
}

// TestLoadScalars covers the non-pointer chain starts.
func TestLoadScalars(t *testing.T) {
	var u32 atomic.Uint32
	var u64 atomic.Uint64
	var up atomic.Uintptr
	u32.Store(0xa1)
	u64.Store(0xb2)
	up.Store(0xc3)

	if d := LoadUint32(&u32); d.Value != 0xa1 || d.Dep.bits == 0 {
		t.Fatalf("LoadUint32: value %#x tracked %v", d.Value, d.Dep.bits != 0)
	}
	if d := LoadUint64(&u64); d.Value != 0xb2 || d.Dep.bits == 0 {
		t.Fatalf("LoadUint64: value %#x tracked %v", d.Value, d.Dep.bits != 0)
	}
	if d := LoadUintptr(&up); d.Value != 0xc3 || d.Dep.bits == 0 {
		t.Fatalf("LoadUintptr: value %#x tracked %v", d.Value, d.Dep.bits != 0)
	}
}

// TestLoadThroughChains: a second load whose address came from a first
// consume load must carry a token covering both reads.
func TestLoadThroughChains(t *testing.T) {
	x := uint64(77)
	px := &x
	var cell atomic.Pointer[*uint64]
	cell.Store(&px)

	outer := Load(&cell)
	inner := LoadThrough(outer)
	if !inner.Tracked() {
		t.Fatal("chained load must stay tracked")
	}
	ob, ib := outer.Dependency().bits, inner.Dependency().bits
	if ib&ob != ob {
		t.Fatalf("inner token %#x does not cover outer %#x", ib, ob)
	}
	if got := inner.Deref().Value; got != 77 {
		t.Fatalf("chained read %d, want 77", got)
	}
}

// TestLoadAtBridging: raw address plus hand-carried token resumes a
// chain.
func TestLoadAtBridging(t *testing.T) {
	x := uint64(31)
	px := &x
	d := DependencyOn(px)

	p := LoadAt(&px, d)
	if !p.Tracked() {
		t.Fatal("bridged load must be tracked")
	}
	if got := p.Deref().Value; got != 31 {
		t.Fatalf("bridged read %d, want 31", got)
	}
	if b := p.Dependency().bits; b&d.bits != d.bits {
		t.Fatalf("bridged token %#x does not cover carried token %#x", b, d.bits)
	}
}

// TestLoadValueAt is the scalar analog of the bridging form.
func TestLoadValueAt(t *testing.T) {
	v := uint32(64)
	d := DependencyOn(&v)
	dv := LoadValueAt(&v, d)
	if dv.Value != 64 || dv.Dep.bits&d.bits != d.bits {
		t.Fatalf("LoadValueAt: value %d token %#x", dv.Value, dv.Dep.bits)
	}
}

// TestLoadDependent continues a chain through a value load at a tracked
// address.
func TestLoadDependent(t *testing.T) {
	v := uint64(88)
	p := Tracked(&v, DependencyOn(&v))
	dv := LoadDependent(p)
	if dv.Value != 88 {
		t.Fatalf("LoadDependent read %d, want 88", dv.Value)
	}
	if dv.Dep.bits&p.Dependency().bits != p.Dependency().bits {
		t.Fatal("LoadDependent dropped the incoming chain")
	}
}

// TestMessagePassingThroughChain is the end-to-end ordering scenario: a
// writer fills a payload and release-publishes its address; the reader
// consume-loads the address and must observe the payload fully
// initialized through the unbroken chain, on every iteration.
func TestMessagePassingThroughChain(t *testing.T) {
	iters := 20000
	if testing.Short() {
		iters = 1000
	}

	type payload struct {
		a, b, c uint64
	}

	for i := 0; i < iters; i++ {
		var cell atomic.Pointer[payload]
		done := make(chan struct{})

		go func() {
			p := &payload{a: uint64(i) + 1, b: uint64(i) + 2, c: uint64(i) + 3}
			cell.Store(p) // release publish
			close(done)
		}()

		var p Ptr[payload]
		for {
			p = Load(&cell)
			if p.Escape() != nil {
				break
			}
		}
		got := p.Deref().Value
		if got.a != uint64(i)+1 || got.b != uint64(i)+2 || got.c != uint64(i)+3 {
			t.Fatalf("iteration %d observed a torn payload: %+v", i, got)
		}
		<-done
	}
}
