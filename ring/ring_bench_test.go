package ring

import "testing"

// BenchmarkPushPop measures the single-threaded hand-off cost, which
// bounds the SPSC latency from below.
func BenchmarkPushPop(b *testing.B) {
	r := New[uint64](1024)
	v := uint64(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Push(&v)
		r.Pop()
	}
}

// BenchmarkPushPopDeref adds the tracked dereference the consumer would
// actually perform.
func BenchmarkPushPopDeref(b *testing.B) {
	r := New[uint64](1024)
	v := uint64(1)
	var sink uint64
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Push(&v)
		p, _ := r.Pop()
		sink += p.Deref().Value
	}
	_ = sink
}

// BenchmarkCrossGoroutine measures the full producer/consumer hand-off.
func BenchmarkCrossGoroutine(b *testing.B) {
	r := New[uint64](1024)
	v := uint64(1)
	go func() {
		for i := 0; i < b.N; i++ {
			for !r.Push(&v) {
			}
		}
	}()
	b.ResetTimer()
	var sink uint64
	for i := 0; i < b.N; i++ {
		sink += r.PopWait().Deref().Value
	}
	_ = sink
}
