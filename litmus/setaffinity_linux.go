//go:build linux && !tinygo

// setaffinity_linux.go
//
// Thread pinning for the experiment pair. A litmus run on floating
// threads measures the scheduler, not the memory system; pinning writer
// and reader to fixed, distinct cores keeps the interleavings the test
// is hunting for reachable and the runs comparable.

package litmus

import (
	"syscall"
	"unsafe"
)

// affinityMasks holds one single-word mask per logical CPU 0-63.
var affinityMasks = func() (m [64][1]uintptr) {
	for i := range m {
		m[i][0] = 1 << uint(i)
	}
	return
}()

// setAffinity pins the current thread to cpu (0-based). Out-of-range
// indices and syscall failures degrade to no pin.
func setAffinity(cpu int) {
	if cpu < 0 || cpu >= len(affinityMasks) {
		return
	}
	mask := &affinityMasks[cpu]
	_, _, _ = syscall.RawSyscall(
		syscall.SYS_SCHED_SETAFFINITY,
		0, // pid 0 → current thread
		uintptr(unsafe.Sizeof(mask[0])),
		uintptr(unsafe.Pointer(mask)),
	)
}
