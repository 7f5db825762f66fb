//go:build linux && !tinygo

// setaffinity_linux.go
//
// Linux binding for sched_setaffinity(2) pinning the calling OS thread
// to one logical CPU.  Pinning producer and consumer to distinct cores
// is what makes the ring's ordering behavior reproducible: an unpinned
// pair migrates and the interesting interleavings disappear.
//
// The per-CPU masks are precomputed so the call makes no allocations.
// CPUs ≥ 64 are ignored; errors (EPERM under cgroups, EINVAL in some
// containers) are deliberately swallowed and the fallback is no pin.

package ring

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
// indices are ignored.
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
