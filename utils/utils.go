// utils.go — allocation-free helpers for cold-path diagnostics.

package utils

import (
	"syscall"
	"unsafe"
)

// PrintWarning writes msg directly to stderr (file descriptor 2)
// without touching fmt or the heap. Cold paths only.
//
//go:nosplit
func PrintWarning(msg string) {
	if len(msg) == 0 {
		return
	}
	b := unsafe.Slice(unsafe.StringData(msg), len(msg))
	_, _ = syscall.Write(2, b)
}

// Itoa converts a signed integer to decimal without strconv. Small and
// branch-light; diagnostics are the only caller.
func Itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Utoa is the unsigned companion of Itoa, sized for iteration counts.
func Utoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
