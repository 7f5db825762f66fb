package utils

import "testing"

// TestItoa covers zero, positives, negatives, and boundary values.
func TestItoa(t *testing.T) {
	cases := map[int]string{
		0:       "0",
		7:       "7",
		-7:      "-7",
		1234567: "1234567",
		-987654: "-987654",
	}
	for in, want := range cases {
		if got := Itoa(in); got != want {
			t.Fatalf("Itoa(%d) = %q, want %q", in, got, want)
		}
	}
}

// TestUtoa covers zero and a large count.
func TestUtoa(t *testing.T) {
	if got := Utoa(0); got != "0" {
		t.Fatalf("Utoa(0) = %q", got)
	}
	if got := Utoa(18446744073709551615); got != "18446744073709551615" {
		t.Fatalf("Utoa(max) = %q", got)
	}
}

// TestPrintWarningZeroAllocation: the whole point of the helper is to
// stay off the heap once the message string exists.
func TestPrintWarningZeroAllocation(t *testing.T) {
	msg := "WARN: allocation probe\n"
	allocs := testing.AllocsPerRun(100, func() {
		PrintWarning(msg)
	})
	if allocs != 0 {
		t.Errorf("PrintWarning allocated %.1f times per call", allocs)
	}
}

// TestPrintWarningEmpty: empty messages must be a no-op, not a
// zero-length write.
func TestPrintWarningEmpty(t *testing.T) {
	PrintWarning("") // must not panic or write
}
