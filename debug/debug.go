// debug.go — alloc-free error logging for infrequent failure paths.
//
// The harness's hot loops must never touch fmt or the heap, so the
// cold-path diagnostics (store failures, config errors, shutdown
// traces) go through a stackless concatenate-and-write model instead.
// Never call these from inside a measured loop.

package debug

import "github.com/TNorthover/stdconsume/utils"

// DropError logs an error with a prefix, or just the prefix when err is
// nil (tagged traces). Writes go straight to stderr.
//
//go:nosplit
func DropError(prefix string, err error) {
	if err != nil {
		utils.PrintWarning(prefix + ": " + err.Error() + "\n")
	} else {
		utils.PrintWarning(prefix + "\n")
	}
}

// DropMessage logs a cold-path event: run start/stop, persistence
// milestones, shutdown progress.
//
//go:nosplit
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix + ": " + message + "\n")
}
