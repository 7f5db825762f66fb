// report.go
//
// A Report is one harness invocation's worth of results, stamped with a
// run id and enough machine context to compare runs across hosts and
// architectures. Reports serialize to JSON and carry a fingerprint over
// their outcome counts so identical behavior is identical bytes.

package litmus

import (
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/crypto/sha3"
)

// Report aggregates the results of one harness invocation.
type Report struct {
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
	GOOS        string    `json:"goos"`
	GOARCH      string    `json:"goarch"`
	NumCPU      int       `json:"num_cpu"`
	Results     []Result  `json:"results"`
	Fingerprint string    `json:"fingerprint"`
}

// NewReport stamps a set of results with identity and machine context.
func NewReport(results []Result) Report {
	r := Report{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		Results:   results,
	}
	r.Fingerprint = fingerprint(results)
	return r
}

// fingerprint hashes the canonical outcome encoding: test name and
// counts, in result order. Timing and run identity deliberately stay
// out so reruns with identical behavior collide.
func fingerprint(results []Result) string {
	h := sha3.New256()
	for _, r := range results {
		fmt.Fprintf(h, "%s|%d|%d|%d\n", r.Test, r.Iterations, r.Ordered, r.Reordered)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Encode renders the report as JSON.
func (r Report) Encode() ([]byte, error) {
	return sonnet.Marshal(r)
}

// DecodeReport parses a JSON report.
func DecodeReport(data []byte) (Report, error) {
	var r Report
	if err := sonnet.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("report: %w", err)
	}
	return r, nil
}
