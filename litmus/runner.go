// runner.go
//
// Runner executes experiments and turns the raw counters into results.

package litmus

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Result is the outcome of one experiment run.
type Result struct {
	Test       string `json:"test"`
	Iterations int    `json:"iterations"`
	Ordered    uint64 `json:"ordered"`
	Reordered  uint64 `json:"reordered"`
	ElapsedNS  int64  `json:"elapsed_ns"`

	// ExpectOrdered mirrors the test definition so a stored result can
	// be judged without the definition at hand.
	ExpectOrdered bool `json:"expect_ordered"`
}

// Passed reports whether the run met its test's expectation. The plain
// control passes unconditionally; reordering there is information, not
// failure.
func (r Result) Passed() bool {
	return !r.ExpectOrdered || r.Reordered == 0
}

// Runner binds the execution parameters for a batch of experiments.
type Runner struct {
	Iterations int
	WriterCore int
	ReaderCore int
}

// Run executes one experiment.
func (rn Runner) Run(ctx context.Context, t Test) (Result, error) {
	p := Params{
		Iterations: rn.Iterations,
		WriterCore: rn.WriterCore,
		ReaderCore: rn.ReaderCore,
	}
	start := time.Now()
	ordered, reordered, err := t.Run(ctx, p)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", t.Name, err)
	}
	return Result{
		Test:          t.Name,
		Iterations:    p.Iterations,
		Ordered:       ordered,
		Reordered:     reordered,
		ElapsedNS:     time.Since(start).Nanoseconds(),
		ExpectOrdered: t.ExpectOrdered,
	}, nil
}

// RunAll executes the given experiments in order, stopping at the first
// engine error. Experiments run sequentially: they are timing-sensitive
// and must not share cores.
func (rn Runner) RunAll(ctx context.Context, tests []Test) ([]Result, error) {
	results := make([]Result, 0, len(tests))
	for _, t := range tests {
		res, err := rn.Run(ctx, t)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// DefaultRunner spreads the pair across the first two cores and sizes
// iterations to finish in roughly a second on current hardware.
func DefaultRunner() Runner {
	reader := 0
	if runtime.NumCPU() > 1 {
		reader = 1
	}
	return Runner{
		Iterations: 200000,
		WriterCore: 0,
		ReaderCore: reader,
	}
}
