// main.go — consume-litmus: ordering experiments from the command line.
//
// The binary drives the litmus harness: run a suite of message-passing
// experiments on pinned cores, persist the outcome histograms, and
// report across stored runs. A machine that has ever shown a reordered
// observation on the plain control but never on the chained variants is
// a machine on which the dependency discipline is doing its job.

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/TNorthover/stdconsume/debug"
	"github.com/TNorthover/stdconsume/litmus"
	"github.com/TNorthover/stdconsume/utils"
)

var rootCmd = &cobra.Command{
	Use:   "consume-litmus",
	Short: "Memory-ordering litmus harness for consume-chained publication",
	Long: `consume-litmus runs two-thread message-passing experiments on pinned
cores and records whether readers ever observe a payload before its
publication — comparing consume-chained, acquire-fenced, and plain
unordered variants.`,
	SilenceUsage: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in experiments",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range litmus.Builtin() {
			expect := "may reorder"
			if t.ExpectOrdered {
				expect = "must stay ordered"
			}
			fmt.Printf("%-14s %-18s %s\n", t.Name, "("+expect+")", t.Description)
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run [test ...]",
	Short: "Execute experiments and persist the outcomes",
	Long: `Run the named experiments (default: all built-ins), or a TOML suite
when --config is given. Outcomes are stored in the runs database unless
--db is set to the empty string.`,
	RunE: runExperiments,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize stored runs",
	RunE:  reportRuns,
}

func init() {
	runCmd.Flags().String("config", "", "TOML suite file")
	runCmd.Flags().Int("iterations", 0, "iterations per experiment (0 = default)")
	runCmd.Flags().Int("writer-core", 0, "logical CPU for the writer thread")
	runCmd.Flags().Int("reader-core", 1, "logical CPU for the reader thread")
	runCmd.Flags().String("db", "litmus.db", "runs database path (empty = don't persist)")
	runCmd.Flags().Bool("json", false, "print the report as JSON")

	reportCmd.Flags().String("db", "litmus.db", "runs database path")
	reportCmd.Flags().String("test", "", "show one test's history instead of recent runs")
	reportCmd.Flags().Int("limit", 10, "maximum runs to show")

	rootCmd.AddCommand(listCmd, runCmd, reportCmd)
}

func runExperiments(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	iterations, _ := cmd.Flags().GetInt("iterations")
	writerCore, _ := cmd.Flags().GetInt("writer-core")
	readerCore, _ := cmd.Flags().GetInt("reader-core")
	dbPath, _ := cmd.Flags().GetString("db")
	asJSON, _ := cmd.Flags().GetBool("json")

	var tests []litmus.Test
	var runners []litmus.Runner

	switch {
	case cfgPath != "":
		cfg, err := litmus.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		if cfg.Database != "" {
			dbPath = cfg.Database
		}
		tests, runners = cfg.Plan()
	default:
		rn := litmus.DefaultRunner()
		rn.WriterCore = writerCore
		rn.ReaderCore = readerCore
		if iterations > 0 {
			rn.Iterations = iterations
		}
		if len(args) == 0 {
			tests = litmus.Builtin()
		} else {
			for _, name := range args {
				t, ok := litmus.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown test %q (see 'consume-litmus list')", name)
				}
				tests = append(tests, t)
			}
		}
		for range tests {
			runners = append(runners, rn)
		}
	}

	debug.DropMessage("RUN", "executing "+utils.Itoa(len(tests))+" experiments")

	results := make([]litmus.Result, 0, len(tests))
	for i, t := range tests {
		res, err := runners[i].Run(cmd.Context(), t)
		if err != nil {
			return err
		}
		results = append(results, res)
		printResult(res)
	}

	report := litmus.NewReport(results)

	if dbPath != "" {
		store, err := litmus.OpenStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(report); err != nil {
			return err
		}
		debug.DropMessage("SAVED", "run "+report.RunID+" → "+dbPath)
	}

	if asJSON {
		data, err := report.Encode()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}

	for _, res := range results {
		if !res.Passed() {
			return fmt.Errorf("%s observed %d reordered iterations", res.Test, res.Reordered)
		}
	}
	return nil
}

func printResult(res litmus.Result) {
	verdict := color.GreenString("PASS")
	switch {
	case !res.Passed():
		verdict = color.RedString("FAIL")
	case !res.ExpectOrdered && res.Reordered > 0:
		// The control reordering is a feature: the machine is weak
		// enough for the experiment to mean something.
		verdict = color.YellowString("WEAK")
	}
	fmt.Printf("%s  %-14s %10d ordered  %8d reordered\n",
		verdict, res.Test, res.Ordered, res.Reordered)
}

func reportRuns(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	test, _ := cmd.Flags().GetString("test")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := litmus.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if test != "" {
		hist, err := store.History(test, limit)
		if err != nil {
			return err
		}
		for _, e := range hist {
			fmt.Printf("%s  %s  %-8s %10d ordered  %8d reordered\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"), e.RunID[:8], e.GOARCH,
				e.Result.Ordered, e.Result.Reordered)
		}
		return nil
	}

	reports, err := store.Reports(limit)
	if err != nil {
		return err
	}
	for _, r := range reports {
		fmt.Printf("%s  %s  %s/%s  %d tests  fp %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.RunID[:8],
			r.GOOS, r.GOARCH, len(r.Results), r.Fingerprint[:12])
		for _, res := range r.Results {
			printResult(res)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		debug.DropError("FATAL", err)
		os.Exit(1)
	}
}
