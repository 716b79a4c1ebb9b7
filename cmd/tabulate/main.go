// tabulate runs K fuzzed patterns over W workers (§5) and prints the
// §6-mandated 2×2 {static pass/fail} × {dynamic pass/fail} percentage
// table. Persistence to sqlite (§4.L) and differential cross-checking
// against an external reference engine are both additive: omitting
// -db/-mlir-path changes nothing about the table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/xirdlcheck/xirdlcheck/internal/interp"
	"github.com/xirdlcheck/xirdlcheck/internal/tabulate"
	"github.com/xirdlcheck/xirdlcheck/internal/tabulate/store"
)

func main() {
	n := flag.Int("n", 100, "number of fuzzed trials to run")
	workers := flag.Int("j", 4, "number of concurrent workers")
	mlirPath := flag.String("mlir-path", "", "path to an external reference rewrite engine binary (disabled if empty)")
	baseSeed := flag.Int64("seed", 0, "base seed; trial i uses seed+i")
	dbPath := flag.String("db", "", "sqlite path to persist every trial to (disabled if empty, §4.L)")
	assumeNoUseOutside := flag.Bool("assume-no-use-outside", false, "resolve open question 1 as ASSUME_NO_USE_OUTSIDE")
	flag.Parse()

	strictness := interp.Strict
	if *assumeNoUseOutside {
		strictness = interp.AssumeNoUseOutside
	}

	var ref *tabulate.ReferenceRunner
	if *mlirPath != "" {
		ref = tabulate.NewReferenceRunner(*mlirPath)
	}

	runCfg := tabulate.RunConfig{Strictness: strictness, Reference: ref}
	pool := tabulate.NewPool(*workers)

	ctx := context.Background()
	acc, err := pool.Run(ctx, *baseSeed, *n, tabulate.Trial(runCfg))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *dbPath != "" {
		st, err := store.Open(*dbPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		defer st.Close()
		if err := st.AppendAll(ctx, acc); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	summary := acc.Summary()
	printTable(summary, acc.CrossTab())

	if ref != nil {
		fmt.Printf("mismatches vs reference: %d\n", summary.Mismatch)
	}
	if summary.Failed > 0 {
		fmt.Printf("failed analyses (excluded from the table): %d\n", summary.Failed)
	}

	if summary.DynamicAbort+summary.StaticSat+summary.StaticSkipped > 0 || summary.Mismatch > 0 {
		os.Exit(1)
	}
	color.Green("all %d trials: dynamic OK and statically proven safe", summary.Total)
}

func pct(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

// printTable renders the 2×2 {static pass/fail} × {dynamic pass/fail}
// table §6 requires, percentages taken over every trial that did not
// FailedAnalysis-crash (§7).
func printTable(s tabulate.Summary, t tabulate.CrossTab) {
	attempted := s.Total - s.Failed
	fmt.Printf("trials: %d  failed: %d\n\n", s.Total, s.Failed)
	fmt.Println("                 static pass          static fail")
	fmt.Printf("dynamic OK    %6d (%5.1f%%)     %6d (%5.1f%%)\n",
		t.DynamicOKStaticPass, pct(t.DynamicOKStaticPass, attempted),
		t.DynamicOKStaticFail, pct(t.DynamicOKStaticFail, attempted))
	fmt.Printf("dynamic fail  %6d (%5.1f%%)     %6d (%5.1f%%)\n",
		t.DynamicFailStaticPass, pct(t.DynamicFailStaticPass, attempted),
		t.DynamicFailStaticFail, pct(t.DynamicFailStaticFail, attempted))
}
