// analyze-irdl-invariants composes §4.E's lowering, §4.F's simplifier,
// and §4.G's SMT encoder/solver for every pdl.pattern declared in
// input.pdl against the IRDL dialect declared in input.irdl, exiting
// non-zero if any pattern is proven unsafe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/xirdlcheck/xirdlcheck/internal/config"
	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/dialect"
	"github.com/xirdlcheck/xirdlcheck/internal/interp"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
	"github.com/xirdlcheck/xirdlcheck/internal/lower"
	"github.com/xirdlcheck/xirdlcheck/internal/pdl"
	"github.com/xirdlcheck/xirdlcheck/internal/simplify"
	"github.com/xirdlcheck/xirdlcheck/internal/smt"
	"github.com/xirdlcheck/xirdlcheck/internal/synfmt"
)

func main() {
	smtPath := flag.String("smt-path", "z3", "path to an SMT-LIB2-speaking solver binary")
	configPath := flag.String("config", "", "path to a §9 AnalysisConfig YAML file")
	assumeNoUseOutside := flag.Bool("assume-no-use-outside", false, "resolve open question 1 as ASSUME_NO_USE_OUTSIDE")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: analyze-irdl-invariants [-smt-path z3] [-config analysis.yaml] <input.pdl> <input.irdl>")
		os.Exit(2)
	}
	pdlPath, irdlPath := flag.Arg(0), flag.Arg(1)

	ext := config.Empty()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		ext = loaded
	}

	b := ir.NewBuilder()

	dialectRegion, _, err := synfmt.ParseFile(b, irdlPath)
	if err != nil {
		os.Exit(2)
	}
	dialectOp := findOp(dialectRegion, irdl.OpDialect)
	if dialectOp == nil {
		fmt.Fprintf(os.Stderr, "analyze-irdl-invariants: no irdl.dialect operation found in %s\n", irdlPath)
		os.Exit(2)
	}
	env, err := lower.BuildEnv(dialectOp, ext)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	patternRegion, positions, err := synfmt.ParseFile(b, pdlPath)
	if err != nil {
		os.Exit(2)
	}
	patterns := collectPatterns(patternRegion)
	if len(patterns) == 0 {
		fmt.Fprintf(os.Stderr, "analyze-irdl-invariants: no pdl.pattern operations found in %s\n", pdlPath)
		os.Exit(2)
	}

	source, _ := os.ReadFile(pdlPath)
	reporter := diag.NewReporter(os.Stdout, string(source), positions)

	strictness := interp.Strict
	if *assumeNoUseOutside {
		strictness = interp.AssumeNoUseOutside
	}
	icfg := interp.Config{Strictness: strictness, Registry: dialect.Default()}

	allSafe := true
	for i, pat := range patterns {
		fmt.Printf("pattern %d: ", i)

		checkOp, verdict := lower.LowerPattern(b, env, pat, icfg)
		if !verdict.IsOK() {
			reporter.Report(verdict)
			allSafe = false
			continue
		}

		simplify.CheckSubset(b, checkOp)

		solver := smt.NewExternalSolver(*smtPath)
		result, err := smt.Discharge(context.Background(), solver, checkOp)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		switch result.Sat {
		case smt.Unsat:
			color.Green("unsat: rewrite is type-safe under %s", env.DialectName)
		case smt.Sat:
			color.Red("sat: counter-example found")
			if result.Model != "" {
				fmt.Println(result.Model)
			}
			allSafe = false
		default:
			fmt.Fprintln(os.Stderr, "analyze-irdl-invariants: solver returned unknown")
			allSafe = false
		}
	}

	if allSafe {
		os.Exit(0)
	}
	os.Exit(1)
}

func collectPatterns(region *ir.Region) []*ir.Operation {
	var out []*ir.Operation
	if region == nil {
		return out
	}
	for _, blk := range region.Blocks {
		for _, op := range blk.Operations {
			if op.Name == pdl.OpPattern {
				out = append(out, op)
			}
		}
	}
	return out
}

func findOp(region *ir.Region, name string) *ir.Operation {
	if region == nil {
		return nil
	}
	for _, blk := range region.Blocks {
		for _, op := range blk.Operations {
			if op.Name == name {
				return op
			}
		}
	}
	return nil
}
