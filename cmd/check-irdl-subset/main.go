// check-irdl-subset lowers a PDL pattern against an IRDL dialect
// declaration (§4.E), simplifies the resulting constraint graph (§4.F),
// and discharges the type-system compliance question to an external SMT
// solver (§4.G).
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
	dialectPath := flag.String("dialect", "", "path to the .irdl dialect declaration file")
	smtPath := flag.String("smt-path", "z3", "path to an SMT-LIB2-speaking solver binary")
	configPath := flag.String("config", "", "path to a §9 AnalysisConfig YAML file")
	flag.Parse()

	if *dialectPath == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: check-irdl-subset -dialect <file.irdl> [-smt-path z3] [-config analysis.yaml] <pattern.pdl>")
		os.Exit(2)
	}
	patternPath := flag.Arg(0)

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

	dialectRegion, _, err := synfmt.ParseFile(b, *dialectPath)
	if err != nil {
		os.Exit(2)
	}
	dialectOp := findOp(dialectRegion, irdl.OpDialect)
	if dialectOp == nil {
		fmt.Fprintf(os.Stderr, "check-irdl-subset: no irdl.dialect operation found in %s\n", *dialectPath)
		os.Exit(2)
	}
	env, err := lower.BuildEnv(dialectOp, ext)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	patternRegion, positions, err := synfmt.ParseFile(b, patternPath)
	if err != nil {
		os.Exit(2)
	}
	patternOp := findOp(patternRegion, pdl.OpPattern)
	if patternOp == nil {
		fmt.Fprintf(os.Stderr, "check-irdl-subset: no pdl.pattern operation found in %s\n", patternPath)
		os.Exit(2)
	}

	source, _ := os.ReadFile(patternPath)
	reporter := diag.NewReporter(os.Stdout, string(source), positions)

	icfg := interp.DefaultConfig(dialect.Default())
	checkOp, verdict := lower.LowerPattern(b, env, patternOp, icfg)
	if !verdict.IsOK() {
		reporter.Report(verdict)
		os.Exit(1)
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
		os.Exit(0)
	case smt.Sat:
		color.Red("sat: counter-example found")
		if result.Model != "" {
			fmt.Println(result.Model)
		}
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, "check-irdl-subset: solver returned unknown")
		os.Exit(2)
	}
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
