// fuzz-pdl differentially checks a single pattern — generated from
// --seed, or parsed from input.mlir when given — against an external
// reference rewrite engine (§5/§7): the interpreter's own dynamic
// verdict (§4.D) is compared with what the reference implementation
// actually does to the same IR, and a disagreement is the whole point
// of the fuzz harness.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/dialect"
	"github.com/xirdlcheck/xirdlcheck/internal/fuzz"
	"github.com/xirdlcheck/xirdlcheck/internal/interp"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/pdl"
	"github.com/xirdlcheck/xirdlcheck/internal/synfmt"
	"github.com/xirdlcheck/xirdlcheck/internal/tabulate"
)

func main() {
	seed := flag.Int64("seed", 0, "seed for the §4.C pattern generator (ignored when input.mlir is given)")
	mlirPath := flag.String("mlir-path", "mlir-opt", "path to the external reference rewrite engine binary, else located on PATH")
	assumeNoUseOutside := flag.Bool("assume-no-use-outside", false, "resolve open question 1 as ASSUME_NO_USE_OUTSIDE")
	flag.Parse()
	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "usage: fuzz-pdl [--seed N] [--mlir-path P] [input.mlir]")
		os.Exit(2)
	}

	strictness := interp.Strict
	if *assumeNoUseOutside {
		strictness = interp.AssumeNoUseOutside
	}

	b := ir.NewBuilder()
	var patternOp *ir.Operation
	var source string
	var positions *synfmt.Positions

	if flag.NArg() == 1 {
		path := flag.Arg(0)
		region, pos, err := synfmt.ParseFile(b, path)
		if err != nil {
			os.Exit(2)
		}
		positions = pos
		raw, _ := os.ReadFile(path)
		source = string(raw)
		patternOp = findPattern(region)
		if patternOp == nil {
			fmt.Fprintf(os.Stderr, "fuzz-pdl: no pdl.pattern operation found in %s\n", path)
			os.Exit(2)
		}
	} else {
		gen := fuzz.NewGenerator(b, fuzz.NewRandSource(*seed))
		pattern := gen.GeneratePattern()
		patternOp = pattern.Op
		source = printStandalone(patternOp)
	}

	reporter := diag.NewReporter(os.Stdout, source, positions)

	icfg := interp.Config{Strictness: strictness, Registry: dialect.Default()}
	_, verdict := interp.Simulate(patternOp, icfg)
	reporter.Report(verdict)

	ref := tabulate.NewReferenceRunner(*mlirPath)
	refResult, err := ref.Check(context.Background(), source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fuzz-pdl: reference engine: %v\n", err)
		os.Exit(2)
	}

	if refResult.OK != verdict.IsOK() {
		color.Red("mismatch: analyzer=%s reference=%s", verdictLabel(verdict.IsOK()), verdictLabel(refResult.OK))
		if refResult.Detail != "" {
			fmt.Println(refResult.Detail)
		}
		os.Exit(1)
	}
	color.Green("agreement: both %s", verdictLabel(verdict.IsOK()))
}

func verdictLabel(ok bool) string {
	if ok {
		return "OK"
	}
	return "reject"
}

// printStandalone prints a generated pattern's own pdl.pattern op as
// round-trippable generic syntax, wrapping it in a throwaway block the
// way internal/tabulate's Trial does before handing text to a
// ReferenceRunner.
func printStandalone(patternOp *ir.Operation) string {
	wrap := ir.NewBuilder()
	region := wrap.NewRegion()
	blk := wrap.NewBlock("")
	blk.Parent = region
	region.Blocks = append(region.Blocks, blk)
	ir.AppendOperation(blk, patternOp)
	return synfmt.Print(region)
}

func findPattern(region *ir.Region) *ir.Operation {
	if region == nil {
		return nil
	}
	for _, blk := range region.Blocks {
		for _, op := range blk.Operations {
			if op.Name == pdl.OpPattern {
				return op
			}
		}
	}
	return nil
}
