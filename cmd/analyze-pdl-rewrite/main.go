// analyze-pdl-rewrite runs the abstract interpreter (§4.D) over every
// pdl.pattern in a generic-syntax file, reporting the dynamic
// well-formedness verdict (§7) for each.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/dialect"
	"github.com/xirdlcheck/xirdlcheck/internal/interp"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/pdl"
	"github.com/xirdlcheck/xirdlcheck/internal/synfmt"
)

func main() {
	assumeNoUseOutside := flag.Bool("assume-no-use-outside", false,
		"resolve open question 1 as ASSUME_NO_USE_OUTSIDE instead of the strict default")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: analyze-pdl-rewrite [-assume-no-use-outside] <file.pdl>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	b := ir.NewBuilder()
	region, positions, err := synfmt.ParseFile(b, path)
	if err != nil {
		os.Exit(2)
	}
	source, _ := os.ReadFile(path)
	reporter := diag.NewReporter(os.Stdout, string(source), positions)

	patterns := collectPatterns(region)
	if len(patterns) == 0 {
		fmt.Fprintln(os.Stderr, "analyze-pdl-rewrite: no pdl.pattern operations found")
		os.Exit(2)
	}

	strictness := interp.Strict
	if *assumeNoUseOutside {
		strictness = interp.AssumeNoUseOutside
	}
	cfg := interp.Config{Strictness: strictness, Registry: dialect.Default()}

	allOK := true
	for i, p := range patterns {
		fmt.Printf("pattern %d: ", i)
		_, verdict := interp.Simulate(p, cfg)
		reporter.Report(verdict)
		if !verdict.IsOK() {
			allOK = false
		}
	}

	if allOK {
		color.Green("all patterns well-formed")
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
