package fuzz

import (
	"testing"

	"github.com/xirdlcheck/xirdlcheck/internal/dialect"
	"github.com/xirdlcheck/xirdlcheck/internal/interp"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
)

// A random pattern is always a well-formed pdl.pattern by construction
// (§4.C); feeding a batch of them through the abstract interpreter, under
// both strictness settings, must never panic (the verdicts themselves are
// not inspected) — this is the harness half of §8 property 6 (the tabulator
// needs a generator that can't crash the analyzer it's differentially
// testing against).
func TestFuzzedPatternsSurviveAnalysis(t *testing.T) {
	reg := dialect.Default()
	for seed := int64(0); seed < 200; seed++ {
		b := ir.NewBuilder()
		gen := NewGenerator(b, NewRandSource(seed))
		p := gen.GeneratePattern()

		cfg := interp.Config{Strictness: interp.Strict, Registry: reg}
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("seed %d: Analyze panicked: %v", seed, r)
				}
			}()
			_ = interp.Analyze(p.Op, cfg)
		}()

		cfg.Strictness = interp.AssumeNoUseOutside
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("seed %d: Analyze (assume-no-use-outside) panicked: %v", seed, r)
				}
			}()
			_ = interp.Analyze(p.Op, cfg)
		}()
	}
}
