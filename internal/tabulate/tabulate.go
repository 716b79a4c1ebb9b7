package tabulate

import (
	"context"
	"time"

	"github.com/xirdlcheck/xirdlcheck/internal/dialect"
	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/fuzz"
	"github.com/xirdlcheck/xirdlcheck/internal/interp"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
	"github.com/xirdlcheck/xirdlcheck/internal/lower"
	"github.com/xirdlcheck/xirdlcheck/internal/simplify"
	"github.com/xirdlcheck/xirdlcheck/internal/smt"
	"github.com/xirdlcheck/xirdlcheck/internal/synfmt"
)

// DAGSize bounds how many host blocks each trial generates the pattern
// against; fixed per run rather than part of §9's AnalysisConfig since
// it shapes the fuzz corpus, not the lowering/constraint pipeline.
const DAGSize = 6

// staticTimeout bounds one trial's SMT query the way ReferenceRunner
// bounds one reference-engine call (§5's per-collaborator deadline).
const staticTimeout = 3 * time.Second

// RunConfig bundles everything one fuzz-differential tabulation run
// needs beyond the pool size and seed range.
type RunConfig struct {
	Registry   *dialect.Registry
	Strictness interp.Strictness
	Reference  *ReferenceRunner // nil disables differential cross-checking
	SolverPath string           // external SMT solver binary; "" defaults to "z3" on PATH
}

// emptyPDLTestEnv builds a bare "pdltest" irdl.dialect declaring no
// operation schemas. internal/lower.LowerPattern degrades gracefully
// when a matched op's name has no schema entry (its operands/results
// lower to unconstrained irdl.any leaves), so a trial can still drive
// the whole lower -> simplify -> SMT pipeline over an arbitrary fuzzed
// pattern without needing a fuzzed IRDL dialect to match it against —
// §6 names no dialect input for fuzz-pdl/tabulate, only the pattern
// generator's seed.
func emptyPDLTestEnv(b *ir.Builder) *lower.Env {
	body := b.NewRegion()
	blk := b.NewBlock("")
	blk.Parent = body
	body.Blocks = append(body.Blocks, blk)

	d := b.NewOperation(irdl.OpDialect)
	d.SetAttr("name", ir.StringAttr{Value: "pdltest"})
	d.Regions = []*ir.Region{body}
	body.Parent = d

	env, _ := lower.BuildEnv(d, nil)
	return env
}

// Trial returns a task function suitable for Pool.Run: for a given
// seed, it generates a DAG and a pattern (internal/fuzz), computes the
// first legal interleaving of the pattern's matched ops into the DAG
// (the placement itself is not used further), runs the abstract
// interpreter over the pattern, and — if cfg.Reference is set —
// cross-checks the interpreter's verdict against the external
// reference engine.
func Trial(cfg RunConfig) func(ctx context.Context, seed int64) (Record, error) {
	reg := cfg.Registry
	if reg == nil {
		reg = dialect.Default()
	}
	solverPath := cfg.SolverPath
	if solverPath == "" {
		solverPath = "z3"
	}
	return func(ctx context.Context, seed int64) (Record, error) {
		start := time.Now()

		src := fuzz.NewRandSource(seed)
		dag := fuzz.GenerateDAG(src, DAGSize)

		b := ir.NewBuilder()
		gen := fuzz.NewGenerator(b, fuzz.NewRandSource(seed))
		pattern := gen.GeneratePattern()

		// Placement currently only needs to exist (§4.C's well-formedness
		// claim is that at least one legal interleaving exists); the
		// interpreter runs over the pattern's own match region, which
		// already encodes operand/result dependencies independent of
		// which host blocks are chosen.
		_, _ = fuzz.FirstPlacement(dag, pattern)

		icfg := interp.Config{Strictness: cfg.Strictness, Registry: reg}
		_, verdict := interp.Simulate(pattern.Op, icfg)

		rec := Record{
			PatternID: NewPatternID(),
			Dynamic:   dynamicVerdictOf(verdict),
		}

		// The static pipeline only runs on a dynamically well-formed
		// pattern: LowerPattern's rhs side is built from interp.Simulate's
		// final state, which a dynamic abort leaves only partially formed
		// (§4.E's doc comment on LowerPattern).
		if verdict.IsOK() {
			env := emptyPDLTestEnv(b)
			checkOp, lv := lower.LowerPattern(b, env, pattern.Op, icfg)
			if lv.IsOK() {
				simplify.CheckSubset(b, checkOp)

				sctx, cancel := context.WithTimeout(ctx, staticTimeout)
				solver := smt.NewExternalSolver(solverPath)
				result, err := smt.Discharge(sctx, solver, checkOp)
				cancel()
				if err == nil {
					rec.Static.Attempted = true
					rec.Static.Sat = result.Sat == smt.Sat
					rec.Static.Model = result.Model
				}
			}
		}

		if cfg.Reference != nil {
			wrap := ir.NewBuilder()
			region := wrap.NewRegion()
			blk := wrap.NewBlock("")
			blk.Parent = region
			region.Blocks = append(region.Blocks, blk)
			ir.AppendOperation(blk, pattern.Op)

			text := synfmt.Print(region)
			refResult, refErr := cfg.Reference.Check(ctx, text)
			if refErr == nil {
				rec.ReferenceChecked = true
				rec.ReferenceOK = refResult.OK
				rec.Mismatch = refResult.OK != rec.Dynamic.OK
			}
		}

		rec.Elapsed = time.Since(start)
		return rec, nil
	}
}

func dynamicVerdictOf(v diag.Verdict) DynamicVerdict {
	if v.IsOK() {
		return DynamicVerdict{OK: true}
	}
	return DynamicVerdict{Code: v.Abort.Kind.Code(), Msg: v.Abort.Error()}
}
