package lower

import (
	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/interp"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
	"github.com/xirdlcheck/xirdlcheck/internal/pdl"
)

// LowerPattern rewrites a PDL pattern into an irdl.check_subset operation
// per §4.E. It runs interp.Simulate first rather than textually replaying
// ReplaceOp/EraseOp against a second clone, so the rhs graph is built
// straight from the rewrite's actual final state. Simulate's verdict is
// not consulted: after a dynamic abort both sides are still built, the
// rhs from whatever state the rewrite had reached (task 2's lowering is
// independent of task 1's abort). internal/tabulate only calls it after
// a clean dynamic verdict; check-irdl-subset calls it directly.
func LowerPattern(b *ir.Builder, env *Env, patternOp *ir.Operation, cfg interp.Config) (*ir.Operation, diag.Verdict) {
	snap, _ := interp.Simulate(patternOp, cfg)

	matchOps := matchRegionOps(patternOp)

	checkOp := b.NewOperation(irdl.OpCheckSubset)

	lhsRegion := b.NewRegion()
	lhsRegion.Parent = checkOp
	lhsSide := newSide(newGraph(b, lhsRegion), env, snap, snap.MatchedOpIDs)
	if err := lhsSide.build(matchOps); err != nil {
		return nil, diag.Fail(diag.MalformedInput, patternOp, "%s", err)
	}
	if lhsSide.nativeRewriteErrOp != nil {
		return nil, diag.Fail(diag.UnknownNativeRewrite, lhsSide.nativeRewriteErrOp, "%s", lhsSide.nativeRewriteErr)
	}
	emitYield(lhsSide.g, lhsSide.externalLeaves, lhsSide.leafHints)

	rhsRegion := b.NewRegion()
	rhsRegion.Parent = checkOp
	rhsSide := newSide(newGraph(b, rhsRegion), env, snap, snap.LiveOps())
	if err := rhsSide.build(matchOps); err != nil {
		return nil, diag.Fail(diag.MalformedInput, patternOp, "%s", err)
	}
	if rhsSide.nativeRewriteErrOp != nil {
		return nil, diag.Fail(diag.UnknownNativeRewrite, rhsSide.nativeRewriteErrOp, "%s", rhsSide.nativeRewriteErr)
	}
	emitYield(rhsSide.g, rhsSide.externalLeaves, rhsSide.leafHints)

	embedAttrPatterns(b, env, lhsRegion)
	embedAttrPatterns(b, env, rhsRegion)

	checkOp.Regions = []*ir.Region{lhsRegion, rhsRegion}
	return checkOp, diag.OK()
}

func matchRegionOps(patternOp *ir.Operation) []*ir.Operation {
	body := pdl.PatternBody(patternOp)
	if body == nil || len(body.Blocks) == 0 {
		return nil
	}
	ops := body.Blocks[0].Operations
	if len(ops) == 0 {
		return nil
	}
	return ops[:len(ops)-1]
}

func emitYield(g *graph, leaves []*ir.Value, hints []string) {
	var nameHints []ir.Attribute
	for _, h := range hints {
		nameHints = append(nameHints, ir.StringAttr{Value: h})
	}
	op := g.b.NewOperation(irdl.OpYield)
	for _, v := range leaves {
		ir.AddOperand(op, v)
	}
	if len(nameHints) > 0 {
		op.SetAttr("name_hints", ir.ArrayAttr{Elems: nameHints})
	}
	ir.AppendOperation(g.block, op)
}
