package simplify

import "github.com/xirdlcheck/xirdlcheck/internal/ir"

// maxRounds bounds the fixed-point loop. The law set is terminating in
// practice (every structural law strictly shrinks an op's operand count or
// drops a whole subgraph; CSE and eq-joining are each idempotent once
// nothing new feeds them), but a bound keeps a future law-interaction bug
// from hanging a verifier run instead of just under-simplifying it.
const maxRounds = 64

// Region runs the law table of §4.F to a fixed point over one
// CheckSubsetOp side's constraint-graph region, then drops anything left
// unreachable from the region's statements.
func Region(b *ir.Builder, region *ir.Region) {
	if region == nil || len(region.Blocks) == 0 {
		return
	}
	g := NewGraph(b, region)
	for round := 0; round < maxRounds; round++ {
		changed := cse(g)
		if applyStructuralLaws(g) {
			changed = true
		}
		if insertEqJoins(g) {
			changed = true
		}
		if dedupMatches(g) {
			changed = true
		}
		if !changed {
			break
		}
	}
	sweep(g)
}

// applyStructuralLaws runs one worklist pass over every op currently in the
// block, trying each law of structuralLaws in turn and stopping at the
// first that fires. Ops with no remaining uses (already superseded this
// pass or a prior one) are skipped: they're inert until sweep removes them,
// and re-simplifying them would never converge since replaceWith always
// drives their use count to zero without detaching them from the block.
func applyStructuralLaws(g *Graph) bool {
	changed := false
	for _, op := range append([]*ir.Operation(nil), g.Block.Operations...) {
		if !cseCandidate(op.Name) {
			continue
		}
		if res := op.Result(0); res == nil || len(res.Uses()) == 0 {
			continue
		}
		for _, law := range structuralLaws {
			if law(g, op) {
				changed = true
				break
			}
		}
	}
	return changed
}

// CheckSubset simplifies both sides of an irdl.check_subset operation.
func CheckSubset(b *ir.Builder, checkOp *ir.Operation) {
	if len(checkOp.Regions) < 1 {
		return
	}
	Region(b, checkOp.Regions[0])
	if len(checkOp.Regions) < 2 {
		return
	}
	Region(b, checkOp.Regions[1])
}
