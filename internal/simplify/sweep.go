package simplify

import (
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
)

// sweep implements unused-op elimination as a mark-sweep pass rather than a
// per-op use-count law: every rewrite above goes through rebuild/replaceWith,
// which redirects uses but never retracts a discarded op's own operand
// references, so a raw "Uses() == 0" check on a stale node can't be trusted
// mid-pass. Walking backward from the block's statements (the only ops with
// no result of their own — Eq, Match, Yield) to everything actually
// reachable sidesteps that staleness entirely and naturally drops anything
// orphaned by rebuild, flatten, dedup, or CSE in the same sweep. Kept ops
// are re-emitted producers first, so a node that rebuild or fresh appended
// after its consumers ends up ahead of them again.
func sweep(g *Graph) {
	inBlock := map[*ir.Operation]bool{}
	for _, op := range g.Block.Operations {
		inBlock[op] = true
	}
	visited := map[int]bool{}
	var kept []*ir.Operation
	var visit func(op *ir.Operation)
	visit = func(op *ir.Operation) {
		if op == nil || visited[op.ID()] {
			return
		}
		visited[op.ID()] = true
		for _, v := range op.Operands {
			visit(producer(v))
		}
		if inBlock[op] {
			kept = append(kept, op)
		}
	}
	for _, op := range g.Block.Operations {
		switch op.Name {
		case irdl.OpEq, irdl.OpMatch, irdl.OpYield:
			visit(op)
		}
	}
	g.Block.Operations = kept
}
