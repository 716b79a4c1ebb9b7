package fuzz

import (
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/pdl"
)

// Placement assigns each of a Pattern's MatchOps to a block of the DAG it
// was interleaved into, parallel to Pattern.MatchOps by index.
type Placement struct {
	BlockOf []int
}

// dependencies returns, for each matchOp index i, the indices j < i of
// matchOps whose result the op consumes via a pdl.result extraction —
// the edges the interleaver's dominance check (§4.C) must respect. An
// operand sourced from a bare pdl.operand (no internal producer) imposes
// no constraint.
func dependencies(matchOps []*ir.Operation) [][]int {
	handleOf := map[*ir.Value]int{}
	for i, op := range matchOps {
		if r := op.Result(0); r != nil {
			handleOf[r] = i
		}
	}
	deps := make([][]int, len(matchOps))
	for i, op := range matchOps {
		for _, ov := range pdl.OperationOperandVals(op) {
			if ov.Kind != ir.OpResultValue || ov.Op == nil || ov.Op.Name != pdl.OpResult {
				continue
			}
			target := pdl.ResultTargetOp(ov.Op)
			if j, ok := handleOf[target]; ok {
				deps[i] = append(deps[i], j)
			}
		}
	}
	return deps
}

// Interleave lazily enumerates every legal placement of pattern's matched
// ops into dag's blocks: op i may land in block b only if every block
// housing one of i's dependencies strictly dominates b (§4.C). The
// sequence is a Go 1.23 iterator so a caller (the tabulator, §5) can
// break out early after the first N placements instead of materializing
// the whole (combinatorial) enumeration, and can restart it cheaply by
// calling Interleave again — no state is retained between calls.
func Interleave(dag *DAG, pattern *Pattern) func(yield func(Placement) bool) {
	deps := dependencies(pattern.MatchOps)
	n := len(pattern.MatchOps)

	return func(yield func(Placement) bool) {
		assignment := make([]int, n)
		var rec func(i int) bool
		rec = func(i int) bool {
			if i == n {
				cp := append([]int(nil), assignment...)
				return yield(Placement{BlockOf: cp})
			}
			for b := 0; b < dag.NumBlocks; b++ {
				ok := true
				for _, j := range deps[i] {
					if !dag.Dominates(assignment[j], b) {
						ok = false
						break
					}
				}
				if !ok {
					continue
				}
				assignment[i] = b
				if !rec(i + 1) {
					return false
				}
			}
			return true
		}
		rec(0)
	}
}

// FirstPlacement returns the first legal placement, if any; a convenience
// for callers (tests, tabulate) that just need one valid interleaving
// rather than the full enumeration.
func FirstPlacement(dag *DAG, pattern *Pattern) (Placement, bool) {
	var found Placement
	ok := false
	for p := range Interleave(dag, pattern) {
		found = p
		ok = true
		break
	}
	return found, ok
}
