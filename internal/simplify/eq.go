package simplify

import (
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
)

// insertEqJoins gives every irdl.eq statement teeth in the SMT encoding
// (§4.G has no direct "equality of two constraint nodes" primitive): for
// Eq(a, b), it inserts AllOf(a, b) immediately before the Eq and retargets
// every other reader of a or b onto it, so the conjunction a's and b's
// remaining consumers actually see is "both a and b must hold" rather than
// each in isolation. Each Eq is processed once (marked via a "joined"
// attribute) since the rewrite doesn't change the Eq op itself and would
// otherwise refire every round.
func insertEqJoins(g *Graph) bool {
	changed := false
	for _, op := range append([]*ir.Operation(nil), g.Block.Operations...) {
		if op.Name != irdl.OpEq {
			continue
		}
		if _, done := op.Attr("joined"); done {
			continue
		}
		op.SetAttr("joined", ir.IntAttr{Value: 1})

		args := irdl.EqArgs(op)
		if len(args) != 2 || args[0] == args[1] {
			continue
		}
		a, b := args[0], args[1]

		joined := g.b.NewOperation(irdl.OpAllOf)
		ir.AddOperand(joined, a)
		ir.AddOperand(joined, b)
		jres := g.b.AddResult(joined, constraintType)
		ir.InsertOperationBefore(op, joined)

		retarget(a, jres, joined, op)
		retarget(b, jres, joined, op)
		changed = true
	}
	return changed
}

// retarget redirects every use of v onto to, except uses belonging to
// except1/except2 (the freshly inserted AllOf and the Eq itself, which
// must keep reading the original operands).
func retarget(v, to *ir.Value, except1, except2 *ir.Operation) {
	for _, u := range append([]*ir.Use(nil), v.Uses()...) {
		if u.User == except1 || u.User == except2 {
			continue
		}
		ir.SetOperand(u.User, u.OperandIndex, to)
	}
}
