package simplify

import (
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
)

// producer returns v's defining operation, or nil for a block argument /
// externally-supplied leaf.
func producer(v *ir.Value) *ir.Operation {
	if v.Kind != ir.OpResultValue {
		return nil
	}
	return v.Op
}

func producerIs(v *ir.Value, name string) bool {
	p := producer(v)
	return p != nil && p.Name == name
}

func uniquelyUsed(v *ir.Value) bool {
	return len(v.Uses()) == 1
}

// normalizeJoin rebuilds op with a new operand list, collapsing the
// singleton/empty cases inline rather than emitting a one-operand
// AllOf/AnyOf that the next worklist round would just re-simplify.
func (g *Graph) normalizeJoin(op *ir.Operation, operands []*ir.Value) {
	switch len(operands) {
	case 0:
		if op.Name == irdl.OpAllOf {
			g.replaceWith(op, g.fresh(irdl.OpAny, constraintType))
		}
		// AnyOf([]) is the unsat sentinel; leave it as-is.
	case 1:
		g.replaceWith(op, operands[0])
	default:
		g.rebuild(op, operands)
	}
}

// singleton implements "AllOf([x]) -> x" and "AnyOf([x]) -> x".
func lawSingleton(g *Graph, op *ir.Operation) bool {
	if op.Name != irdl.OpAllOf && op.Name != irdl.OpAnyOf {
		return false
	}
	if len(op.Operands) != 1 {
		return false
	}
	g.replaceWith(op, op.Operands[0])
	return true
}

// lawEmptyAllOf implements "AllOf([]) -> AnyOp()".
func lawEmptyAllOf(g *Graph, op *ir.Operation) bool {
	if op.Name != irdl.OpAllOf || len(op.Operands) != 0 {
		return false
	}
	g.replaceWith(op, g.fresh(irdl.OpAny, constraintType))
	return true
}

// lawFlatten inlines a directly-nested AllOf-in-AllOf or AnyOf-in-AnyOf by
// one level: AllOf(a, AllOf(b,c), d) -> AllOf(a,b,c,d).
func lawFlatten(g *Graph, op *ir.Operation) bool {
	if op.Name != irdl.OpAllOf && op.Name != irdl.OpAnyOf {
		return false
	}
	var out []*ir.Value
	found := false
	for _, a := range op.Operands {
		if producerIs(a, op.Name) {
			out = append(out, producer(a).Operands...)
			found = true
			continue
		}
		out = append(out, a)
	}
	if !found {
		return false
	}
	g.normalizeJoin(op, out)
	return true
}

// lawDropAnyOp drops an AnyOp() argument from an AllOf: it contributes no
// constraint, per "AllOf(..., AnyOp, ...) -> AllOf(...)".
func lawDropAnyOp(g *Graph, op *ir.Operation) bool {
	if op.Name != irdl.OpAllOf {
		return false
	}
	var out []*ir.Value
	dropped := false
	for _, a := range op.Operands {
		if producerIs(a, irdl.OpAny) {
			dropped = true
			continue
		}
		out = append(out, a)
	}
	if !dropped {
		return false
	}
	g.normalizeJoin(op, out)
	return true
}

// lawDedupArgs removes duplicate (pointer-identical) operands from an
// AllOf/AnyOf. CSE runs before this law each worklist round so structurally
// identical Base/Is/Parametric args have already converged to the same
// pointer by the time this fires.
func lawDedupArgs(g *Graph, op *ir.Operation) bool {
	if op.Name != irdl.OpAllOf && op.Name != irdl.OpAnyOf {
		return false
	}
	seen := map[*ir.Value]bool{}
	var out []*ir.Value
	dup := false
	for _, a := range op.Operands {
		if seen[a] {
			dup = true
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	if !dup {
		return false
	}
	g.normalizeJoin(op, out)
	return true
}

func baseIdentity(op *ir.Operation) (string, bool) {
	if n, ok := irdl.BaseName(op); ok {
		return n, true
	}
	if r, ok := irdl.BaseRef(op); ok {
		return r.Name, true
	}
	return "", false
}

// lawDropRedundantBase drops a Base(k) argument of an AllOf when the same
// AllOf also carries a Parametric(k, ...) argument (the parametric form
// subsumes the bare base check), provided the Base node isn't also read
// elsewhere.
func lawDropRedundantBase(g *Graph, op *ir.Operation) bool {
	if op.Name != irdl.OpAllOf {
		return false
	}
	bases := map[string]*ir.Value{}
	parametricBases := map[string]bool{}
	for _, a := range op.Operands {
		p := producer(a)
		if p == nil {
			continue
		}
		if p.Name == irdl.OpBase {
			if id, ok := baseIdentity(p); ok {
				bases[id] = a
			}
		}
		if p.Name == irdl.OpParametric {
			if ref, ok := irdl.ParametricBaseRef(p); ok {
				parametricBases[ref.Name] = true
			}
		}
	}
	var drop *ir.Value
	for id, v := range bases {
		if parametricBases[id] && uniquelyUsed(v) {
			drop = v
			break
		}
	}
	if drop == nil {
		return false
	}
	var out []*ir.Value
	for _, a := range op.Operands {
		if a != drop {
			out = append(out, a)
		}
	}
	g.normalizeJoin(op, out)
	return true
}

// lawMergeParametric merges two Parametric(k, ...) arguments of the same
// AllOf sharing a base_type and arity into one Parametric whose per-slot
// arguments are pairwise AllOf'd, per the spec's base/parametric merging
// law. Leaves further simplification of the pairwise AllOfs to the next
// worklist round.
func lawMergeParametric(g *Graph, op *ir.Operation) bool {
	if op.Name != irdl.OpAllOf {
		return false
	}
	type entry struct {
		val  *ir.Value
		op   *ir.Operation
		ref  ir.SymbolRefAttr
		args []*ir.Value
	}
	var entries []entry
	for _, a := range op.Operands {
		p := producer(a)
		if p == nil || p.Name != irdl.OpParametric || !uniquelyUsed(a) {
			continue
		}
		ref, ok := irdl.ParametricBaseRef(p)
		if !ok {
			continue
		}
		entries = append(entries, entry{val: a, op: p, ref: ref, args: irdl.ParametricArgs(p)})
	}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			e1, e2 := entries[i], entries[j]
			if e1.ref.Name != e2.ref.Name || len(e1.args) != len(e2.args) {
				continue
			}
			merged := g.b.NewOperation(irdl.OpParametric)
			merged.SetAttr("base_type", e1.ref)
			for k := range e1.args {
				joined := g.fresh(irdl.OpAllOf, constraintType, e1.args[k], e2.args[k])
				ir.AddOperand(merged, joined)
			}
			mres := g.b.AddResult(merged, constraintType)
			ir.AppendOperation(g.Block, merged)

			var out []*ir.Value
			for _, a := range op.Operands {
				if a == e1.val || a == e2.val {
					continue
				}
				out = append(out, a)
			}
			out = append(out, mres)
			g.normalizeJoin(op, out)
			return true
		}
	}
	return false
}

// lawContradictoryBases collapses an AllOf whose every argument is a
// distinct Base(...) assertion into AnyOf([]): a value cannot simultaneously
// have two different base types, so such a conjunction is unsatisfiable.
func lawContradictoryBases(g *Graph, op *ir.Operation) bool {
	if op.Name != irdl.OpAllOf || len(op.Operands) < 2 {
		return false
	}
	names := map[string]bool{}
	for _, a := range op.Operands {
		p := producer(a)
		if p == nil || p.Name != irdl.OpBase {
			return false
		}
		id, ok := baseIdentity(p)
		if !ok {
			return false
		}
		names[id] = true
	}
	if len(names) < 2 {
		return false
	}
	g.replaceWith(op, g.fresh(irdl.OpAnyOf, constraintType))
	return true
}

// dedupMatches removes a duplicate irdl.match statement targeting a value
// already matched earlier in the block; MatchOp has no result, so unlike
// the other laws this mutates the block directly rather than going through
// the worklist's replace-and-requeue flow.
func dedupMatches(g *Graph) bool {
	seen := map[*ir.Value]bool{}
	changed := false
	kept := g.Block.Operations[:0:0]
	for _, op := range g.Block.Operations {
		if op.Name == irdl.OpMatch {
			if arg := irdl.MatchArg(op); arg != nil {
				if seen[arg] {
					changed = true
					continue
				}
				seen[arg] = true
			}
		}
		kept = append(kept, op)
	}
	g.Block.Operations = kept
	return changed
}

var structuralLaws = []func(*Graph, *ir.Operation) bool{
	lawSingleton,
	lawEmptyAllOf,
	lawFlatten,
	lawDropAnyOp,
	lawDedupArgs,
	lawDropRedundantBase,
	lawMergeParametric,
	lawContradictoryBases,
}
