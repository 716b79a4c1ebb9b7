package lower

import (
	"github.com/xirdlcheck/xirdlcheck/internal/interp"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
	"github.com/xirdlcheck/xirdlcheck/internal/pdl"
)

// side builds one of a CheckSubsetOp's two constraint-graph regions. A
// fresh side is used for lhs and rhs even though both read from the same
// Snapshot, since the two graphs have independent SSA identities (the
// rewrite can drop, replace, or add ops between them).
type side struct {
	g       *graph
	env     *Env
	snap    *interp.Snapshot
	ids     []interp.OpID // live ops to lower, in dependency order

	loweredValue map[interp.ValueID]*ir.Value
	loweredType  map[interp.TypeID]*ir.Value
	loweredAttr  map[interp.AttrID]*ir.Value

	externalLeaves []*ir.Value
	leafHints      []string

	nativeRewriteErr    string
	nativeRewriteErrOp  *ir.Operation
}

func newSide(g *graph, env *Env, snap *interp.Snapshot, ids []interp.OpID) *side {
	return &side{
		g: g, env: env, snap: snap, ids: ids,
		loweredValue: map[interp.ValueID]*ir.Value{},
		loweredType:  map[interp.TypeID]*ir.Value{},
		loweredAttr:  map[interp.AttrID]*ir.Value{},
	}
}

// build lowers every live op, applying the OperationOp expansion rule to
// each, then replays the pattern's native constraints over whichever
// resolved leaves they target, per the Auxiliary rewriters list of §4.E.
func (s *side) build(matchOps []*ir.Operation) error {
	for _, id := range s.ids {
		if err := s.lowerOp(id); err != nil {
			return err
		}
	}
	for _, op := range matchOps {
		if op.Name != pdl.OpApplyNativeConstraint {
			continue
		}
		s.applyNativeConstraint(op)
	}
	return nil
}

func (s *side) applyNativeConstraint(op *ir.Operation) {
	name := pdl.NativeName(op)
	for _, arg := range pdl.NativeArgs(op) {
		resolved, ok := s.resolvePDLValue(arg)
		if !ok {
			continue
		}
		lowerNativeConstraint(s.g, name, resolved, s.env.Extensions)
	}
}

// resolvePDLValue resolves an *ir.Value from the original pattern AST
// (as found by walking for apply_native_constraint args, which the arena
// does not itself track as op nodes) back into this side's already-
// lowered constraint graph.
func (s *side) resolvePDLValue(v *ir.Value) (*ir.Value, bool) {
	if vid, ok := s.snap.ValueOf[v]; ok {
		return s.resolveValue(vid), true
	}
	if tid, ok := s.snap.TypeOf[v]; ok {
		return s.resolveType(tid), true
	}
	if aid, ok := s.snap.AttrOf[v]; ok {
		return s.resolveAttr(aid), true
	}
	return nil, false
}

func (s *side) lowerOp(id interp.OpID) error {
	node := s.snap.Arena.Op(id)

	var operandVals []*ir.Value
	for _, vid := range node.Operands {
		operandVals = append(operandVals, s.resolveValue(vid))
	}

	resultPlaceholders := make([]*ir.Value, len(node.ResultTypes))
	for i := range resultPlaceholders {
		resultPlaceholders[i] = s.g.emit(irdl.OpAny, constraintType)
		if vid, ok := s.snap.Arena.ResultValueIfExists(id, i); ok {
			s.loweredValue[vid] = resultPlaceholders[i]
		}
	}
	if id == s.snap.RootOp || s.finalIdentityIs(id, s.snap.RootOp) {
		s.externalLeaves = append(s.externalLeaves, resultPlaceholders...)
		for range resultPlaceholders {
			s.leafHints = append(s.leafHints, "root")
		}
	}

	schema, ok := s.env.Operations[node.Name]
	if node.Name == "" || !ok {
		return nil
	}
	body := irdl.OperationBody(schema)
	if body == nil || len(body.Blocks) == 0 {
		return nil
	}
	schemaOps := body.Blocks[0].Operations
	mapping := s.g.cloneInto(schemaOps)

	var operandsOp, resultsOp *ir.Operation
	for _, sop := range schemaOps {
		switch sop.Name {
		case irdl.OpOperands:
			operandsOp = sop
		case irdl.OpResults:
			resultsOp = sop
		}
	}
	if operandsOp != nil {
		args := irdl.OperandsArgs(operandsOp)
		for i, actual := range operandVals {
			if i >= len(args) {
				break
			}
			cloned := mapping[args[i]]
			s.g.emitVoid(irdl.OpMatch, cloned)
			s.g.emitVoid(irdl.OpEq, cloned, actual)
		}
	}
	if resultsOp != nil {
		args := irdl.ResultsArgs(resultsOp)
		for i, ph := range resultPlaceholders {
			if i >= len(args) {
				break
			}
			cloned := mapping[args[i]]
			s.g.emitVoid(irdl.OpMatch, cloned)
			s.g.emitVoid(irdl.OpEq, cloned, ph)
		}
	}
	return nil
}

// finalIdentityIs reports whether id is literally the root (used on the
// lhs side, where the root's own OpID is s.snap.RootOp) or is what the
// root was ultimately replaced by (used on the rhs side).
func (s *side) finalIdentityIs(id, root interp.OpID) bool {
	final, ok := s.snap.FinalIdentity(root)
	return ok && final == id
}

func (s *side) resolveValue(vid interp.ValueID) *ir.Value {
	if v, ok := s.loweredValue[vid]; ok {
		return v
	}
	node := s.snap.Arena.Value(vid)
	var result *ir.Value
	switch {
	case node.HasProducer():
		// Its producer should already have been lowered (ids are in
		// dependency order); an unresolved op-result here means the
		// producer was not part of this side's live set.
		result = s.g.emit(irdl.OpAny, constraintType)
	case node.Origin != nil && node.Origin.Name == pdl.OpApplyNativeRewrite:
		result = s.lowerNativeRewriteCall(node.Origin)
	case node.HasType():
		result = s.resolveType(node.Type)
		s.externalLeaves = append(s.externalLeaves, result)
		s.leafHints = append(s.leafHints, node.Origin.Name)
	default:
		result = s.g.emit(irdl.OpAny, constraintType)
		s.externalLeaves = append(s.externalLeaves, result)
		s.leafHints = append(s.leafHints, "operand")
	}
	s.loweredValue[vid] = result
	return result
}

func (s *side) lowerNativeRewriteCall(op *ir.Operation) *ir.Value {
	name := pdl.NativeName(op)
	var args []*ir.Value
	for _, a := range pdl.NativeArgs(op) {
		resolved, ok := s.resolvePDLValue(a)
		if !ok {
			resolved = s.g.emit(irdl.OpAny, constraintType)
		}
		args = append(args, resolved)
	}
	v, err := lowerNativeRewrite(s.g, name, args, s.env.Extensions)
	if err != nil {
		if s.nativeRewriteErrOp == nil {
			s.nativeRewriteErr = err.Error()
			s.nativeRewriteErrOp = op
		}
		// Still need a value so the rest of this side's build pass has a
		// well-formed graph to keep working with; LowerPattern surfaces the
		// recorded error as UnknownNativeRewrite once build() returns.
		return s.g.emit(irdl.OpAny, constraintType)
	}
	return v
}

func (s *side) resolveType(tid interp.TypeID) *ir.Value {
	if v, ok := s.loweredType[tid]; ok {
		return v
	}
	node := s.snap.Arena.Type(tid)
	var result *ir.Value
	if node.HasConstant() {
		result = s.g.emitWithAttr(irdl.OpIs, "expected_attr", node.Constant, constraintType)
	} else {
		result = s.g.emit(irdl.OpAny, constraintType)
	}
	s.loweredType[tid] = result
	return result
}

func (s *side) resolveAttr(aid interp.AttrID) *ir.Value {
	if v, ok := s.loweredAttr[aid]; ok {
		return v
	}
	node := s.snap.Arena.Attr(aid)
	var result *ir.Value
	switch {
	case node.Value != nil:
		result = s.g.emitWithAttr(irdl.OpIs, "expected_attr", node.Value, constraintType)
	case node.HasType():
		t := s.resolveType(node.Type)
		any := s.g.emit(irdl.OpAny, constraintType)
		result = s.g.emitWithAttr(irdl.OpParametric, "base_type", ir.SymbolRefAttr{Name: "builtin.integer_attr"}, constraintType, any, t)
	default:
		result = s.g.emit(irdl.OpAny, constraintType)
	}
	s.loweredAttr[aid] = result
	return result
}
