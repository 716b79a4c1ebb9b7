package interp

import (
	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/pdl"
)

// initOp allocates the symbolic record for one match-region PDL op (§4.D
// INIT). It never touches scope or use-lists beyond registering operand
// uses, which is safe before MATCH since operand producers (if any) were
// necessarily allocated earlier in program order.
func (st *state) initOp(op *ir.Operation) diag.Verdict {
	switch op.Name {
	case pdl.OpType:
		id := st.arena.NewType(TypeNode{Constant: pdl.TypeConstant(op), Origin: op})
		st.typeOf[op.Result(0)] = id
	case pdl.OpAttribute:
		typeID := TypeID(noID)
		if tv := pdl.AttributeTypeVal(op); tv != nil {
			t, ok := st.typeOf[tv]
			if !ok {
				return diag.Fail(diag.MalformedInput, op, "attribute's type operand is not a known type value")
			}
			typeID = t
		}
		id := st.arena.NewAttr(AttrNode{Type: typeID, Value: pdl.AttributeConstant(op), Origin: op})
		st.attrOf[op.Result(0)] = id
	case pdl.OpOperand:
		typeID := TypeID(noID)
		if tv := pdl.OperandTypeVal(op); tv != nil {
			t, ok := st.typeOf[tv]
			if !ok {
				return diag.Fail(diag.MalformedInput, op, "operand's type operand is not a known type value")
			}
			typeID = t
		}
		id := st.arena.NewValue(ValueNode{ProducerOp: noID, Type: typeID, Origin: op})
		st.valueOf[op.Result(0)] = id
	case pdl.OpOperation:
		opID, v := st.buildOperationOp(op, false)
		if v.Abort != nil {
			return v
		}
		st.allMatchOpIDs = append(st.allMatchOpIDs, opID)
		if op.Result(0) != nil {
			st.opHandle[op.Result(0)] = opID
		}
	case pdl.OpResult:
		targetVal := pdl.ResultTargetOp(op)
		targetID, ok := st.opHandle[targetVal]
		if !ok {
			return diag.Fail(diag.MalformedInput, op, "result's target is not a matched operation")
		}
		id := st.arena.ResultValue(targetID, pdl.ResultIndex(op), op)
		st.valueOf[op.Result(0)] = id
	case pdl.OpApplyNativeConstraint:
		// Constraints are declarative and always considered part of the
		// match; they neither gate reachability nor produce a value, so
		// there is nothing further to allocate.
	default:
		return diag.Fail(diag.MalformedInput, op, "unexpected op %q in pattern match region", op.Name)
	}
	return diag.OK()
}

// buildOperationOp allocates an OpNode for a pdl.operation, resolving its
// operand/attr/type segments and registering operand uses against their
// producers. generated marks an op created during REWRITE (as opposed to
// a matched one allocated during INIT).
func (st *state) buildOperationOp(op *ir.Operation, generated bool) (OpID, diag.Verdict) {
	name, _ := pdl.OperationName(op)

	var operandIDs []ValueID
	for _, ov := range pdl.OperationOperandVals(op) {
		vid, ok := st.valueOf[ov]
		if !ok {
			return 0, diag.Fail(diag.MalformedInput, op, "operand is not a known value")
		}
		operandIDs = append(operandIDs, vid)
	}

	var attrIDs []AttrID
	for _, av := range pdl.OperationAttrVals(op) {
		aid, ok := st.attrOf[av]
		if !ok {
			return 0, diag.Fail(diag.MalformedInput, op, "attribute is not a known attribute value")
		}
		attrIDs = append(attrIDs, aid)
	}

	var resultTypeIDs []TypeID
	for _, tv := range pdl.OperationTypeVals(op) {
		tid, ok := st.typeOf[tv]
		if !ok {
			return 0, diag.Fail(diag.MalformedInput, op, "result type is not a known type value")
		}
		resultTypeIDs = append(resultTypeIDs, tid)
	}

	node := OpNode{
		Name:        name,
		Operands:    operandIDs,
		Attrs:       attrIDs,
		ResultTypes: resultTypeIDs,
		ResultUses:  make([][]UseToken, len(resultTypeIDs)),
		Origin:      op,
		Generated:   generated,
	}
	if !generated && st.cfg.Strictness == Strict {
		for i := range node.ResultUses {
			node.ResultUses[i] = append(node.ResultUses[i], UseToken{Unknown: true})
		}
	}
	id := st.arena.NewOp(node)

	for _, vid := range operandIDs {
		v := st.arena.Value(vid)
		if v.ProducerOp != noID {
			st.arena.addUse(v.ProducerOp, v.ProducerIndex, id)
		}
	}
	return id, diag.OK()
}

// initScope seeds scope with everything matched: every OpID allocated in
// the match region, and every ValueID the match region defined.
func (st *state) initScope() {
	for _, id := range st.allMatchOpIDs {
		st.scopeOps.Set(int(id))
	}
	for v := range st.valueOf {
		st.scopeValues.Set(int(st.valueOf[v]))
	}
	// matched results extracted implicitly (never through an explicit
	// pdl.result) are not yet scoped; they become reachable lazily via
	// Arena.ResultValue when first referenced, same as for created ops.
}
