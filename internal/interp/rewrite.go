package interp

import (
	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/pdl"
)

// runRewrite walks the rewrite body in program order, dispatching each op
// to its §4.D REWRITE-phase handler. The insertion point is tracked as a
// single current anchor, seeded at the rewrite root; creating an op with
// no live anchor is NoInsertionPoint.
func (st *state) runRewrite(body *ir.Region) diag.Verdict {
	if body == nil || len(body.Blocks) == 0 {
		return diag.OK()
	}
	st.liveAnchors = []OpID{st.rootOp}
	for _, op := range body.Blocks[0].Operations {
		if v := st.rewriteStep(op); v.Abort != nil {
			return v
		}
	}
	return diag.OK()
}

func (st *state) currentAnchor() (OpID, bool) {
	if len(st.liveAnchors) == 0 {
		return 0, false
	}
	return st.liveAnchors[len(st.liveAnchors)-1], true
}

// setAnchor replaces the current anchor. ok=false drops it with nothing to
// replace it (the next create sees no insertion point).
func (st *state) setAnchor(id OpID, ok bool) {
	if !ok {
		if len(st.liveAnchors) > 0 {
			st.liveAnchors = st.liveAnchors[:len(st.liveAnchors)-1]
		}
		return
	}
	if len(st.liveAnchors) == 0 {
		st.liveAnchors = []OpID{id}
		return
	}
	st.liveAnchors[len(st.liveAnchors)-1] = id
}

func (st *state) rewriteStep(op *ir.Operation) diag.Verdict {
	// The sibling-prev rule only credits a terminator erase/replace if
	// the *immediately preceding* rewrite op created that terminator;
	// any intervening step (even a no-op like pdl.type) breaks the
	// adjacency, so every step resets the flag except the one that sets it.
	wasPrevCreatedTerminator := st.prevCreatedTerminator
	st.prevCreatedTerminator = false
	switch op.Name {
	case pdl.OpType, pdl.OpAttribute, pdl.OpOperand, pdl.OpApplyNativeConstraint:
		// Types/attributes/operands may be constructed fresh in the RHS
		// (e.g. to build a new op's operand list); they allocate exactly
		// as they do during INIT.
		return st.initOp(op)
	case pdl.OpOperation:
		return st.createOp(op)
	case pdl.OpResult:
		return st.extractResult(op)
	case pdl.OpReplace:
		return st.replaceOp(op)
	case pdl.OpErase:
		return st.eraseOp(op, wasPrevCreatedTerminator)
	case pdl.OpApplyNativeRewrite:
		return st.applyNativeRewrite(op)
	default:
		return diag.Fail(diag.MalformedInput, op, "unexpected op %q in rewrite body", op.Name)
	}
}

func (st *state) createOp(op *ir.Operation) diag.Verdict {
	for _, ov := range pdl.OperationOperandVals(op) {
		vid, ok := st.valueOf[ov]
		if !ok {
			continue
		}
		if !st.scopeValues.Test(int(vid)) {
			return diag.Fail(diag.OutOfScope, op, "operand references a value erased or replaced earlier in the rewrite")
		}
		if v := st.checkRootStillLive(vid, op); v.Abort != nil {
			return v
		}
	}
	if _, ok := st.currentAnchor(); !ok {
		return diag.Fail(diag.NoInsertionPoint, op, "no live insertion point to create this operation at")
	}
	newID, v := st.buildOperationOp(op, true)
	if v.Abort != nil {
		return v
	}
	if op.Result(0) != nil {
		st.opHandle[op.Result(0)] = newID
	}
	st.scopeOps.Set(int(newID))
	st.setAnchor(newID, true)
	st.prevCreatedTerminator = st.cfg.Registry.IsTerminatorName(st.arena.Op(newID).Name)
	return diag.OK()
}

// checkRootStillLive implements the RootUsedInRHS rule literally: every
// generated op is conceptually inserted *before* the root, so consuming
// the root's own (still-live) result there is a forward reference. Once
// the root has actually been erased or replaced, its result values have
// already left scope (via markRemoved), so that case surfaces as
// OutOfScope instead — this check only covers the "still live" window.
func (st *state) checkRootStillLive(vid ValueID, user *ir.Operation) diag.Verdict {
	if st.rootErased {
		return diag.OK()
	}
	v := st.arena.Value(vid)
	if v.ProducerOp == st.rootOp {
		return diag.Fail(diag.RootUsedInRHS, user, "rewrite root is consumed by a generated op while the root is not being erased")
	}
	return diag.OK()
}

// applyNativeRewrite allocates a result for an opaque native rewrite hook
// (e.g. get_width, get_zero). The abstract interpreter does not model
// what the native function computes — only internal/lower's fixed
// per-native-name table (§4.E) gives these any typing meaning — so the
// result is registered as an unconstrained placeholder usable wherever
// it's consumed next, be that a pdl.type, pdl.attribute, or pdl.operand
// position.
func (st *state) applyNativeRewrite(op *ir.Operation) diag.Verdict {
	if op.Result(0) == nil {
		return diag.OK()
	}
	typeID := st.arena.NewType(TypeNode{Origin: op})
	attrID := st.arena.NewAttr(AttrNode{Type: typeID, Origin: op})
	valueID := st.arena.NewValue(ValueNode{ProducerOp: noID, Type: typeID, Origin: op})
	st.typeOf[op.Result(0)] = typeID
	st.attrOf[op.Result(0)] = attrID
	st.valueOf[op.Result(0)] = valueID
	st.scopeValues.Set(int(valueID))
	return diag.OK()
}

func (st *state) extractResult(op *ir.Operation) diag.Verdict {
	targetVal := pdl.ResultTargetOp(op)
	targetID, ok := st.opHandle[targetVal]
	if !ok {
		return diag.Fail(diag.MalformedInput, op, "result's target is not a known operation")
	}
	if !st.scopeOps.Test(int(targetID)) {
		return diag.Fail(diag.OutOfScope, op, "result extracted from an operation erased or replaced earlier in the rewrite")
	}
	id := st.arena.ResultValue(targetID, pdl.ResultIndex(op), op)
	st.valueOf[op.Result(0)] = id
	st.scopeValues.Set(int(id))
	return diag.OK()
}

// eraseChecks enforces that an op about to be removed (by EraseOp, or by
// a no-op self ReplaceOp) has no remaining consumers: a tracked consumer
// is StillInUse; under Strict, a matched op's results also carry an
// "unknown" token standing in for uses elsewhere in the host program,
// which blocks the erase as UsesOutside instead.
func (st *state) eraseChecks(id OpID, origin *ir.Operation) diag.Verdict {
	node := st.arena.Op(id)
	for _, uses := range node.ResultUses {
		for _, u := range uses {
			if u.Unknown {
				return diag.Fail(diag.UsesOutside, origin, "operation's results may still be used outside the matched pattern")
			}
		}
	}
	for _, uses := range node.ResultUses {
		if len(uses) > 0 {
			return diag.Fail(diag.StillInUse, origin, "operation's results are still used by another matched operation")
		}
	}
	return diag.OK()
}

func (st *state) eraseOp(op *ir.Operation, prevCreatedTerminator bool) diag.Verdict {
	targetVal := pdl.EraseTarget(op)
	targetID, ok := st.opHandle[targetVal]
	if !ok {
		return diag.Fail(diag.MalformedInput, op, "erase target is not a known operation")
	}
	if !st.scopeOps.Test(int(targetID)) {
		return diag.Fail(diag.OutOfScope, op, "erase target was already erased or replaced earlier in the rewrite")
	}
	node := st.arena.Op(targetID)
	if st.cfg.Registry.IsTerminatorName(node.Name) && !prevCreatedTerminator {
		return diag.Fail(diag.TerminatorErased, op, "terminator %q erased with no replacement", node.Name)
	}
	if v := st.eraseChecks(targetID, op); v.Abort != nil {
		return v
	}
	st.markRemoved(targetID)
	return diag.OK()
}

func (st *state) markRemoved(id OpID) {
	st.erasedSet.Set(int(id))
	st.scopeOps.Clear(int(id))
	for _, vid := range st.arena.ValuesProducedBy(id) {
		st.scopeValues.Clear(int(vid))
	}
	if id == st.rootOp {
		st.rootErased = true
	}
	if anchor, ok := st.currentAnchor(); ok && anchor == id {
		st.setAnchor(0, false)
	}
}

func (st *state) replaceOp(op *ir.Operation) diag.Verdict {
	targetVal := pdl.ReplaceTarget(op)
	targetID, ok := st.opHandle[targetVal]
	if !ok {
		return diag.Fail(diag.MalformedInput, op, "replace target is not a known operation")
	}
	if !st.scopeOps.Test(int(targetID)) {
		return diag.Fail(diag.OutOfScope, op, "replace target was already erased or replaced earlier in the rewrite")
	}
	target := st.arena.Op(targetID)
	kind, replVals := pdl.Replacement(op)

	var replOpID OpID
	var replIsOp bool
	if kind == pdl.ReplaceWithOp && len(replVals) == 1 {
		if id, ok := st.opHandle[replVals[0]]; ok {
			replOpID, replIsOp = id, true
		}
	}

	if replIsOp && replOpID == targetID {
		// ReplaceOp(x, x): a declared no-op that is only valid when x has
		// no results to vacuously replace.
		if len(target.ResultTypes) > 0 {
			if st.cfg.Strictness == Strict {
				return diag.Fail(diag.ReplaceWithSelf, op, "operation replaced with itself")
			}
			// AssumeNoUseOutside: fall through as if erasing x, using
			// only the uses this analysis actually tracked.
			if v := st.eraseChecks(targetID, op); v.Abort != nil {
				return v
			}
		}
		st.markRemoved(targetID)
		return diag.OK()
	}

	isTerminator := st.cfg.Registry.IsTerminatorName(target.Name)
	if isTerminator {
		replIsTerminator := replIsOp && st.cfg.Registry.IsTerminatorName(st.arena.Op(replOpID).Name)
		if !replIsTerminator {
			return diag.Fail(diag.TerminatorReplacedByNonTerminator, op, "terminator %q replaced by a non-terminator", target.Name)
		}
	}

	// pdl.replace performs a real RAUW: every tracked consumer of target's
	// results (and any "unknown outside use" token, under Strict) moves
	// onto the replacement op's corresponding result slot instead of
	// being dropped, so a later erase of the replacement still sees them.
	if replIsOp {
		repl := st.arena.Op(replOpID)
		for i, uses := range target.ResultUses {
			if len(uses) == 0 {
				continue
			}
			for len(repl.ResultUses) <= i {
				repl.ResultUses = append(repl.ResultUses, nil)
			}
			repl.ResultUses[i] = append(repl.ResultUses[i], uses...)
		}
	}
	for i := range target.ResultUses {
		target.ResultUses[i] = nil
	}

	st.markRemoved(targetID)
	if replIsOp {
		st.replacedBy[targetID] = replOpID
		if anchor, ok := st.currentAnchor(); !ok || anchor == targetID {
			st.setAnchor(replOpID, true)
		}
	}
	return diag.OK()
}
