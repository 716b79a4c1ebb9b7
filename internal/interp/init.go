package interp

import (
	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/pdl"
)

// state is the per-analysis mutable record set: the arena plus the
// lookup tables from PDL-level ir.Value to arena ids, plus the rewrite
// phase's scope/anchor bookkeeping.
type state struct {
	cfg   Config
	arena *Arena

	valueOf  map[*ir.Value]ValueID // pdl.operand/pdl.result's own SSA result
	opHandle map[*ir.Value]OpID    // pdl.operation's own SSA result (the "x" handle)
	attrOf   map[*ir.Value]AttrID
	typeOf   map[*ir.Value]TypeID

	matchedSet  bitSet
	scopeOps    bitSet
	scopeValues bitSet

	rootOp                OpID
	rootErased            bool
	liveAnchors           []OpID
	prevCreatedTerminator bool
	allMatchOpIDs         []OpID

	erasedSet  bitSet        // ops removed by EraseOp or by any ReplaceOp (self replacement included)
	replacedBy map[OpID]OpID // ReplaceOp(x, op) target -> replacement op, when the replacement is itself an op
}

func newState(cfg Config) *state {
	return &state{
		cfg:        cfg,
		arena:      NewArena(),
		valueOf:    map[*ir.Value]ValueID{},
		opHandle:   map[*ir.Value]OpID{},
		attrOf:     map[*ir.Value]AttrID{},
		typeOf:     map[*ir.Value]TypeID{},
		replacedBy: map[OpID]OpID{},
	}
}

// Analyze runs the three-phase abstract interpretation of §4.D over one
// pdl.pattern operation and returns its verdict.
func Analyze(patternOp *ir.Operation, cfg Config) diag.Verdict {
	_, v := run(patternOp, cfg)
	return v
}

// run is shared by Analyze and Simulate: it executes INIT/MATCH/REWRITE
// and returns the final state regardless of verdict, so a caller that
// needs the post-rewrite arena (internal/lower) doesn't have to
// re-implement the three phases.
func run(patternOp *ir.Operation, cfg Config) (*state, diag.Verdict) {
	st := newState(cfg)

	if patternOp.Name != pdl.OpPattern {
		return st, diag.Fail(diag.MalformedInput, patternOp, "expected a pdl.pattern operation, got %q", patternOp.Name)
	}
	body := pdl.PatternBody(patternOp)
	if body == nil || len(body.Blocks) == 0 || len(body.Blocks[0].Operations) == 0 {
		return st, diag.Fail(diag.MalformedInput, patternOp, "pattern body is empty")
	}
	ops := body.Blocks[0].Operations
	rewriteOp := ops[len(ops)-1]
	if rewriteOp.Name != pdl.OpRewrite {
		return st, diag.Fail(diag.MalformedInput, patternOp, "pattern body must end with a RewriteOp")
	}
	matchOps := ops[:len(ops)-1]

	for _, op := range matchOps {
		if v := st.initOp(op); v.Abort != nil {
			return st, v
		}
	}

	rootVal := pdl.RewriteRoot(rewriteOp)
	if rootVal == nil {
		return st, diag.Fail(diag.MalformedInput, rewriteOp, "rewrite has no root")
	}
	rootID, ok := st.opHandle[rootVal]
	if !ok {
		return st, diag.Fail(diag.MalformedInput, rewriteOp, "rewrite root is not a matched operation")
	}
	st.rootOp = rootID

	st.runMatch(rootID)

	for _, opID := range st.allMatchOpIDs {
		if !st.matched(opID) {
			return st, diag.Fail(diag.DisconnectedMatch, st.arena.Op(opID).Origin, "op is not reachable from the rewrite root")
		}
	}

	st.initScope()

	return st, st.runRewrite(pdl.RewriteBody(rewriteOp))
}

func (st *state) matched(id OpID) bool { return st.matchedSet.Test(int(id)) }
