package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xirdlcheck/xirdlcheck/internal/dialect"
	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/pdl"
)

// patternBuilder assembles one pdl.pattern operation by hand, mirroring
// internal/fuzz's construction but with fixed (not randomly chosen)
// shapes so each test names an exact §8 scenario.
type patternBuilder struct {
	b         *ir.Builder
	pattern   *ir.Operation
	matchBlk  *ir.Block
	rewriteOp *ir.Operation
	rblk      *ir.Block
}

func newPatternBuilder() *patternBuilder {
	b := ir.NewBuilder()
	pat := b.NewOperation(pdl.OpPattern)
	body := b.NewRegion()
	body.Parent = pat
	blk := b.NewBlock("")
	blk.Parent = body
	body.Blocks = append(body.Blocks, blk)
	pat.Regions = []*ir.Region{body}
	return &patternBuilder{b: b, pattern: pat, matchBlk: blk}
}

func (pb *patternBuilder) matchOp(name string, operands []*ir.Value, numResults int) *ir.Operation {
	op := pb.b.NewOperation(pdl.OpOperation)
	op.SetAttr("name", ir.StringAttr{Value: name})
	op.SetAttr("operand_segment_sizes", ir.ArrayAttr{Elems: []ir.Attribute{
		ir.IntAttr{Value: int64(len(operands))},
		ir.IntAttr{Value: 0},
		ir.IntAttr{Value: int64(numResults)},
	}})
	for _, v := range operands {
		ir.AddOperand(op, v)
	}
	for i := 0; i < numResults; i++ {
		t := pb.b.NewOperation(pdl.OpType)
		tv := pb.b.AddResult(t, nil)
		ir.AppendOperation(pb.matchBlk, t)
		ir.AddOperand(op, tv)
	}
	pb.b.AddResult(op, nil)
	ir.AppendOperation(pb.matchBlk, op)
	return op
}

func (pb *patternBuilder) result(target *ir.Operation, index int) *ir.Value {
	op := pb.b.NewOperation(pdl.OpResult)
	op.SetAttr("index", ir.IntAttr{Value: int64(index)})
	ir.AddOperand(op, target.Result(0))
	ir.AppendOperation(pb.matchBlk, op)
	return pb.b.AddResult(op, nil)
}

func (pb *patternBuilder) startRewrite(root *ir.Operation) {
	pb.rewriteOp = pb.b.NewOperation(pdl.OpRewrite)
	ir.AddOperand(pb.rewriteOp, root.Result(0))
	rbody := pb.b.NewRegion()
	rbody.Parent = pb.rewriteOp
	pb.rblk = pb.b.NewBlock("")
	pb.rblk.Parent = rbody
	rbody.Blocks = append(rbody.Blocks, pb.rblk)
	pb.rewriteOp.Regions = []*ir.Region{rbody}
}

func (pb *patternBuilder) finish() *ir.Operation {
	ir.AppendOperation(pb.matchBlk, pb.rewriteOp)
	return pb.pattern
}

func (pb *patternBuilder) createOp(name string, operands []*ir.Value, numResults int) *ir.Operation {
	op := pb.b.NewOperation(pdl.OpOperation)
	op.SetAttr("name", ir.StringAttr{Value: name})
	op.SetAttr("operand_segment_sizes", ir.ArrayAttr{Elems: []ir.Attribute{
		ir.IntAttr{Value: int64(len(operands))},
		ir.IntAttr{Value: 0},
		ir.IntAttr{Value: int64(numResults)},
	}})
	for _, v := range operands {
		ir.AddOperand(op, v)
	}
	for i := 0; i < numResults; i++ {
		t := pb.b.NewOperation(pdl.OpType)
		tv := pb.b.AddResult(t, nil)
		ir.AppendOperation(pb.rblk, t)
		ir.AddOperand(op, tv)
	}
	pb.b.AddResult(op, nil)
	ir.AppendOperation(pb.rblk, op)
	return op
}

func (pb *patternBuilder) resultInRewrite(target *ir.Operation, index int) *ir.Value {
	op := pb.b.NewOperation(pdl.OpResult)
	op.SetAttr("index", ir.IntAttr{Value: int64(index)})
	ir.AddOperand(op, target.Result(0))
	ir.AppendOperation(pb.rblk, op)
	return pb.b.AddResult(op, nil)
}

func (pb *patternBuilder) erase(target *ir.Operation) {
	op := pb.b.NewOperation(pdl.OpErase)
	ir.AddOperand(op, target.Result(0))
	ir.AppendOperation(pb.rblk, op)
}

func (pb *patternBuilder) replaceWithOp(target, with *ir.Operation) {
	op := pb.b.NewOperation(pdl.OpReplace)
	ir.AddOperand(op, target.Result(0))
	ir.AddOperand(op, with.Result(0))
	ir.AppendOperation(pb.rblk, op)
}

func testConfig(strictness Strictness) Config {
	return Config{Strictness: strictness, Registry: dialect.Default()}
}

func abortKind(t *testing.T, v diag.Verdict) diag.Kind {
	t.Helper()
	require.False(t, v.IsOK(), "expected an abort, got OK")
	return v.Abort.Kind
}

// S1: matched pdltest.matchop with one result, rewrite body erases the
// root. STRICT must abort UsesOutside (the result's UnknownUse token is
// still attached); ASSUME_NO_USE_OUTSIDE must accept.
func TestS1_EraseMatchedRootWithResult(t *testing.T) {
	build := func() *ir.Operation {
		pb := newPatternBuilder()
		root := pb.matchOp("pdltest.matchop", nil, 1)
		pb.startRewrite(root)
		pb.erase(root)
		return pb.finish()
	}

	require.Equal(t, diag.UsesOutside, abortKind(t, Analyze(build(), testConfig(Strict))))
	require.True(t, Analyze(build(), testConfig(AssumeNoUseOutside)).IsOK())
}

// S2: matched root, rewrite creates pdltest.rewriteop then replaces the
// root with it. Must be OK in both strictness modes.
func TestS2_ReplaceRootWithCreatedOp(t *testing.T) {
	build := func() *ir.Operation {
		pb := newPatternBuilder()
		root := pb.matchOp("pdltest.matchop", nil, 1)
		pb.startRewrite(root)
		newOp := pb.createOp("pdltest.rewriteop", nil, 1)
		pb.replaceWithOp(root, newOp)
		return pb.finish()
	}

	require.True(t, Analyze(build(), testConfig(Strict)).IsOK())
	require.True(t, Analyze(build(), testConfig(AssumeNoUseOutside)).IsOK())
}

// S3: two disconnected matched pdltest.matchops (rewrite only reaches
// one of them via its root). Must abort DisconnectedMatch.
func TestS3_DisconnectedMatch(t *testing.T) {
	pb := newPatternBuilder()
	root := pb.matchOp("pdltest.matchop", nil, 0)
	_ = pb.matchOp("pdltest.matchop", nil, 0) // never reached from root
	pb.startRewrite(root)
	pb.erase(root)
	pat := pb.finish()

	require.Equal(t, diag.DisconnectedMatch, abortKind(t, Analyze(pat, testConfig(Strict))))
}

// S4: rewrite erases the root, then tries to create a new op with no
// live anchor left. Must abort NoInsertionPoint.
func TestS4_NoInsertionPointAfterErase(t *testing.T) {
	pb := newPatternBuilder()
	root := pb.matchOp("pdltest.matchop", nil, 0)
	pb.startRewrite(root)
	pb.erase(root)
	pb.createOp("pdltest.rewriteop", nil, 0)
	pat := pb.finish()

	require.Equal(t, diag.NoInsertionPoint, abortKind(t, Analyze(pat, testConfig(Strict))))
}

// S5: matched pdltest.terminator replaced by a non-terminator
// pdltest.rewriteop. Must abort TerminatorReplacedByNonTerminator.
func TestS5_TerminatorReplacedByNonTerminator(t *testing.T) {
	pb := newPatternBuilder()
	root := pb.matchOp("pdltest.terminator", nil, 0)
	pb.startRewrite(root)
	newOp := pb.createOp("pdltest.rewriteop", nil, 0)
	pb.replaceWithOp(root, newOp)
	pat := pb.finish()

	require.Equal(t, diag.TerminatorReplacedByNonTerminator, abortKind(t, Analyze(pat, testConfig(Strict))))
}

// Erasing a matched terminator outright, with no replacement at all,
// must abort TerminatorErased.
func TestTerminatorErasedWithNoReplacement(t *testing.T) {
	pb := newPatternBuilder()
	root := pb.matchOp("pdltest.terminator", nil, 0)
	pb.startRewrite(root)
	pb.erase(root)
	pat := pb.finish()

	require.Equal(t, diag.TerminatorErased, abortKind(t, Analyze(pat, testConfig(Strict))))
}

// The sibling-prev rule: erasing a matched terminator is fine when a new
// terminator was generated immediately before the erase.
func TestTerminatorErasedAfterNewTerminatorIsOK(t *testing.T) {
	pb := newPatternBuilder()
	root := pb.matchOp("pdltest.terminator", nil, 0)
	pb.startRewrite(root)
	pb.createOp("pdltest.terminator", nil, 0)
	pb.erase(root)
	pat := pb.finish()

	require.True(t, Analyze(pat, testConfig(Strict)).IsOK())
}

// The sibling-prev rule requires strict adjacency: an intervening
// pdl.type between the created terminator and the erase breaks it.
func TestTerminatorErasedNotAdjacentToNewTerminatorFails(t *testing.T) {
	pb := newPatternBuilder()
	root := pb.matchOp("pdltest.terminator", nil, 0)
	pb.startRewrite(root)
	pb.createOp("pdltest.terminator", nil, 0)
	spacer := pb.b.NewOperation(pdl.OpType)
	pb.b.AddResult(spacer, nil)
	ir.AppendOperation(pb.rblk, spacer)
	pb.erase(root)
	pat := pb.finish()

	require.Equal(t, diag.TerminatorErased, abortKind(t, Analyze(pat, testConfig(Strict))))
}

// A generated op that consumes the root's own (still-live) result is a
// forward reference, since every generated op is conceptually inserted
// before the root: this must abort RootUsedInRHS.
func TestRootUsedInRHSWhileRootStillLive(t *testing.T) {
	pb := newPatternBuilder()
	root := pb.matchOp("pdltest.matchop", nil, 1)
	pb.startRewrite(root)
	rootResult := pb.resultInRewrite(root, 0)
	pb.createOp("pdltest.rewriteop", []*ir.Value{rootResult}, 0)
	pat := pb.finish()

	require.Equal(t, diag.RootUsedInRHS, abortKind(t, Analyze(pat, testConfig(Strict))))
}

// Once the root has actually been erased, its extracted result leaves
// scope along with it: a later reference to that stale value is a plain
// OutOfScope, not RootUsedInRHS. Uses ASSUME_NO_USE_OUTSIDE so the erase
// itself succeeds (no UnknownUse token blocking it) and the OutOfScope
// check on the later create is what's actually being exercised.
func TestRootResultOutOfScopeAfterErase(t *testing.T) {
	pb := newPatternBuilder()
	root := pb.matchOp("pdltest.matchop", nil, 1)
	pb.startRewrite(root)
	rootResult := pb.resultInRewrite(root, 0)
	pb.erase(root)
	pb.createOp("pdltest.rewriteop", []*ir.Value{rootResult}, 0)
	pat := pb.finish()

	require.Equal(t, diag.OutOfScope, abortKind(t, Analyze(pat, testConfig(AssumeNoUseOutside))))
}
