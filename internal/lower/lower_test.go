package lower

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xirdlcheck/xirdlcheck/internal/dialect"
	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/interp"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
	"github.com/xirdlcheck/xirdlcheck/internal/pdl"
	"github.com/xirdlcheck/xirdlcheck/internal/simplify"
	"github.com/xirdlcheck/xirdlcheck/internal/smt"
)

func testInterpConfig() interp.Config {
	return interp.Config{Strictness: interp.Strict, Registry: dialect.NewRegistry()}
}

// buildTestDialect declares one operation, "test.op", whose single
// operand and single result share one constraint node — so the lhs/rhs
// constraint graphs a pattern lowers against actually tie operand and
// result types together, the way a real arith op's IRDL schema would.
func buildTestDialect(b *ir.Builder) *ir.Operation {
	schemaRegion := b.NewRegion()
	schemaBlk := b.NewBlock("")
	schemaBlk.Parent = schemaRegion
	schemaRegion.Blocks = append(schemaRegion.Blocks, schemaBlk)

	shared := b.NewOperation(irdl.OpAny)
	sharedVal := b.AddResult(shared, nil)
	ir.AppendOperation(schemaBlk, shared)

	operands := b.NewOperation(irdl.OpOperands)
	ir.AddOperand(operands, sharedVal)
	ir.AppendOperation(schemaBlk, operands)

	results := b.NewOperation(irdl.OpResults)
	ir.AddOperand(results, sharedVal)
	ir.AppendOperation(schemaBlk, results)

	schema := b.NewOperation(irdl.OpOperation)
	schema.SetAttr("name", ir.StringAttr{Value: "test.op"})
	schema.Regions = []*ir.Region{schemaRegion}
	schemaRegion.Parent = schema

	dialectRegion := b.NewRegion()
	dialectBlk := b.NewBlock("")
	dialectBlk.Parent = dialectRegion
	dialectRegion.Blocks = append(dialectRegion.Blocks, dialectBlk)
	ir.AppendOperation(dialectBlk, schema)

	dialectOp := b.NewOperation(irdl.OpDialect)
	dialectOp.SetAttr("name", ir.StringAttr{Value: "test"})
	dialectOp.Regions = []*ir.Region{dialectRegion}
	dialectRegion.Parent = dialectOp
	return dialectOp
}

// lowerFixture assembles one PDL pattern against a shared ir.Builder: a
// matched test.op with one operand and one result, rewritten into a
// freshly created test.op over the same operand, then a replace of the
// root by the new op — §4.E's canonical "identity-shaped" rewrite.
type lowerFixture struct {
	b        *ir.Builder
	matchBlk *ir.Block
	rblk     *ir.Block
}

func newLowerFixture(b *ir.Builder) (*lowerFixture, *ir.Operation) {
	pat := b.NewOperation(pdl.OpPattern)
	body := b.NewRegion()
	body.Parent = pat
	blk := b.NewBlock("")
	blk.Parent = body
	body.Blocks = append(body.Blocks, blk)
	pat.Regions = []*ir.Region{body}
	return &lowerFixture{b: b, matchBlk: blk}, pat
}

func (f *lowerFixture) operand() *ir.Value {
	op := f.b.NewOperation(pdl.OpOperand)
	v := f.b.AddResult(op, nil)
	ir.AppendOperation(f.matchBlk, op)
	return v
}

func (f *lowerFixture) operationOp(blk *ir.Block, name string, operands []*ir.Value, numResults int) *ir.Operation {
	op := f.b.NewOperation(pdl.OpOperation)
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
		t := f.b.NewOperation(pdl.OpType)
		tv := f.b.AddResult(t, nil)
		ir.AppendOperation(blk, t)
		ir.AddOperand(op, tv)
	}
	f.b.AddResult(op, nil)
	ir.AppendOperation(blk, op)
	return op
}

func (f *lowerFixture) startRewrite(pat *ir.Operation, root *ir.Operation) {
	rw := f.b.NewOperation(pdl.OpRewrite)
	ir.AddOperand(rw, root.Result(0))
	rbody := f.b.NewRegion()
	rbody.Parent = rw
	f.rblk = f.b.NewBlock("")
	f.rblk.Parent = rbody
	rbody.Blocks = append(rbody.Blocks, f.rblk)
	rw.Regions = []*ir.Region{rbody}
	ir.AppendOperation(f.matchBlk, rw)
}

func (f *lowerFixture) replace(target, with *ir.Operation) {
	op := f.b.NewOperation(pdl.OpReplace)
	ir.AddOperand(op, target.Result(0))
	ir.AddOperand(op, with.Result(0))
	ir.AppendOperation(f.rblk, op)
}

// buildIdentityRewritePattern builds: root = test.op(a) -> 1 result;
// rewrite: new = test.op(a) -> 1 result; replace(root, new). The new op
// reuses the exact same operand value the root matched, so lhs and rhs
// both assert "operand type == result type" via the shared schema node
// — a rewrite with no way to desynchronize operand/result typing.
func buildIdentityRewritePattern(b *ir.Builder) *ir.Operation {
	f, pat := newLowerFixture(b)
	a := f.operand()
	root := f.operationOp(f.matchBlk, "test.op", []*ir.Value{a}, 1)
	f.startRewrite(pat, root)
	newOp := f.operationOp(f.rblk, "test.op", []*ir.Value{a}, 1)
	f.replace(root, newOp)
	return pat
}

type fakeSolver struct {
	result smt.Result
	script string
}

func (fs *fakeSolver) CheckSat(ctx context.Context, script string) (smt.Result, error) {
	fs.script = script
	return fs.result, nil
}

// TestLowerSimplifyEncodePipeline drives the whole §4.E/§4.F/§4.G chain
// end to end: interp.Simulate's snapshot feeds LowerPattern, the
// resulting check_subset op is simplified, then encoded into an SMT-LIB2
// script. No real solver runs; a canned Unsat response exercises the
// Discharge plumbing the way internal/tabulate's classifier depends on.
func TestLowerSimplifyEncodePipeline(t *testing.T) {
	b := ir.NewBuilder()
	dialectOp := buildTestDialect(b)
	env, err := BuildEnv(dialectOp, nil)
	require.NoError(t, err)
	require.Contains(t, env.Operations, "test.op")

	pat := buildIdentityRewritePattern(b)
	cfg := testInterpConfig()

	checkOp, verdict := LowerPattern(b, env, pat, cfg)
	require.True(t, verdict.IsOK(), "lowering a well-formed identity rewrite must not abort")
	require.NotNil(t, checkOp)
	require.Equal(t, irdl.OpCheckSubset, checkOp.Name)

	lhs, rhs := irdl.CheckSubsetRegions(checkOp)
	require.NotNil(t, lhs)
	require.NotNil(t, rhs)

	simplify.CheckSubset(b, checkOp)

	q, err := smt.BuildQuery(checkOp)
	require.NoError(t, err)
	require.NotEmpty(t, q.Script)
	require.Contains(t, q.Script, "declare-datatypes")
	require.Equal(t, len(q.LHSYield), len(q.RHSYield), "lhs/rhs must yield the same arity for the subset query to typecheck")

	solver := &fakeSolver{result: smt.Result{Sat: smt.Unsat}}
	res, err := smt.Discharge(context.Background(), solver, checkOp)
	require.NoError(t, err)
	require.Equal(t, smt.Unsat, res.Sat)
	require.Contains(t, solver.script, "check-sat")
}

// TestLowerRejectsUnknownNativeRewrite exercises §4.E's "unknown native
// rewrites fail lowering" rule: a pdl.apply_native_rewrite naming a
// function outside the fixed modeled set must surface as
// UnknownNativeRewrite rather than silently lowering to an unconstrained
// placeholder.
func TestLowerRejectsUnknownNativeRewrite(t *testing.T) {
	b := ir.NewBuilder()
	dialectOp := buildTestDialect(b)
	env, err := BuildEnv(dialectOp, nil)
	require.NoError(t, err)

	f, pat := newLowerFixture(b)
	a := f.operand()
	root := f.operationOp(f.matchBlk, "test.op", []*ir.Value{a}, 1)
	f.startRewrite(pat, root)

	native := b.NewOperation(pdl.OpApplyNativeRewrite)
	native.SetAttr("name", ir.StringAttr{Value: "totally_unmodeled_helper"})
	nv := b.AddResult(native, nil)
	ir.AppendOperation(f.rblk, native)

	newOp := f.operationOp(f.rblk, "test.op", []*ir.Value{nv}, 1)
	f.replace(root, newOp)

	cfg := testInterpConfig()
	_, verdict := LowerPattern(b, env, pat, cfg)
	require.False(t, verdict.IsOK())
	require.Equal(t, diag.UnknownNativeRewrite, verdict.Abort.Kind)
}
