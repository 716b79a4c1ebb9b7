package smt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
)

// buildCheckSubset wires a minimal two-region check_subset op by hand:
// lhs yields an unconstrained irdl.any, rhs yields a constant irdl.is(5).
// This is deliberately simpler than a real internal/lower output, just
// enough to exercise every encodeRegion branch once.
func buildCheckSubset(b *ir.Builder, rhsConst ir.Attribute) *ir.Operation {
	check := b.NewOperation(irdl.OpCheckSubset)

	lhsRegion := b.NewRegion()
	lhsRegion.Parent = check
	lhsBlk := b.NewBlock("")
	lhsBlk.Parent = lhsRegion
	lhsRegion.Blocks = append(lhsRegion.Blocks, lhsBlk)

	anyOp := b.NewOperation(irdl.OpAny)
	anyVal := b.AddResult(anyOp, nil)
	ir.AppendOperation(lhsBlk, anyOp)

	lhsYield := b.NewOperation(irdl.OpYield)
	ir.AddOperand(lhsYield, anyVal)
	ir.AppendOperation(lhsBlk, lhsYield)

	rhsRegion := b.NewRegion()
	rhsRegion.Parent = check
	rhsBlk := b.NewBlock("")
	rhsBlk.Parent = rhsRegion
	rhsRegion.Blocks = append(rhsRegion.Blocks, rhsBlk)

	isOp := b.NewOperation(irdl.OpIs)
	isOp.SetAttr("expected_attr", rhsConst)
	isVal := b.AddResult(isOp, nil)
	ir.AppendOperation(rhsBlk, isOp)

	rhsYield := b.NewOperation(irdl.OpYield)
	ir.AddOperand(rhsYield, isVal)
	ir.AppendOperation(rhsBlk, rhsYield)

	check.Regions = []*ir.Region{lhsRegion, rhsRegion}
	return check
}

func TestBuildQueryShape(t *testing.T) {
	b := ir.NewBuilder()
	check := buildCheckSubset(b, ir.IntAttr{Value: 5})

	q, err := BuildQuery(check)
	require.NoError(t, err)
	require.Contains(t, q.Script, "declare-datatypes")
	require.Contains(t, q.Script, "(declare-const lhs_v")
	require.Contains(t, q.Script, "(assert (not (= lhs_v")
	require.Contains(t, q.Script, "exists")
	require.Contains(t, q.Script, "(int 5)")
	require.Len(t, q.LHSYield, 1)
	require.Len(t, q.RHSYield, 1)
}

type fakeSolver struct {
	result Result
	err    error
	script string
}

func (f *fakeSolver) CheckSat(ctx context.Context, script string) (Result, error) {
	f.script = script
	return f.result, f.err
}

func TestDischargeUnsatIsSafe(t *testing.T) {
	b := ir.NewBuilder()
	check := buildCheckSubset(b, ir.IntAttr{Value: 5})
	solver := &fakeSolver{result: Result{Sat: Unsat}}

	res, err := Discharge(context.Background(), solver, check)
	require.NoError(t, err)
	require.Equal(t, Unsat, res.Sat)
	require.Contains(t, solver.script, "check-sat")
}

func TestDischargeSatCarriesModel(t *testing.T) {
	b := ir.NewBuilder()
	check := buildCheckSubset(b, ir.IntAttr{Value: 5})
	solver := &fakeSolver{result: Result{Sat: Sat, Model: "(model (define-fun lhs_v0 () Attribute unassigned))"}}

	res, err := Discharge(context.Background(), solver, check)
	require.NoError(t, err)
	require.Equal(t, Sat, res.Sat)
	require.NotEmpty(t, res.Model)
}

func TestUniverseCollectsDistinctConstructors(t *testing.T) {
	u := NewUniverse()
	u.register("builtin.integer_type", 2)
	u.register("builtin.vector", 1)
	decl := u.Declare()
	require.Contains(t, decl, "builtin.integer_type")
	require.Contains(t, decl, "builtin.vector")
	require.Contains(t, decl, "unassigned")
}
