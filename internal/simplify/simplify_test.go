package simplify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
)

func newOneBlockRegion(b *ir.Builder) (*ir.Region, *ir.Block) {
	region := b.NewRegion()
	blk := b.NewBlock("")
	blk.Parent = region
	region.Blocks = append(region.Blocks, blk)
	return region, blk
}

// AllOf([x]) -> x: the singleton law should leave only x's op in the
// block after the unreachable AllOf is swept.
func TestSingletonAllOfCollapses(t *testing.T) {
	b := ir.NewBuilder()
	region, blk := newOneBlockRegion(b)

	base := b.NewOperation(irdl.OpBase)
	base.SetAttr("base_name", ir.StringAttr{Value: "builtin.integer_type"})
	baseVal := b.AddResult(base, nil)
	ir.AppendOperation(blk, base)

	allOf := b.NewOperation(irdl.OpAllOf)
	ir.AddOperand(allOf, baseVal)
	allOfVal := b.AddResult(allOf, nil)
	ir.AppendOperation(blk, allOf)

	yield := b.NewOperation(irdl.OpYield)
	ir.AddOperand(yield, allOfVal)
	ir.AppendOperation(blk, yield)

	Region(b, region)

	require.Len(t, blk.Operations, 2, "AllOf([x]) should collapse to x, leaving base + yield")
	require.Equal(t, irdl.OpBase, blk.Operations[0].Name)
	require.Equal(t, irdl.OpYield, blk.Operations[1].Name)
	require.Same(t, baseVal, yield.Operands[0])
}

// AllOf([]) -> AnyOp(): the empty-conjunction law.
func TestEmptyAllOfBecomesAny(t *testing.T) {
	b := ir.NewBuilder()
	region, blk := newOneBlockRegion(b)

	allOf := b.NewOperation(irdl.OpAllOf)
	allOfVal := b.AddResult(allOf, nil)
	ir.AppendOperation(blk, allOf)

	yield := b.NewOperation(irdl.OpYield)
	ir.AddOperand(yield, allOfVal)
	ir.AppendOperation(blk, yield)

	Region(b, region)

	require.Len(t, blk.Operations, 2)
	require.Equal(t, irdl.OpAny, blk.Operations[0].Name)
}

// AllOf(Base(k), Base(k)) merges into one Base(k) when uniquely used.
func TestDuplicateBaseMerges(t *testing.T) {
	b := ir.NewBuilder()
	region, blk := newOneBlockRegion(b)

	base1 := b.NewOperation(irdl.OpBase)
	base1.SetAttr("base_name", ir.StringAttr{Value: "builtin.integer_type"})
	v1 := b.AddResult(base1, nil)
	ir.AppendOperation(blk, base1)

	base2 := b.NewOperation(irdl.OpBase)
	base2.SetAttr("base_name", ir.StringAttr{Value: "builtin.integer_type"})
	v2 := b.AddResult(base2, nil)
	ir.AppendOperation(blk, base2)

	allOf := b.NewOperation(irdl.OpAllOf)
	ir.AddOperand(allOf, v1)
	ir.AddOperand(allOf, v2)
	allOfVal := b.AddResult(allOf, nil)
	ir.AppendOperation(blk, allOf)

	yield := b.NewOperation(irdl.OpYield)
	ir.AddOperand(yield, allOfVal)
	ir.AppendOperation(blk, yield)

	Region(b, region)

	var bases int
	for _, op := range blk.Operations {
		if op.Name == irdl.OpBase {
			bases++
		}
	}
	require.Equal(t, 1, bases, "the two identical Base ops should merge into one")
}

// AllOf(Base(k1), Base(k2)) with k1 != k2 is unsatisfiable (a value can't
// have two distinct base types at once) and reduces to AnyOf([]).
func TestContradictoryBasesBecomeUnsat(t *testing.T) {
	b := ir.NewBuilder()
	region, blk := newOneBlockRegion(b)

	base1 := b.NewOperation(irdl.OpBase)
	base1.SetAttr("base_name", ir.StringAttr{Value: "builtin.vector"})
	v1 := b.AddResult(base1, nil)
	ir.AppendOperation(blk, base1)

	base2 := b.NewOperation(irdl.OpBase)
	base2.SetAttr("base_name", ir.StringAttr{Value: "builtin.tensor"})
	v2 := b.AddResult(base2, nil)
	ir.AppendOperation(blk, base2)

	allOf := b.NewOperation(irdl.OpAllOf)
	ir.AddOperand(allOf, v1)
	ir.AddOperand(allOf, v2)
	allOfVal := b.AddResult(allOf, nil)
	ir.AppendOperation(blk, allOf)

	yield := b.NewOperation(irdl.OpYield)
	ir.AddOperand(yield, allOfVal)
	ir.AppendOperation(blk, yield)

	Region(b, region)

	found := false
	for _, op := range blk.Operations {
		if op.Name == irdl.OpAnyOf && len(op.Operands) == 0 {
			found = true
		}
	}
	require.True(t, found, "conflicting Base assertions must reduce to the AnyOf([]) unsat sentinel")
}
