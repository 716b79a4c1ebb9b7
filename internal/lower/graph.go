package lower

import "github.com/xirdlcheck/xirdlcheck/internal/ir"

// constraintType is every lowered constraint node's Value.Type: the IR
// core requires a typed Value, and an IRDL constraint node isn't itself
// typed by anything richer than "it is a constraint," so it gets its own
// nominal marker type instead of a nil/sentinel Attribute.
var constraintType ir.Attribute = ir.ParametricAttr{Dialect: "irdl", Name: "constraint"}

// graph is one constraint region under construction (a CheckSubsetOp's
// lhs or rhs): a single block that IRDL ops are appended to in the order
// they're lowered.
type graph struct {
	b     *ir.Builder
	block *ir.Block
}

func newGraph(b *ir.Builder, region *ir.Region) *graph {
	blk := b.NewBlock("")
	blk.Parent = region
	region.Blocks = append(region.Blocks, blk)
	return &graph{b: b, block: blk}
}

// emit appends a fresh single-result op with the given operands.
func (g *graph) emit(name string, resultType ir.Attribute, operands ...*ir.Value) *ir.Value {
	op := g.b.NewOperation(name)
	for _, o := range operands {
		ir.AddOperand(op, o)
	}
	res := g.b.AddResult(op, resultType)
	ir.AppendOperation(g.block, op)
	return res
}

// emitVoid appends a fresh op with no result (EqOp, MatchOp, YieldOp: §4.E
// assertions rather than constraint-valued nodes).
func (g *graph) emitVoid(name string, operands ...*ir.Value) *ir.Operation {
	op := g.b.NewOperation(name)
	for _, o := range operands {
		ir.AddOperand(op, o)
	}
	ir.AppendOperation(g.block, op)
	return op
}

func (g *graph) emitWithAttr(name, attrName string, attr ir.Attribute, resultType ir.Attribute, operands ...*ir.Value) *ir.Value {
	op := g.b.NewOperation(name)
	op.SetAttr(attrName, attr)
	for _, o := range operands {
		ir.AddOperand(op, o)
	}
	res := g.b.AddResult(op, resultType)
	ir.AppendOperation(g.block, op)
	return res
}

// cloneInto flat-clones a schema's constraint ops into g's block (no
// nested regions: IRDL constraint ops never have any), returning the
// old->new value mapping so the caller can find the cloned identity of
// e.g. an OperandsOp/ResultsOp's argument list.
func (g *graph) cloneInto(schemaOps []*ir.Operation) ir.ValueMapping {
	mapping := ir.ValueMapping{}
	for _, op := range schemaOps {
		nop := g.b.NewOperation(op.Name)
		for _, a := range op.Attributes {
			nop.SetAttr(a.Name, a.Value)
		}
		for _, operand := range op.Operands {
			mapped := operand
			if nv, ok := mapping[operand]; ok {
				mapped = nv
			}
			ir.AddOperand(nop, mapped)
		}
		for _, res := range op.Results {
			nr := g.b.AddResult(nop, res.Type)
			mapping[res] = nr
		}
		ir.AppendOperation(g.block, nop)
	}
	return mapping
}
