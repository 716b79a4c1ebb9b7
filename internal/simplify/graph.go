// Package simplify implements the fixed-point rewriter over an IRDL
// constraint graph (one check_subset region, lhs or rhs), applying the
// algebraic laws of the simplification law table until none fires. Each
// round rescans every op still reachable through a live result (an
// op already superseded this pass is skipped, not requeued), which gets
// the same fixed point as a per-node worklist at the cost of some
// redundant rescanning — acceptable given these graphs are small.
package simplify

import "github.com/xirdlcheck/xirdlcheck/internal/ir"

// constraintType mirrors internal/lower's nominal marker type for a
// lowered constraint node's Value.Type: simplify only ever rebuilds or
// creates nodes of that same kind, never introduces a new attribute
// universe of its own.
var constraintType ir.Attribute = ir.ParametricAttr{Dialect: "irdl", Name: "constraint"}

// Graph is one constraint-graph region under simplification.
type Graph struct {
	b      *ir.Builder
	Region *ir.Region
	Block  *ir.Block
}

func NewGraph(b *ir.Builder, region *ir.Region) *Graph {
	if len(region.Blocks) == 0 {
		return &Graph{b: b, Region: region}
	}
	return &Graph{b: b, Region: region, Block: region.Blocks[0]}
}

// rebuild replaces op with a fresh op of the same name/attrs but a new
// operand list, retargeting every existing consumer of op's result onto
// the replacement. Used by any law that changes an op's arity (flatten,
// dedup, drop-arg): the IR core's builder API has no in-place operand
// removal, so arity-changing laws always go through a new node.
func (g *Graph) rebuild(op *ir.Operation, operands []*ir.Value) *ir.Operation {
	nop := g.b.NewOperation(op.Name)
	for _, a := range op.Attributes {
		nop.SetAttr(a.Name, a.Value)
	}
	for _, o := range operands {
		ir.AddOperand(nop, o)
	}
	if len(op.Results) > 0 {
		nres := g.b.AddResult(nop, op.Results[0].Type)
		ir.AppendOperation(g.Block, nop)
		ir.ReplaceAllUsesWith(op.Result(0), nres)
		return nop
	}
	ir.AppendOperation(g.Block, nop)
	return nop
}

// fresh emits a new op with no operands copied from anywhere (AnyOp(),
// AnyOf([]), ...).
func (g *Graph) fresh(name string, resultType ir.Attribute, operands ...*ir.Value) *ir.Value {
	op := g.b.NewOperation(name)
	for _, o := range operands {
		ir.AddOperand(op, o)
	}
	res := g.b.AddResult(op, resultType)
	ir.AppendOperation(g.Block, op)
	return res
}

// replaceWith redirects every use of op's result to replacement, leaving
// op orphaned (the final sweep drops anything unreachable).
func (g *Graph) replaceWith(op *ir.Operation, replacement *ir.Value) {
	if res := op.Result(0); res != nil {
		ir.ReplaceAllUsesWith(res, replacement)
	}
}
