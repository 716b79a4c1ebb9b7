package fuzz

import (
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/pdl"
)

// Pattern is a generated pdl.pattern operation plus enough bookkeeping
// for the interleaver to place its matched ops into a host DAG: the
// matched ops in program order and the index, within them, of the op the
// generator chose as the rewrite root.
type Pattern struct {
	Op        *ir.Operation
	MatchOps  []*ir.Operation
	RootIndex int // index into MatchOps
}

const (
	minMatchOps = 1
	maxMatchOps = 4
	minRewriteOps = 1
	maxRewriteOps = 3

	// terminatorProbability is the "low probability" of §4.C for
	// emitting a TestTerminatorOp instead of TestMatchOp.
	terminatorProbability = 0.1
)

// rewriteKind enumerates the ops a generated rewrite body draws from,
// per §4.C: {create, erase, replace-with-op, replace-with-values}.
type rewriteKind int

const (
	rewriteCreate rewriteKind = iota
	rewriteErase
	rewriteReplaceWithOp
	rewriteReplaceWithValues
)

// Generator builds one pdl.pattern operation at a time, using b to
// allocate every op/value so the result is a normal internal/ir tree the
// rest of the toolchain (interp, lower) can consume unmodified.
type Generator struct {
	b   *ir.Builder
	src RandomSource
}

func NewGenerator(b *ir.Builder, src RandomSource) *Generator {
	return &Generator{b: b, src: src}
}

// GeneratePattern builds a match sub-pattern of 1-4 operations (0-2
// operands, 0-2 results each) followed by a rewrite body of 1-3 ops, per
// §4.C.
func (g *Generator) GeneratePattern() *Pattern {
	patternOp := g.b.NewOperation(pdl.OpPattern)
	body := g.b.NewRegion()
	body.Parent = patternOp
	blk := g.b.NewBlock("")
	blk.Parent = body
	body.Blocks = append(body.Blocks, blk)
	patternOp.Regions = []*ir.Region{body}

	numMatch := minMatchOps + g.src.Intn(maxMatchOps-minMatchOps+1)

	var matchOps []*ir.Operation
	var availableResults []*ir.Value // pdl.result values already extracted, usable as operands

	for i := 0; i < numMatch; i++ {
		name := "pdltest.matchop"
		if g.src.Float64() < terminatorProbability {
			name = "pdltest.terminator"
		}

		numOperands := g.src.Intn(3) // 0-2
		var operandVals []*ir.Value
		for k := 0; k < numOperands; k++ {
			if len(availableResults) > 0 && g.src.Float64() < 0.6 {
				operandVals = append(operandVals, availableResults[g.src.Intn(len(availableResults))])
				continue
			}
			operandVals = append(operandVals, g.emitOperand(blk))
		}

		numResults := g.src.Intn(3) // 0-2
		var typeVals []*ir.Value
		for k := 0; k < numResults; k++ {
			typeVals = append(typeVals, g.emitType(blk))
		}

		op := g.b.NewOperation(pdl.OpOperation)
		op.SetAttr("name", ir.StringAttr{Value: name})
		op.SetAttr("operand_segment_sizes", ir.ArrayAttr{Elems: []ir.Attribute{
			ir.IntAttr{Value: int64(len(operandVals))},
			ir.IntAttr{Value: 0},
			ir.IntAttr{Value: int64(len(typeVals))},
		}})
		for _, v := range operandVals {
			ir.AddOperand(op, v)
		}
		for _, v := range typeVals {
			ir.AddOperand(op, v)
		}
		g.b.AddResult(op, nil) // the op's own handle
		ir.AppendOperation(blk, op)
		matchOps = append(matchOps, op)

		for idx := range typeVals {
			availableResults = append(availableResults, g.emitResult(blk, op, idx))
		}
	}

	rootIndex := g.src.Intn(len(matchOps))
	rewriteOp := g.buildRewrite(blk, matchOps, availableResults, matchOps[rootIndex])
	ir.AppendOperation(blk, rewriteOp)

	return &Pattern{Op: patternOp, MatchOps: matchOps, RootIndex: rootIndex}
}

func (g *Generator) emitOperand(blk *ir.Block) *ir.Value {
	op := g.b.NewOperation(pdl.OpOperand)
	v := g.b.AddResult(op, nil)
	ir.AppendOperation(blk, op)
	return v
}

func (g *Generator) emitType(blk *ir.Block) *ir.Value {
	op := g.b.NewOperation(pdl.OpType)
	v := g.b.AddResult(op, nil)
	ir.AppendOperation(blk, op)
	return v
}

func (g *Generator) emitResult(blk *ir.Block, target *ir.Operation, index int) *ir.Value {
	op := g.b.NewOperation(pdl.OpResult)
	op.SetAttr("index", ir.IntAttr{Value: int64(index)})
	ir.AddOperand(op, target.Result(0))
	ir.AppendOperation(blk, op)
	return g.b.AddResult(op, nil)
}

func (g *Generator) buildRewrite(blk *ir.Block, matchOps []*ir.Operation, availableResults []*ir.Value, root *ir.Operation) *ir.Operation {
	rewriteOp := g.b.NewOperation(pdl.OpRewrite)
	ir.AddOperand(rewriteOp, root.Result(0))

	rbody := g.b.NewRegion()
	rbody.Parent = rewriteOp
	rblk := g.b.NewBlock("")
	rblk.Parent = rbody
	rbody.Blocks = append(rbody.Blocks, rblk)
	rewriteOp.Regions = []*ir.Region{rbody}

	handles := append([]*ir.Operation(nil), matchOps...)
	values := append([]*ir.Value(nil), availableResults...)

	numOps := minRewriteOps + g.src.Intn(maxRewriteOps-minRewriteOps+1)
	for i := 0; i < numOps; i++ {
		kind := rewriteKind(g.src.Intn(4))
		switch kind {
		case rewriteCreate:
			op := g.buildCreatedOp(rblk, values)
			handles = append(handles, op)
			if r := op.Result(0); r != nil {
				values = append(values, r)
			}
		case rewriteErase:
			if len(handles) == 0 {
				continue
			}
			target := handles[g.src.Intn(len(handles))]
			eraseOp := g.b.NewOperation(pdl.OpErase)
			ir.AddOperand(eraseOp, target.Result(0))
			ir.AppendOperation(rblk, eraseOp)
		case rewriteReplaceWithOp:
			if len(handles) < 2 {
				continue
			}
			target := handles[g.src.Intn(len(handles))]
			with := handles[g.src.Intn(len(handles))]
			replaceOp := g.b.NewOperation(pdl.OpReplace)
			ir.AddOperand(replaceOp, target.Result(0))
			ir.AddOperand(replaceOp, with.Result(0))
			ir.AppendOperation(rblk, replaceOp)
		case rewriteReplaceWithValues:
			if len(handles) == 0 || len(values) == 0 {
				continue
			}
			target := handles[g.src.Intn(len(handles))]
			replaceOp := g.b.NewOperation(pdl.OpReplace)
			replaceOp.SetAttr("with_kind", ir.StringAttr{Value: "values"})
			ir.AddOperand(replaceOp, target.Result(0))
			numVals := 1 + g.src.Intn(2)
			for k := 0; k < numVals && k < len(values); k++ {
				ir.AddOperand(replaceOp, values[g.src.Intn(len(values))])
			}
			ir.AppendOperation(rblk, replaceOp)
		}
	}
	return rewriteOp
}

func (g *Generator) buildCreatedOp(rblk *ir.Block, values []*ir.Value) *ir.Operation {
	numOperands := g.src.Intn(3)
	var operandVals []*ir.Value
	for k := 0; k < numOperands && len(values) > 0; k++ {
		operandVals = append(operandVals, values[g.src.Intn(len(values))])
	}
	numResults := g.src.Intn(3)
	var typeVals []*ir.Value
	for k := 0; k < numResults; k++ {
		t := g.b.NewOperation(pdl.OpType)
		tv := g.b.AddResult(t, nil)
		ir.AppendOperation(rblk, t)
		typeVals = append(typeVals, tv)
	}

	op := g.b.NewOperation(pdl.OpOperation)
	op.SetAttr("name", ir.StringAttr{Value: "pdltest.rewriteop"})
	op.SetAttr("operand_segment_sizes", ir.ArrayAttr{Elems: []ir.Attribute{
		ir.IntAttr{Value: int64(len(operandVals))},
		ir.IntAttr{Value: 0},
		ir.IntAttr{Value: int64(len(typeVals))},
	}})
	for _, v := range operandVals {
		ir.AddOperand(op, v)
	}
	for _, v := range typeVals {
		ir.AddOperand(op, v)
	}
	g.b.AddResult(op, nil)
	ir.AppendOperation(rblk, op)
	return op
}
