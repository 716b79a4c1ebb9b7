package lower

import (
	"strings"

	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
)

// embedAttrPatterns implements EmbedIRDLAttrPattern (§4.E): for every
// BaseOp/ParametricOp in region, fetch the pointed-to AttributeOp/TypeOp
// definition, clone its parameter constraints into region, and join the
// clone with the original via an AllOfOp — so e.g. vector<T>'s
// requirement that T be a builtin element type participates in the SMT
// query, not just vector's own outer shape.
//
// Graphs built by this package always leave a BaseOp/ParametricOp with
// exactly one consumer (the EqOp lowerOp emits immediately after it), so
// unlike a hand-authored IRDL graph with a shared reference, no other
// consumer needs retargeting onto the joined AllOfOp.
func embedAttrPatterns(b *ir.Builder, env *Env, region *ir.Region) {
	if region == nil || len(region.Blocks) == 0 {
		return
	}
	blk := region.Blocks[0]
	g := &graph{b: b, block: blk}

	// Snapshot the op list: embedding appends new ops to the same block.
	ops := append([]*ir.Operation(nil), blk.Operations...)
	for _, op := range ops {
		switch op.Name {
		case irdl.OpBase:
			embedBase(g, env, op)
		case irdl.OpParametric:
			embedParametric(g, env, op)
		}
	}
}

func lookupSchema(env *Env, qualifiedOrBare string) *ir.Operation {
	if s, ok := env.Schemas[qualifiedOrBare]; ok {
		return s
	}
	if strings.Contains(qualifiedOrBare, ".") {
		parts := strings.SplitN(qualifiedOrBare, ".", 2)
		if s, ok := env.Schemas[parts[1]]; ok {
			return s
		}
	}
	return nil
}

func embedBase(g *graph, env *Env, op *ir.Operation) {
	var schema *ir.Operation
	if bn, ok := irdl.BaseName(op); ok {
		schema = lookupSchema(env, bn)
	} else if ref, ok := irdl.BaseRef(op); ok {
		schema = lookupSchema(env, ref.Name)
	}
	if schema == nil {
		return
	}
	joinWithSchema(g, op, schema, nil)
}

func embedParametric(g *graph, env *Env, op *ir.Operation) {
	ref, ok := irdl.ParametricBaseRef(op)
	if !ok {
		return
	}
	schema := lookupSchema(env, ref.Name)
	if schema == nil {
		return
	}
	joinWithSchema(g, op, schema, irdl.ParametricArgs(op))
}

// joinWithSchema clones schema's ParamBody into g, equates each cloned
// per-parameter yield slot with the corresponding actual argument (for a
// ParametricOp; skipped for a bare BaseOp), and joins op's own result
// with an AllOfOp over the schema's top-level constraint.
func joinWithSchema(g *graph, op *ir.Operation, schema *ir.Operation, actualArgs []*ir.Value) {
	body := irdl.ParamBody(schema)
	if body == nil || len(body.Blocks) == 0 || len(body.Blocks[0].Operations) == 0 {
		return
	}
	schemaOps := body.Blocks[0].Operations
	last := schemaOps[len(schemaOps)-1]
	if last.Name != irdl.OpYield {
		return
	}
	cloneOps := schemaOps[:len(schemaOps)-1]
	mapping := g.cloneInto(cloneOps)

	yieldArgs := irdl.YieldArgs(last)
	for i, actual := range actualArgs {
		if i >= len(yieldArgs) {
			break
		}
		clonedParam, ok := mapping[yieldArgs[i]]
		if !ok {
			continue
		}
		g.emitVoid(irdl.OpEq, clonedParam, actual)
	}

	if len(yieldArgs) == 0 {
		return
	}
	clonedWhole, ok := mapping[yieldArgs[0]]
	if !ok {
		return
	}
	original := op.Result(0)
	if original == nil {
		return
	}
	g.emit(irdl.OpAllOf, constraintType, original, clonedWhole)
}
