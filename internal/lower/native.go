package lower

import (
	"fmt"

	"github.com/xirdlcheck/xirdlcheck/internal/config"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
)

var i64Type = ir.ParametricAttr{
	Dialect: "builtin",
	Name:    "integer_type",
	Params:  []ir.Attribute{ir.IntAttr{Value: 64}, ir.StringAttr{Value: "signless"}},
}

// lowerNativeRewrite implements the fixed native-rewrite table of §4.E,
// falling back to a §9 AnalysisConfig's additional bindings (ext, may be
// nil) for any name not in the built-in table. An unmodeled name fails
// lowering either way (UnknownNativeRewrite).
func lowerNativeRewrite(g *graph, name string, args []*ir.Value, ext *config.AnalysisConfig) (*ir.Value, error) {
	switch name {
	case "get_zero":
		if len(args) < 1 {
			return nil, fmt.Errorf("get_zero expects 1 argument, got %d", len(args))
		}
		any := g.emit(irdl.OpAny, constraintType)
		return g.emitWithAttr(irdl.OpParametric, "base_type", ir.SymbolRefAttr{Name: "builtin.integer_attr"}, constraintType, any, args[0]), nil
	case "addi", "subi", "muli":
		if len(args) < 1 {
			return nil, fmt.Errorf("%s expects at least 1 argument", name)
		}
		return args[0], nil
	case "get_width":
		// Width extraction has no further algebraic embedding in this
		// attribute universe; modeled as an unconstrained int leaf.
		return g.emit(irdl.OpAny, constraintType), nil
	case "invert_arith_cmpi_predicate":
		any := g.emit(irdl.OpAny, constraintType)
		width := g.emitWithAttr(irdl.OpIs, "expected_attr", i64Type, constraintType)
		return g.emitWithAttr(irdl.OpParametric, "base_type", ir.SymbolRefAttr{Name: "builtin.integer_attr"}, constraintType, any, width), nil
	default:
		if ext != nil {
			if tmpl, ok := ext.NativeRewrites[name]; ok {
				return lowerConfiguredRewrite(g, name, tmpl, args)
			}
		}
		return nil, fmt.Errorf("unknown native rewrite %q", name)
	}
}

// lowerConfiguredRewrite realizes one of the fixed shapes config.RewriteKind
// names, the same way a built-in case above does by hand.
func lowerConfiguredRewrite(g *graph, name string, tmpl config.NativeRewriteTemplate, args []*ir.Value) (*ir.Value, error) {
	switch tmpl.Kind {
	case config.RewriteArg:
		if tmpl.ArgIndex < 0 || tmpl.ArgIndex >= len(args) {
			return nil, fmt.Errorf("%s: argIndex %d out of range (%d args)", name, tmpl.ArgIndex, len(args))
		}
		return args[tmpl.ArgIndex], nil
	case config.RewriteUnconstrained:
		return g.emit(irdl.OpAny, constraintType), nil
	case config.RewriteParametricAny:
		if tmpl.ArgIndex < 0 || tmpl.ArgIndex >= len(args) {
			return nil, fmt.Errorf("%s: argIndex %d out of range (%d args)", name, tmpl.ArgIndex, len(args))
		}
		if tmpl.BaseType == "" {
			return nil, fmt.Errorf("%s: parametric_any rewrite requires baseType", name)
		}
		any := g.emit(irdl.OpAny, constraintType)
		return g.emitWithAttr(irdl.OpParametric, "base_type", ir.SymbolRefAttr{Name: tmpl.BaseType}, constraintType, any, args[tmpl.ArgIndex]), nil
	default:
		return nil, fmt.Errorf("%s: unknown configured rewrite kind %q", name, tmpl.Kind)
	}
}

// nativeConstraintBases lists the modeled native constraints of §4.E, each
// naming the base type(s) that satisfy it. Anything not in this table is
// discarded (conservative): it contributes no typing information but does
// not fail lowering, unlike an unknown native rewrite.
var nativeConstraintBases = map[string][]string{
	"is_vector":          {"builtin.vector"},
	"is_tensor":          {"builtin.tensor"},
	"is_vector_or_tensor": {"builtin.vector", "builtin.tensor"},
}

// lowerNativeConstraint emits the BaseOp (or AnyOfOp of bases) + EqOp
// pair conjoining a modeled native constraint onto an already-resolved
// argument constraint value, falling back to a §9 AnalysisConfig's
// additional bindings (ext, may be nil) for any name not in the
// built-in table. ok is false for a name unmodeled by both, in which
// case the caller simply drops it.
func lowerNativeConstraint(g *graph, name string, arg *ir.Value, ext *config.AnalysisConfig) (ok bool) {
	bases, known := nativeConstraintBases[name]
	if !known && ext != nil {
		bases, known = ext.NativeConstraints[name]
	}
	if !known {
		return false
	}
	var baseVal *ir.Value
	if len(bases) == 1 {
		baseVal = g.emitWithAttr(irdl.OpBase, "base_name", ir.StringAttr{Value: bases[0]}, constraintType)
	} else {
		var alts []*ir.Value
		for _, b := range bases {
			alts = append(alts, g.emitWithAttr(irdl.OpBase, "base_name", ir.StringAttr{Value: b}, constraintType))
		}
		baseVal = g.emit(irdl.OpAnyOf, constraintType, alts...)
	}
	g.emitVoid(irdl.OpEq, baseVal, arg)
	return true
}
