// Package irdl reads the IRDL entities of §3 out of the generic
// internal/ir.Operation tree: DialectOp, AttributeOp/TypeOp, OperationOp
// (containing OperandsOp/ResultsOp), the constraint constructors (AnyOp,
// AnyOfOp, AllOfOp, IsOp, BaseOp, ParametricOp), and the lowering-target
// extension ops CheckSubsetOp/YieldOp/MatchOp/EqOp of §4.E. IRDL is the
// irdl.* dialect registered in internal/dialect.IRDLCore.
package irdl

import "github.com/xirdlcheck/xirdlcheck/internal/ir"

const (
	OpDialect     = "irdl.dialect"
	OpAttribute   = "irdl.attribute"
	OpType        = "irdl.type"
	OpOperation   = "irdl.operation"
	OpOperands    = "irdl.operands"
	OpResults     = "irdl.results"
	OpAny         = "irdl.any"
	OpAnyOf       = "irdl.any_of"
	OpAllOf       = "irdl.all_of"
	OpIs          = "irdl.is"
	OpBase        = "irdl.base"
	OpParametric  = "irdl.parametric"
	OpCheckSubset = "irdl.check_subset"
	OpYield       = "irdl.yield"
	OpMatch       = "irdl.match"
	OpEq          = "irdl.eq"
)

func name(op *ir.Operation) string {
	a, ok := op.Attr("name")
	if !ok {
		return ""
	}
	s, _ := a.(ir.StringAttr)
	return s.Value
}

// DialectName reads an irdl.dialect's declared name.
func DialectName(op *ir.Operation) string { return name(op) }

// DialectBody is the region listing the dialect's AttributeOp/TypeOp/
// OperationOp definitions.
func DialectBody(op *ir.Operation) *ir.Region {
	if len(op.Regions) == 0 {
		return nil
	}
	return op.Regions[0]
}

// SchemaName reads an AttributeOp/TypeOp/OperationOp's declared name.
func SchemaName(op *ir.Operation) string { return name(op) }

// ParamBody is an AttributeOp/TypeOp's region of per-parameter constraint
// ops, terminated by a YieldOp listing one value per declared parameter.
func ParamBody(op *ir.Operation) *ir.Region {
	if len(op.Regions) == 0 {
		return nil
	}
	return op.Regions[0]
}

// OperationBody is an irdl.operation's region holding its OperandsOp,
// ResultsOp, and whatever constraint ops those reference.
func OperationBody(op *ir.Operation) *ir.Region {
	if len(op.Regions) == 0 {
		return nil
	}
	return op.Regions[0]
}

// OperandsArgs/ResultsArgs are an OperandsOp/ResultsOp's ordered
// constraint values, one per declared operand/result.
func OperandsArgs(op *ir.Operation) []*ir.Value { return op.Operands }
func ResultsArgs(op *ir.Operation) []*ir.Value  { return op.Operands }

// AnyOfArgs/AllOfArgs are the disjuncts/conjuncts of an AnyOfOp/AllOfOp.
func AnyOfArgs(op *ir.Operation) []*ir.Value { return op.Operands }
func AllOfArgs(op *ir.Operation) []*ir.Value { return op.Operands }

// IsExpected reads an IsOp's expected literal attribute.
func IsExpected(op *ir.Operation) ir.Attribute {
	a, _ := op.Attr("expected_attr")
	return a
}

// BaseName/BaseRef distinguish a BaseOp's two forms: a bare dialect-type
// name ("builtin.integer_type") or a symbol reference to a sibling
// AttributeOp/TypeOp definition.
func BaseName(op *ir.Operation) (string, bool) {
	a, ok := op.Attr("base_name")
	if !ok {
		return "", false
	}
	s, ok := a.(ir.StringAttr)
	return s.Value, ok
}

func BaseRef(op *ir.Operation) (ir.SymbolRefAttr, bool) {
	a, ok := op.Attr("base_ref")
	if !ok {
		return ir.SymbolRefAttr{}, false
	}
	s, ok := a.(ir.SymbolRefAttr)
	return s, ok
}

// ParametricBaseRef reads a ParametricOp's base_type symbol reference.
func ParametricBaseRef(op *ir.Operation) (ir.SymbolRefAttr, bool) {
	a, ok := op.Attr("base_type")
	if !ok {
		return ir.SymbolRefAttr{}, false
	}
	s, ok := a.(ir.SymbolRefAttr)
	return s, ok
}

// ParametricArgs are a ParametricOp's per-parameter constraint operands.
func ParametricArgs(op *ir.Operation) []*ir.Value { return op.Operands }

// CheckSubsetRegions returns a CheckSubsetOp's lhs and rhs constraint
// graph regions, each ending with a YieldOp per §4.E.
func CheckSubsetRegions(op *ir.Operation) (lhs, rhs *ir.Region) {
	if len(op.Regions) < 2 {
		return nil, nil
	}
	return op.Regions[0], op.Regions[1]
}

// YieldArgs are a YieldOp's externally observable SSA edges.
func YieldArgs(op *ir.Operation) []*ir.Value { return op.Operands }

// YieldNameHints reads the optional "name_hints" attribute parallel to
// YieldArgs, kept purely for model readability (§4.E).
func YieldNameHints(op *ir.Operation) []string {
	a, ok := op.Attr("name_hints")
	if !ok {
		return nil
	}
	arr, ok := a.(ir.ArrayAttr)
	if !ok {
		return nil
	}
	hints := make([]string, 0, len(arr.Elems))
	for _, e := range arr.Elems {
		if s, ok := e.(ir.StringAttr); ok {
			hints = append(hints, s.Value)
		}
	}
	return hints
}

// MatchArg is a MatchOp's single bound operand: the external (matched
// PDL) value a constraint-graph value is identified with.
func MatchArg(op *ir.Operation) *ir.Value {
	if len(op.Operands) == 0 {
		return nil
	}
	return op.Operands[0]
}

// EqArgs are an EqOp's operands, all asserted structurally equal; used
// to link a matched PDL operand/result into the lowered constraint
// graph (§4.E: "linked ... via EqOp edges").
func EqArgs(op *ir.Operation) []*ir.Value { return op.Operands }
