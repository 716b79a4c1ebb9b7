// Package pdl reads the PDL entities of §3 out of the generic
// internal/ir.Operation tree: Pattern, OperationOp, OperandOp, ResultOp,
// TypeOp, AttributeOp, ReplaceOp, EraseOp, RewriteOp, and the two native
// hooks. PDL ops carry their variadic operand segments (operand/attr/type
// values for an OperationOp) via an "operand_segment_sizes" attribute,
// the same convention the generic op syntax of §6 already needs for any
// variadic dialect op — PDL is simply the first and only dialect this
// port teaches it to.
package pdl

import "github.com/xirdlcheck/xirdlcheck/internal/ir"

const (
	OpPattern               = "pdl.pattern"
	OpOperation             = "pdl.operation"
	OpOperand               = "pdl.operand"
	OpResult                = "pdl.result"
	OpType                  = "pdl.type"
	OpAttribute             = "pdl.attribute"
	OpReplace               = "pdl.replace"
	OpErase                 = "pdl.erase"
	OpRewrite               = "pdl.rewrite"
	OpApplyNativeConstraint = "pdl.apply_native_constraint"
	OpApplyNativeRewrite    = "pdl.apply_native_rewrite"
)

// SegmentSizes reads the "operand_segment_sizes" attribute of an
// OperationOp: [numOperandVals, numAttrVals, numTypeVals]. Missing
// attribute means all-zero segments (a bare wildcard match/creation).
func SegmentSizes(op *ir.Operation) (operands, attrs, types int) {
	a, ok := op.Attr("operand_segment_sizes")
	if !ok {
		return 0, 0, 0
	}
	arr, ok := a.(ir.ArrayAttr)
	if !ok || len(arr.Elems) != 3 {
		return 0, 0, 0
	}
	get := func(i int) int {
		if iv, ok := arr.Elems[i].(ir.IntAttr); ok {
			return int(iv.Value)
		}
		return 0
	}
	return get(0), get(1), get(2)
}

// OperationOperandVals, OperationAttrVals, OperationTypeVals slice op's
// flat Operands list according to SegmentSizes.
func OperationOperandVals(op *ir.Operation) []*ir.Value {
	n, _, _ := SegmentSizes(op)
	return op.Operands[:n]
}

func OperationAttrVals(op *ir.Operation) []*ir.Value {
	n, a, _ := SegmentSizes(op)
	return op.Operands[n : n+a]
}

func OperationTypeVals(op *ir.Operation) []*ir.Value {
	n, a, t := SegmentSizes(op)
	return op.Operands[n+a : n+a+t]
}

// OperationName returns an OperationOp's matched/created opcode, or ("",
// false) for a wildcard "any operation" match.
func OperationName(op *ir.Operation) (string, bool) {
	a, ok := op.Attr("name")
	if !ok {
		return "", false
	}
	s, ok := a.(ir.StringAttr)
	return s.Value, ok
}

// ResultIndex reads a pdl.result's "index" attribute.
func ResultIndex(op *ir.Operation) int {
	a, ok := op.Attr("index")
	if !ok {
		return 0
	}
	i, _ := a.(ir.IntAttr)
	return int(i.Value)
}

// ResultTargetOp returns the operand referencing the matched/created op a
// pdl.result extracts from.
func ResultTargetOp(op *ir.Operation) *ir.Value {
	if len(op.Operands) == 0 {
		return nil
	}
	return op.Operands[0]
}

// TypeConstant reads a pdl.type's optional "value" attribute (nil if the
// type is left unconstrained).
func TypeConstant(op *ir.Operation) ir.Attribute {
	a, _ := op.Attr("value")
	return a
}

// AttributeConstant reads a pdl.attribute's optional "value" attribute.
func AttributeConstant(op *ir.Operation) ir.Attribute {
	a, _ := op.Attr("value")
	return a
}

// AttributeTypeVal returns a pdl.attribute's optional type operand.
func AttributeTypeVal(op *ir.Operation) *ir.Value {
	if len(op.Operands) == 0 {
		return nil
	}
	return op.Operands[0]
}

// OperandTypeVal returns a pdl.operand's optional type operand.
func OperandTypeVal(op *ir.Operation) *ir.Value {
	if len(op.Operands) == 0 {
		return nil
	}
	return op.Operands[0]
}

// ReplaceKind distinguishes pdl.replace's two forms.
type ReplaceKind int

const (
	ReplaceWithOp ReplaceKind = iota
	ReplaceWithValues
)

func ReplaceTarget(op *ir.Operation) *ir.Value { return op.Operands[0] }

func Replacement(op *ir.Operation) (ReplaceKind, []*ir.Value) {
	a, ok := op.Attr("with_kind")
	if ok {
		if s, ok := a.(ir.StringAttr); ok && s.Value == "values" {
			return ReplaceWithValues, op.Operands[1:]
		}
	}
	return ReplaceWithOp, op.Operands[1:2]
}

func EraseTarget(op *ir.Operation) *ir.Value { return op.Operands[0] }

func RewriteRoot(op *ir.Operation) *ir.Value {
	if len(op.Operands) == 0 {
		return nil
	}
	return op.Operands[0]
}

func RewriteBody(op *ir.Operation) *ir.Region {
	if len(op.Regions) == 0 {
		return nil
	}
	return op.Regions[0]
}

func PatternBody(op *ir.Operation) *ir.Region {
	if len(op.Regions) == 0 {
		return nil
	}
	return op.Regions[0]
}

func NativeName(op *ir.Operation) string {
	a, ok := op.Attr("name")
	if !ok {
		return ""
	}
	s, _ := a.(ir.StringAttr)
	return s.Value
}

func NativeArgs(op *ir.Operation) []*ir.Value { return op.Operands }
