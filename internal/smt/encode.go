package smt

import (
	"fmt"
	"strings"

	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
)

// side is one encoded half (lhs or rhs) of a CheckSubsetOp: its
// declare-consts, its assertions, and the symbol names bound to its
// YieldOp's operands in order (the "externals" of §4.G).
type side struct {
	decls      []string
	asserts    []string
	yieldSyms  []string
	yieldHints []string
}

// encodeRegion walks region's single block in program order (values are
// only ever referenced after their producer, since the graph builders in
// internal/lower never emit forward references) assigning every op
// result a fresh "<prefix>v<id>" symbol, and emitting the per-op-kind
// assertion of §4.G.
func encodeRegion(u *Universe, region *ir.Region, prefix string) *side {
	s := &side{}
	if region == nil || len(region.Blocks) == 0 {
		return s
	}
	sym := map[*ir.Value]string{}
	valueSym := func(v *ir.Value) string {
		if n, ok := sym[v]; ok {
			return n
		}
		n := fmt.Sprintf("%sv%d", prefix, v.ID())
		sym[v] = n
		return n
	}

	for _, op := range region.Blocks[0].Operations {
		var out string
		if r := op.Result(0); r != nil {
			out = valueSym(r)
			s.decls = append(s.decls, fmt.Sprintf("(declare-const %s Attribute)", out))
		}
		operandSyms := make([]string, len(op.Operands))
		for i, v := range op.Operands {
			operandSyms[i] = valueSym(v)
		}

		switch op.Name {
		case irdl.OpAny:
			// unconstrained: declare-const only.
		case irdl.OpAnyOf:
			s.asserts = append(s.asserts, fmt.Sprintf("(assert %s)", disjunction(out, operandSyms)))
		case irdl.OpAllOf:
			s.asserts = append(s.asserts, fmt.Sprintf("(assert %s)", conjunction(out, operandSyms)))
		case irdl.OpIs:
			lit := u.EncodeConstant(irdl.IsExpected(op))
			s.asserts = append(s.asserts, fmt.Sprintf("(assert (= %s %s))", out, lit))
		case irdl.OpBase:
			k := baseKey(op)
			s.asserts = append(s.asserts, fmt.Sprintf("(assert (or ((_ is %s) %s) (= %s unassigned)))", k, out, out))
		case irdl.OpParametric:
			ref, _ := irdl.ParametricBaseRef(op)
			s.asserts = append(s.asserts, fmt.Sprintf("(assert %s)", parametricAssert(out, ref.Name, operandSyms)))
		case irdl.OpEq:
			s.asserts = append(s.asserts, pairwiseEqual(operandSyms)...)
		case irdl.OpMatch:
			if len(operandSyms) > 0 {
				s.asserts = append(s.asserts, fmt.Sprintf("(assert (not (= %s unassigned)))", operandSyms[0]))
			}
		case irdl.OpYield:
			s.yieldSyms = operandSyms
			s.yieldHints = irdl.YieldNameHints(op)
			for _, v := range operandSyms {
				s.asserts = append(s.asserts, fmt.Sprintf("(assert (not (= %s unassigned)))", v))
			}
		}
	}
	return s
}

func baseKey(op *ir.Operation) string {
	if n, ok := irdl.BaseName(op); ok {
		return n
	}
	if ref, ok := irdl.BaseRef(op); ok {
		return ref.Name
	}
	return "other"
}

func disjunction(out string, args []string) string {
	if len(args) == 0 {
		return fmt.Sprintf("(= %s unassigned)", out)
	}
	parts := make([]string, 0, len(args)+1)
	for _, a := range args {
		parts = append(parts, fmt.Sprintf("(= %s %s)", out, a))
	}
	parts = append(parts, fmt.Sprintf("(= %s unassigned)", out))
	return "(or " + strings.Join(parts, " ") + ")"
}

func conjunction(out string, args []string) string {
	if len(args) == 0 {
		return fmt.Sprintf("(= %s unassigned)", out)
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("(= %s %s)", out, a)
	}
	return fmt.Sprintf("(or (and %s) (= %s unassigned))", strings.Join(parts, " "), out)
}

func parametricAssert(out, ctorName string, ps []string) string {
	if len(ps) == 0 {
		return fmt.Sprintf("(= %s %s)", out, ctorName)
	}
	unassignedChecks := make([]string, len(ps))
	for i, p := range ps {
		unassignedChecks[i] = fmt.Sprintf("(= %s unassigned)", p)
	}
	applied := "(" + ctorName + " " + strings.Join(ps, " ") + ")"
	cond := "(or " + strings.Join(unassignedChecks, " ") + ")"
	if len(unassignedChecks) == 1 {
		cond = unassignedChecks[0]
	}
	return fmt.Sprintf("(= %s (ite %s unassigned %s))", out, cond, applied)
}

func pairwiseEqual(syms []string) []string {
	var out []string
	for i := 1; i < len(syms); i++ {
		out = append(out, fmt.Sprintf("(assert (= %s %s))", syms[0], syms[i]))
	}
	return out
}
