package smt

import (
	"context"
	"fmt"
	"strings"

	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
)

// Query is the SMT-LIB2 text of one subset check, ready to hand to a
// Solver, plus enough bookkeeping to interpret the result.
type Query struct {
	Script     string
	LHSYield   []string
	RHSYield   []string
}

// BuildQuery implements the final paragraph of §4.G: lhs constraints are
// asserted unconditionally (its value symbols stay free), the rhs
// constraints are wrapped in a negated `exists` over its own value
// symbols (the "E_R" externals), with the lhs/rhs yield equalities
// placed inside that negated scope since only there can a bound rhs
// symbol be referenced. `unsat` therefore means: for every lhs
// assignment there exists a matching rhs assignment, i.e. the rewrite
// is type-safe; `sat` is a counter-example lhs assignment with no
// satisfying rhs witness.
func BuildQuery(checkOp *ir.Operation) (*Query, error) {
	if checkOp.Name != irdl.OpCheckSubset {
		return nil, fmt.Errorf("smt: expected irdl.check_subset, got %q", checkOp.Name)
	}
	lhsRegion, rhsRegion := irdl.CheckSubsetRegions(checkOp)
	if lhsRegion == nil || rhsRegion == nil {
		return nil, fmt.Errorf("smt: check_subset missing lhs/rhs region")
	}

	u := NewUniverse()
	u.Scan(lhsRegion)
	u.Scan(rhsRegion)

	lhs := encodeRegion(u, lhsRegion, "lhs_")
	rhs := encodeRegion(u, rhsRegion, "rhs_")

	var sb strings.Builder
	sb.WriteString("(set-logic UFDT)\n")
	sb.WriteString(u.Declare())
	sb.WriteString("\n\n")

	for _, d := range lhs.decls {
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	for _, a := range lhs.asserts {
		sb.WriteString(a)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	rhsBound := rhsBoundVars(rhs)
	if len(rhsBound) == 0 {
		// Nothing to existentially quantify: the rhs graph yielded no
		// values of its own, so the subset question degenerates to
		// "lhs is infeasible"; nothing more to assert.
	} else {
		sb.WriteString("(assert (not (exists (")
		for i, v := range rhsBound {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "(%s Attribute)", v)
		}
		sb.WriteString(")\n  (and\n")
		for _, a := range rhs.asserts {
			sb.WriteString("    ")
			sb.WriteString(stripAssert(a))
			sb.WriteString("\n")
		}
		n := minLen(len(lhs.yieldSyms), len(rhs.yieldSyms))
		for i := 0; i < n; i++ {
			fmt.Fprintf(&sb, "    (= %s %s)\n", lhs.yieldSyms[i], rhs.yieldSyms[i])
		}
		sb.WriteString("  ))))\n")
	}
	sb.WriteString("(check-sat)\n(get-model)\n")

	return &Query{Script: sb.String(), LHSYield: lhs.yieldSyms, RHSYield: rhs.yieldSyms}, nil
}

func rhsBoundVars(s *side) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range s.decls {
		// d is "(declare-const name Attribute)"; extract name.
		fields := strings.Fields(d)
		if len(fields) < 2 {
			continue
		}
		name := fields[1]
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func stripAssert(a string) string {
	a = strings.TrimPrefix(a, "(assert ")
	return strings.TrimSuffix(a, ")")
}

func minLen(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Discharge runs query against solver. unsat means every matching
// host IR the lhs pattern accepts lowers to a legal rhs (the rewrite is
// type-safe); sat carries a counter-example Model. Unlike §7's taxonomy
// (which classifies dynamic well-formedness aborts), a subset query's
// result is reported directly as sat/unsat by check-irdl-subset — the
// malformed-input case here is solver failure, surfaced as a plain error
// so the CLI driver can map it to exit code 2.
func Discharge(ctx context.Context, solver Solver, checkOp *ir.Operation) (Result, error) {
	q, err := BuildQuery(checkOp)
	if err != nil {
		return Result{}, fmt.Errorf("smt: %w", err)
	}
	res, err := solver.CheckSat(ctx, q.Script)
	if err != nil {
		return Result{}, fmt.Errorf("smt: solver error: %w", err)
	}
	return res, nil
}
