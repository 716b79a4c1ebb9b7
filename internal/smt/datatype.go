// Package smt implements §4.G: lowering a simplified IRDL constraint
// graph (a CheckSubsetOp's lhs/rhs regions, post internal/simplify) to
// SMT-LIB2 text, and discharging the resulting subset query via an
// external solver process.
package smt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
)

// ctor is one constructor of the Attribute datatype: a named, fixed-arity
// wrapper around zero or more nested Attributes (e.g. "builtin.vector" of
// arity 1, or a bare "builtin.signedness_attr" of arity 0).
type ctor struct {
	name  string
	arity int
}

// Universe collects every distinct constructor the Attribute datatype
// needs to represent the constants and base/parametric constraints
// appearing in a pair of constraint graphs, plus the four fixed
// constructors of §4.G (unassigned/other/int/string).
type Universe struct {
	ctors map[string]int // name -> arity, "" key reserved
	otherTag int
}

func NewUniverse() *Universe { return &Universe{ctors: map[string]int{}} }

func (u *Universe) register(name string, arity int) {
	if name == "" {
		return
	}
	if existing, ok := u.ctors[name]; ok {
		if existing < arity {
			u.ctors[name] = arity
		}
		return
	}
	u.ctors[name] = arity
}

// Scan walks every op in region looking for BaseOp/ParametricOp
// constructor names and IsOp literal constants, registering one
// Attribute-datatype constructor per distinct name encountered.
func (u *Universe) Scan(region *ir.Region) {
	if region == nil {
		return
	}
	for _, blk := range region.Blocks {
		for _, op := range blk.Operations {
			switch op.Name {
			case irdl.OpBase:
				if n, ok := irdl.BaseName(op); ok {
					u.register(n, 0)
				} else if ref, ok := irdl.BaseRef(op); ok {
					u.register(ref.Name, 0)
				}
			case irdl.OpParametric:
				if ref, ok := irdl.ParametricBaseRef(op); ok {
					u.register(ref.Name, len(irdl.ParametricArgs(op)))
				}
			case irdl.OpIs:
				u.scanConstant(irdl.IsExpected(op))
			}
		}
	}
}

func (u *Universe) scanConstant(a ir.Attribute) {
	p, ok := a.(ir.ParametricAttr)
	if !ok {
		return
	}
	qualified := p.Name
	if p.Dialect != "" {
		qualified = p.Dialect + "." + p.Name
	}
	u.register(qualified, len(p.Params))
	for _, param := range p.Params {
		u.scanConstant(param)
	}
}

// sortedCtors returns the scanned constructors in stable (name) order, so
// two calls over equal graphs always emit byte-identical SMT-LIB2 text.
func (u *Universe) sortedCtors() []ctor {
	out := make([]ctor, 0, len(u.ctors))
	for name, arity := range u.ctors {
		out = append(out, ctor{name: name, arity: arity})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Declare emits the `declare-datatypes` command for the Attribute sort:
// the four fixed constructors of §4.G plus one per scanned dialect
// constructor, each parameter recursively typed Attribute.
func (u *Universe) Declare() string {
	var sb strings.Builder
	sb.WriteString("(declare-datatypes () ((Attribute\n")
	sb.WriteString("  (unassigned)\n")
	sb.WriteString("  (other (other-tag Int))\n")
	sb.WriteString("  (int (int-val Int))\n")
	sb.WriteString("  (string (string-val String))\n")
	for _, c := range u.sortedCtors() {
		if c.arity == 0 {
			fmt.Fprintf(&sb, "  (%s)\n", c.name)
			continue
		}
		sb.WriteString("  (")
		sb.WriteString(c.name)
		for i := 0; i < c.arity; i++ {
			fmt.Fprintf(&sb, " (%s-p%d Attribute)", c.name, i)
		}
		sb.WriteString(")\n")
	}
	sb.WriteString(")))")
	return sb.String()
}

// nextOtherTag vends a fresh distinguishing tag for an "other" literal
// (a constant not otherwise modeled), so two distinct unmodeled literals
// never unify under Equal.
func (u *Universe) nextOtherTag() int {
	u.otherTag++
	return u.otherTag
}

// EncodeConstant renders a, a concrete ir.Attribute, as an Attribute term.
func (u *Universe) EncodeConstant(a ir.Attribute) string {
	switch v := a.(type) {
	case nil:
		return "unassigned"
	case ir.IntAttr:
		return fmt.Sprintf("(int %d)", v.Value)
	case ir.StringAttr:
		return fmt.Sprintf("(string %q)", v.Value)
	case ir.ParametricAttr:
		qualified := v.Name
		if v.Dialect != "" {
			qualified = v.Dialect + "." + v.Name
		}
		if len(v.Params) == 0 {
			return qualified
		}
		parts := make([]string, len(v.Params))
		for i, p := range v.Params {
			parts[i] = u.EncodeConstant(p)
		}
		return "(" + qualified + " " + strings.Join(parts, " ") + ")"
	default:
		return fmt.Sprintf("(other %d)", u.nextOtherTag())
	}
}
