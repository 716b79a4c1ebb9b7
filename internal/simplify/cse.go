package simplify

import (
	"sort"
	"strconv"
	"strings"

	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
)

// cseCandidate reports whether op is a pure value-defining constraint node
// eligible for common-subexpression elimination. Statement ops (Eq, Match,
// Yield) are never deduped this way: MatchOp dedup is handled separately
// (dedupMatches in laws.go) since a MatchOp has no result to unify onto.
func cseCandidate(name string) bool {
	switch name {
	case irdl.OpAny, irdl.OpAnyOf, irdl.OpAllOf, irdl.OpIs, irdl.OpBase, irdl.OpParametric:
		return true
	default:
		return false
	}
}

// canonicalKey builds a structural signature for op: its name, attributes,
// and operand identities. Two ops with equal keys compute the same
// constraint, PROVIDED their operands are themselves already canonical —
// which holds because this package's own lowering emits constraint graphs
// in dependency order (a node's operands are always emitted earlier in the
// block), so a single left-to-right pass sees each operand's final
// representative before its consumer.
func canonicalKey(op *ir.Operation) string {
	var sb strings.Builder
	sb.WriteString(op.Name)
	sb.WriteByte('|')

	attrs := append([]ir.AttrEntry(nil), op.Attributes...)
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	for _, a := range attrs {
		sb.WriteString(a.Name)
		sb.WriteByte('=')
		sb.WriteString(a.Value.String())
		sb.WriteByte(';')
	}
	sb.WriteByte('|')

	for _, o := range op.Operands {
		sb.WriteString(strconv.Itoa(o.ID()))
		sb.WriteByte(',')
	}
	return sb.String()
}

// cse runs one forward CSE pass over g's block, unifying structurally
// identical Any/AnyOf/AllOf/Is/Base/Parametric nodes onto their first
// occurrence. Returns whether anything changed.
func cse(g *Graph) bool {
	seen := map[string]*ir.Operation{}
	changed := false
	for _, op := range append([]*ir.Operation(nil), g.Block.Operations...) {
		if !cseCandidate(op.Name) {
			continue
		}
		key := canonicalKey(op)
		if first, ok := seen[key]; ok {
			if first != op {
				g.replaceWith(op, first.Result(0))
				changed = true
			}
			continue
		}
		seen[key] = op
	}
	return changed
}
