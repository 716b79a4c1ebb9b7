package interp

import (
	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
)

// Snapshot is the post-analysis arena state exposed to internal/lower, so
// the PDL→IRDL lowering pass (§4.E) can build its rhs constraint graph
// from the rewrite's actual final state instead of re-deriving it by
// textually replaying ReplaceOp/EraseOp against a second clone.
type Snapshot struct {
	Arena        *Arena
	MatchedOpIDs []OpID // program-order matched ops, as allocated during INIT
	RootOp       OpID

	// PDL-value -> arena-id lookups, carried over from state so a
	// consumer (internal/lower) can resolve a pdl.apply_native_constraint
	// or pdl.apply_native_rewrite operand it finds by walking the
	// original pattern AST back into this arena's symbolic records.
	ValueOf map[*ir.Value]ValueID
	OpHandle map[*ir.Value]OpID
	AttrOf  map[*ir.Value]AttrID
	TypeOf  map[*ir.Value]TypeID

	replacedByMap map[OpID]OpID
	erasedMap     bitSet
}

// FinalIdentity follows a matched op through zero or more ReplaceOp(x,
// newOp) hops to whatever concretely stands in for it post-rewrite. ok is
// false if the op (or everything it was replaced by) was ultimately
// erased with no op standing in for it.
func (s *Snapshot) FinalIdentity(id OpID) (OpID, bool) {
	for {
		if next, ok := s.replacedByMap[id]; ok {
			id = next
			continue
		}
		if s.erasedMap.Test(int(id)) {
			return 0, false
		}
		return id, true
	}
}

// IsLive reports whether id is a terminal op in the post-rewrite state:
// not erased, and not itself superseded by a later ReplaceOp. It does
// not distinguish a matched op that simply survived untouched from one
// created during the rewrite — both answer true.
func (s *Snapshot) IsLive(id OpID) bool {
	if s.erasedMap.Test(int(id)) {
		return false
	}
	_, supersededFurther := s.replacedByMap[id]
	return !supersededFurther
}

// LiveOps returns every live OpID across the whole analysis (matched and
// created) in ascending allocation order. Since an op's operands can only
// reference ops allocated earlier, this order is already a valid
// dependency order for a consumer (internal/lower) that resolves operand
// values by having already processed their producer.
func (s *Snapshot) LiveOps() []OpID {
	var out []OpID
	for i := 0; i < s.Arena.NumOps(); i++ {
		id := OpID(i)
		if s.IsLive(id) {
			out = append(out, id)
		}
	}
	return out
}

// Simulate runs the same three-phase analysis as Analyze but returns the
// resulting Snapshot alongside the verdict, regardless of whether the
// verdict is OK — a caller like internal/lower only needs the pre-rewrite
// (matched) half of the snapshot for a failed pattern's lhs graph, but
// needs the verdict to decide whether an rhs graph is even meaningful.
func Simulate(patternOp *ir.Operation, cfg Config) (*Snapshot, diag.Verdict) {
	st, v := run(patternOp, cfg)
	snap := &Snapshot{
		Arena:         st.arena,
		MatchedOpIDs:  st.allMatchOpIDs,
		RootOp:        st.rootOp,
		ValueOf:       st.valueOf,
		OpHandle:      st.opHandle,
		AttrOf:        st.attrOf,
		TypeOf:        st.typeOf,
		replacedByMap: st.replacedBy,
		erasedMap:     st.erasedSet,
	}
	return snap, v
}
