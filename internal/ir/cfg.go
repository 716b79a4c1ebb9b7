package ir

// RecomputeBlockGraph rebuilds every block's Predecessors/Successors in
// region from its blocks' terminator operations. isTerminator and
// successorsOf are supplied by the caller (the dialect trait registry)
// so the IR core never hard-codes dialect-specific terminator semantics,
// per §4.B.
func RecomputeBlockGraph(r *Region, isTerminator func(*Operation) bool, successorsOf func(*Operation) []*Block) {
	for _, blk := range r.Blocks {
		blk.Successors = nil
		blk.Predecessors = nil
	}
	for _, blk := range r.Blocks {
		term := blk.Terminator()
		if term == nil || !isTerminator(term) {
			continue
		}
		for _, succ := range successorsOf(term) {
			blk.Successors = append(blk.Successors, succ)
			succ.Predecessors = append(succ.Predecessors, blk)
		}
	}
}

// DominanceList computes, for every block in r reachable from entry, the
// set of blocks that strictly dominate it (entry itself excluded from its
// own set, included in every other reachable block's set). Single-entry
// graphs only, per §4.C's DAG generator contract. Predecessors/Successors
// must already be populated (RecomputeBlockGraph).
func DominanceList(entry *Block, allBlocks []*Block) map[*Block]map[*Block]bool {
	dom := make(map[*Block]map[*Block]bool, len(allBlocks))
	all := make(map[*Block]bool, len(allBlocks))
	for _, b := range allBlocks {
		all[b] = true
	}
	for _, b := range allBlocks {
		if b == entry {
			dom[b] = map[*Block]bool{entry: true}
		} else {
			dom[b] = cloneSet(all)
		}
	}
	changed := true
	for changed {
		changed = false
		for _, b := range allBlocks {
			if b == entry {
				continue
			}
			if len(b.Predecessors) == 0 {
				continue
			}
			var newSet map[*Block]bool
			for i, p := range b.Predecessors {
				if i == 0 {
					newSet = cloneSet(dom[p])
					continue
				}
				newSet = intersect(newSet, dom[p])
			}
			newSet[b] = true
			if !setEqual(newSet, dom[b]) {
				dom[b] = newSet
				changed = true
			}
		}
	}
	// strict dominance: remove self
	strict := make(map[*Block]map[*Block]bool, len(dom))
	for b, set := range dom {
		s := cloneSet(set)
		delete(s, b)
		strict[b] = s
	}
	return strict
}

func cloneSet(s map[*Block]bool) map[*Block]bool {
	n := make(map[*Block]bool, len(s))
	for k, v := range s {
		n[k] = v
	}
	return n
}

func intersect(a, b map[*Block]bool) map[*Block]bool {
	out := map[*Block]bool{}
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func setEqual(a, b map[*Block]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
