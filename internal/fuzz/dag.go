package fuzz

// DAG is a single-entry operation-DAG skeleton (§4.C): NumBlocks blocks,
// edges only ever running from a lower-indexed block to a higher-indexed
// one (block 0 is the entry, nothing points back at it), stored as a
// lower-triangular adjacency matrix. Dominance is precomputed once since
// the interleaver (interleave.go) consults it for every candidate
// placement.
type DAG struct {
	NumBlocks int
	// edge[i][j], j < i, is true when block j has an edge into block i.
	edge [][]bool
	// dom[i] is the set of blocks that dominate block i, i itself
	// included; DominanceList and Dominates leave i out.
	dom []map[int]bool
}

// EdgeDensity is the per-candidate-edge probability the DAG generator
// uses when filling the lower-triangular adjacency matrix.
const EdgeDensity = 0.5

// GenerateDAG fills a numBlocks x numBlocks lower-triangular adjacency
// matrix from src, forcing every non-entry block to have at least one
// predecessor among the earlier blocks so the result is one connected
// DAG rather than a forest, then computes each block's dominance list.
func GenerateDAG(src RandomSource, numBlocks int) *DAG {
	if numBlocks < 1 {
		numBlocks = 1
	}
	d := &DAG{NumBlocks: numBlocks, edge: make([][]bool, numBlocks)}
	for i := range d.edge {
		d.edge[i] = make([]bool, numBlocks)
	}
	for i := 1; i < numBlocks; i++ {
		hasPred := false
		for j := 0; j < i; j++ {
			if src.Float64() < EdgeDensity {
				d.edge[i][j] = true
				hasPred = true
			}
		}
		if !hasPred {
			j := src.Intn(i)
			d.edge[i][j] = true
		}
	}
	d.computeDominance()
	return d
}

func (d *DAG) preds(i int) []int {
	var out []int
	for j := 0; j < i; j++ {
		if d.edge[i][j] {
			out = append(out, j)
		}
	}
	return out
}

// computeDominance runs the classic iterative dominator data-flow
// equation (Dom[i] = {i} ∪ ∩ Dom[p] for every predecessor p), which
// converges in a single forward pass here because every edge already
// runs from a lower index to a higher one — block index order is a
// topological order for free.
func (d *DAG) computeDominance() {
	d.dom = make([]map[int]bool, d.NumBlocks)
	d.dom[0] = map[int]bool{0: true}
	for i := 1; i < d.NumBlocks; i++ {
		preds := d.preds(i)
		var acc map[int]bool
		for _, p := range preds {
			if acc == nil {
				acc = copySet(d.dom[p])
				continue
			}
			acc = intersect(acc, d.dom[p])
		}
		if acc == nil {
			acc = map[int]bool{}
		}
		acc[i] = true
		d.dom[i] = acc
	}
}

// DominanceList returns the blocks that strictly dominate block i.
func (d *DAG) DominanceList(i int) []int {
	var out []int
	for b := range d.dom[i] {
		if b != i {
			out = append(out, b)
		}
	}
	return out
}

// Dominates reports whether block a strictly dominates block b.
func (d *DAG) Dominates(a, b int) bool {
	if a == b {
		return false
	}
	return d.dom[b][a]
}

func copySet(s map[int]bool) map[int]bool {
	out := make(map[int]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func intersect(a, b map[int]bool) map[int]bool {
	out := map[int]bool{}
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}
