package fuzz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xirdlcheck/xirdlcheck/internal/ir"
)

func TestGenerateDAGDominanceIsReflexiveFree(t *testing.T) {
	src := NewRandSource(42)
	dag := GenerateDAG(src, 6)
	require.Equal(t, 6, dag.NumBlocks)
	// Block 0 is the entry: nothing strictly dominates it.
	require.Empty(t, dag.DominanceList(0))
	for i := 1; i < dag.NumBlocks; i++ {
		require.Contains(t, dag.DominanceList(i), 0)
	}
}

func TestGenerateDAGEveryBlockHasAPredecessor(t *testing.T) {
	src := NewRandSource(7)
	dag := GenerateDAG(src, 10)
	for i := 1; i < dag.NumBlocks; i++ {
		require.NotEmpty(t, dag.preds(i), "block %d must have a predecessor", i)
	}
}

func TestByteSourceReplaysDeterministically(t *testing.T) {
	data := []byte{1, 2, 3, 250, 10}
	a := NewByteSource(data)
	b := NewByteSource(data)
	for i := 0; i < len(data); i++ {
		require.Equal(t, a.Intn(5), b.Intn(5))
	}
}

func TestGeneratePatternProducesWellFormedPattern(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		b := ir.NewBuilder()
		gen := NewGenerator(b, NewRandSource(seed))
		p := gen.GeneratePattern()

		require.Equal(t, "pdl.pattern", p.Op.Name)
		require.NotEmpty(t, p.MatchOps)
		require.GreaterOrEqual(t, p.RootIndex, 0)
		require.Less(t, p.RootIndex, len(p.MatchOps))

		body := p.Op.Regions[0].Blocks[0]
		last := body.Operations[len(body.Operations)-1]
		require.Equal(t, "pdl.rewrite", last.Name)
	}
}

func TestInterleaveRespectsDominance(t *testing.T) {
	src := NewRandSource(3)
	dag := GenerateDAG(src, 5)

	b := ir.NewBuilder()
	gen := NewGenerator(b, NewRandSource(3))
	pattern := gen.GeneratePattern()

	deps := dependencies(pattern.MatchOps)
	count := 0
	for placement := range Interleave(dag, pattern) {
		for i, ds := range deps {
			for _, j := range ds {
				require.True(t, dag.Dominates(placement.BlockOf[j], placement.BlockOf[i]),
					"dependency %d->%d must respect dominance", j, i)
			}
		}
		count++
		if count > 50 {
			break
		}
	}
}

func TestInterleaveIsRestartable(t *testing.T) {
	src := NewRandSource(1)
	dag := GenerateDAG(src, 3)
	b := ir.NewBuilder()
	gen := NewGenerator(b, NewRandSource(1))
	pattern := gen.GeneratePattern()

	first, ok1 := FirstPlacement(dag, pattern)
	second, ok2 := FirstPlacement(dag, pattern)
	require.Equal(t, ok1, ok2)
	if ok1 {
		require.Equal(t, first.BlockOf, second.BlockOf)
	}
}
