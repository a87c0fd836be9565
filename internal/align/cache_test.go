package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheNode(t *testing.T, tr *tree, aligned, consumed int, aggregate float64) *Node {
	t.Helper()
	require.LessOrEqual(t, consumed, tr.problem.HypLen())
	return &Node{tree: tr, id: noNode, parent: noNode, aligned: aligned, consumed: consumed, aggregate: aggregate}
}

func TestDuplicateCache_NodeNeverDominatesItself(t *testing.T) {
	p, err := NewProblem(lines("a", "b"), []string{"a", "b", "c"})
	require.NoError(t, err)
	tr := newTree(p)
	c := NewDuplicateCache()
	n := cacheNode(t, tr, 1, 1, 0.4)

	c.Put(n)

	assert.False(t, c.Dominates(n))
	assert.Equal(t, 1, c.Len())
}

func TestDuplicateCache_StrictDominance(t *testing.T) {
	p, err := NewProblem(lines("a", "b"), []string{"a", "b", "c"})
	require.NoError(t, err)
	tr := newTree(p)
	c := NewDuplicateCache()

	// Given: a stored node at signature (1, 2)
	c.Put(cacheNode(t, tr, 1, 1, 0.5))

	// Then: only strictly worse nodes with the same signature are dominated
	assert.True(t, c.Dominates(cacheNode(t, tr, 1, 1, 0.4)))
	assert.False(t, c.Dominates(cacheNode(t, tr, 1, 1, 0.5)), "equal score is not dominated")
	assert.False(t, c.Dominates(cacheNode(t, tr, 1, 1, 0.6)))
	assert.False(t, c.Dominates(cacheNode(t, tr, 1, 2, 0.1)), "different remaining count")
	assert.False(t, c.Dominates(cacheNode(t, tr, 2, 1, 0.1)), "different aligned count")
}

func TestDuplicateCache_PutOverwritesUnconditionally(t *testing.T) {
	p, err := NewProblem(lines("a", "b"), []string{"a", "b", "c"})
	require.NoError(t, err)
	tr := newTree(p)
	c := NewDuplicateCache()

	c.Put(cacheNode(t, tr, 1, 1, 0.9))
	c.Put(cacheNode(t, tr, 1, 1, 0.2))

	assert.False(t, c.Dominates(cacheNode(t, tr, 1, 1, 0.3)), "lower score replaced the higher one")
	assert.Equal(t, 1, c.Len())
}

func TestDuplicateCache_Clear(t *testing.T) {
	p, err := NewProblem(lines("a", "b"), []string{"a", "b", "c"})
	require.NoError(t, err)
	tr := newTree(p)
	c := NewDuplicateCache()
	c.Put(cacheNode(t, tr, 1, 1, 0.9))
	c.Put(cacheNode(t, tr, 1, 2, 0.9))

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Dominates(cacheNode(t, tr, 1, 1, 0)))
}
