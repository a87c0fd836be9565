package align

import (
	"cmp"
	"slices"
)

// Frontier is the FIFO queue of pending nodes, reordered by SpecialSort
// once the search is past its breadth-first depths.
type Frontier struct {
	nodes []*Node
	head  int
}

// Len returns the number of pending nodes.
func (f *Frontier) Len() int { return len(f.nodes) - f.head }

// Push appends nodes at the back.
func (f *Frontier) Push(nodes ...*Node) {
	f.nodes = append(f.nodes, nodes...)
}

// Front returns the next node to pop, or nil if the frontier is empty.
func (f *Frontier) Front() *Node {
	if f.Len() == 0 {
		return nil
	}
	return f.nodes[f.head]
}

// Pop removes and returns the front node.
func (f *Frontier) Pop() (*Node, bool) {
	if f.Len() == 0 {
		return nil, false
	}
	n := f.nodes[f.head]
	f.nodes[f.head] = nil
	f.head++
	if f.head > 1024 && f.head*2 > len(f.nodes) {
		f.compact()
	}
	return n, true
}

// Reset replaces the whole frontier with the given nodes.
func (f *Frontier) Reset(nodes ...*Node) {
	clear(f.nodes)
	f.nodes = append(f.nodes[:0], nodes...)
	f.head = 0
}

// Nodes returns the pending nodes in pop order.
func (f *Frontier) Nodes() []*Node {
	return slices.Clone(f.nodes[f.head:])
}

func (f *Frontier) compact() {
	n := copy(f.nodes, f.nodes[f.head:])
	clear(f.nodes[n:])
	f.nodes = f.nodes[:n]
	f.head = 0
}

// SpecialSort keeps the leading run of nodes with AlignedCount <= threshold
// in FIFO order and sorts everything after it, stably, by descending
//
//	(LastSegmentScore * (1 + progressWeight*CompletionRatio), AverageSegmentScore)
func (f *Frontier) SpecialSort(threshold int, progressWeight float64) {
	pending := f.nodes[f.head:]
	split := 0
	for split < len(pending) && pending[split].aligned <= threshold {
		split++
	}

	slices.SortStableFunc(pending[split:], func(a, b *Node) int {
		if c := cmp.Compare(progressKey(b, progressWeight), progressKey(a, progressWeight)); c != 0 {
			return c
		}
		return cmp.Compare(b.AverageSegmentScore(), a.AverageSegmentScore())
	})
}

func progressKey(n *Node, progressWeight float64) float64 {
	return n.last * (1 + progressWeight*n.ratio)
}
