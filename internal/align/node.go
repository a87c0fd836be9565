package align

// NodeID indexes a node in its run's arena.
type NodeID int32

// noNode marks a root without parent, or a candidate not yet registered.
const noNode NodeID = -1

// Node is one partial alignment: the first AlignedCount reference sentences
// matched to consecutive groups of the first Consumed hypothesis tokens.
//
// Nodes are immutable once built. Segment boundaries are not stored per node;
// they are recovered by walking parent links through the arena.
type Node struct {
	tree   *tree
	id     NodeID
	parent NodeID

	aligned   int
	consumed  int
	last      float64
	scoreSum  float64
	aggregate float64
	ratio     float64
}

// ID returns the arena id of the node, or -1 for a discarded candidate.
func (n *Node) ID() NodeID { return n.id }

// Parent returns the node this one was expanded from, or nil for the root.
func (n *Node) Parent() *Node {
	if n.parent == noNode {
		return nil
	}
	return n.tree.nodes[n.parent]
}

// AlignedCount is the number of reference sentences aligned so far.
func (n *Node) AlignedCount() int { return n.aligned }

// RemainingRefs is the number of reference sentences not aligned yet.
func (n *Node) RemainingRefs() int { return n.tree.problem.NumRefs() - n.aligned }

// Consumed is the number of hypothesis tokens assigned to aligned segments.
func (n *Node) Consumed() int { return n.consumed }

// RemainingWordCount is the number of hypothesis tokens left.
func (n *Node) RemainingWordCount() int { return n.tree.problem.HypLen() - n.consumed }

// LastSegmentScore is the (punctuation weighted) score of the newest segment.
func (n *Node) LastSegmentScore() float64 { return n.last }

// AverageSegmentScore is the mean of all segment scores, 0 for the root.
func (n *Node) AverageSegmentScore() float64 {
	if n.aligned == 0 {
		return 0
	}
	return n.scoreSum / float64(n.aligned)
}

// AggregateScore is the corpus-level similarity of all aligned segments.
func (n *Node) AggregateScore() float64 { return n.aggregate }

// CompletionRatio is AlignedCount / R.
func (n *Node) CompletionRatio() float64 { return n.ratio }

// Complete reports whether every reference sentence is aligned.
func (n *Node) Complete() bool { return n.aligned == n.tree.problem.NumRefs() }

// Signature is the duplicate cache key of the node.
func (n *Node) Signature() Signature {
	return Signature{Aligned: n.aligned, Remaining: n.RemainingWordCount()}
}

// Cuts returns the end offset in the hypothesis of each aligned segment.
func (n *Node) Cuts() []int {
	cuts := make([]int, n.aligned)
	for cur := n; cur.aligned > 0; cur = cur.Parent() {
		cuts[cur.aligned-1] = cur.consumed
	}
	return cuts
}

// SegmentScores returns the score history, oldest segment first.
func (n *Node) SegmentScores() []float64 {
	scores := make([]float64, n.aligned)
	for cur := n; cur.aligned > 0; cur = cur.Parent() {
		scores[cur.aligned-1] = cur.last
	}
	return scores
}

// Segments returns the aligned hypothesis token groups in their original case.
func (n *Node) Segments() [][]string {
	return n.tree.segments(n, n.tree.problem.hyp)
}

// AlignedRefs returns the aligned reference sentences, lowercased.
func (n *Node) AlignedRefs() [][]string {
	return n.tree.problem.lowerRefs[:n.aligned:n.aligned]
}

// AlignedHyps returns the aligned hypothesis token groups, lowercased.
func (n *Node) AlignedHyps() [][]string {
	return n.tree.segments(n, n.tree.problem.lowerHyp)
}

// RemainingHyp returns the unconsumed hypothesis tokens in their original case.
func (n *Node) RemainingHyp() []string {
	return n.tree.problem.hyp[n.consumed:len(n.tree.problem.hyp):len(n.tree.problem.hyp)]
}

// Lineage returns the path from the root to n.
func (n *Node) Lineage() []*Node {
	path := make([]*Node, n.aligned+1)
	for cur := n; cur != nil; cur = cur.Parent() {
		path[cur.aligned] = cur
	}
	return path
}

// isBetter orders nodes for the best-known solution: more references
// aligned wins, then a higher aggregate score.
func isBetter(a, b *Node) bool {
	if a.aligned != b.aligned {
		return a.aligned > b.aligned
	}
	return a.aggregate > b.aggregate
}

// tree is the append-only node arena of one run.
type tree struct {
	problem *Problem
	nodes   []*Node
	created int
}

func newTree(p *Problem) *tree {
	return &tree{problem: p}
}

func (t *tree) root() *Node {
	n := &Node{tree: t, id: noNode, parent: noNode}
	t.add(n)
	return n
}

// add registers a node in the arena and assigns its id.
func (t *tree) add(n *Node) {
	n.id = NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
}

// child builds the node that extends parent by the next length hypothesis
// tokens. The aggregate is recomputed over all segments with corpus scoring.
// The node is not registered in the arena; see add.
func (t *tree) child(parent *Node, length int, score float64, corpus func(refs, hyps [][]string) float64) *Node {
	t.created++
	n := &Node{
		tree:     t,
		id:       noNode,
		parent:   parent.id,
		aligned:  parent.aligned + 1,
		consumed: parent.consumed + length,
		last:     score,
		scoreSum: parent.scoreSum + score,
	}
	n.ratio = float64(n.aligned) / float64(t.problem.NumRefs())

	hyps := append(t.segments(parent, t.problem.lowerHyp), t.problem.lowerHyp[parent.consumed:n.consumed])
	n.aggregate = corpus(t.problem.lowerRefs[:n.aligned], hyps)
	return n
}

func (t *tree) segments(n *Node, tokens []string) [][]string {
	segs := make([][]string, n.aligned)
	for cur := n; cur.aligned > 0; cur = cur.Parent() {
		start := 0
		if p := cur.Parent(); p != nil {
			start = p.consumed
		}
		segs[cur.aligned-1] = tokens[start:cur.consumed:cur.consumed]
	}
	return segs
}
