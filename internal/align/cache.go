package align

// Signature identifies interchangeable search positions: the same number of
// references aligned with the same number of hypothesis tokens left.
type Signature struct {
	Aligned   int
	Remaining int
}

// DuplicateCache remembers the last stored aggregate score per signature.
// Pruning on it is heuristic: two nodes with equal signatures may have
// consumed different tokens.
type DuplicateCache struct {
	scores map[Signature]float64
}

// NewDuplicateCache creates an empty cache.
func NewDuplicateCache() *DuplicateCache {
	return &DuplicateCache{scores: make(map[Signature]float64)}
}

// Dominates reports whether a strictly better node with the same signature
// was stored. A node never dominates itself, and equal scores do not dominate.
func (c *DuplicateCache) Dominates(n *Node) bool {
	best, ok := c.scores[n.Signature()]
	return ok && best > n.aggregate
}

// Put stores the node's aggregate score, overwriting any previous entry.
func (c *DuplicateCache) Put(n *Node) {
	c.scores[n.Signature()] = n.aggregate
}

// Clear drops every entry.
func (c *DuplicateCache) Clear() {
	clear(c.scores)
}

// Len returns the number of signatures stored.
func (c *DuplicateCache) Len() int {
	return len(c.scores)
}
