package align

import "strings"

// expand aligns the next reference sentence of n with every admissible
// prefix of the remaining hypothesis and returns the beam survivors that
// the duplicate cache does not dominate. Survivors are stored in the cache.
func (d *Driver) expand(n *Node) []*Node {
	p := d.problem
	ref := p.lowerRefs[n.aligned]
	lookahead := d.opts.LookaheadFor(len(ref))
	// Each reference after this one needs at least one token.
	unaligned := p.NumRefs() - n.aligned - 1
	available := p.HypLen() - n.consumed

	top := make([]*Node, 0, max(0, min(d.opts.BeamSize, lookahead, available)))
	threshold := -1.0
	for length := 1; length <= lookahead; length++ {
		if available-length < unaligned {
			break
		}
		seg := p.lowerHyp[n.consumed : n.consumed+length]
		score := d.weigh(seg, d.scorer.Similarity(ref, seg))
		if score <= threshold {
			continue
		}

		if len(top) == d.opts.BeamSize {
			top = top[:len(top)-1]
		}
		top = insertByScore(top, d.tree.child(n, length, score, d.scorer.CorpusSimilarity))
		if len(top) == d.opts.BeamSize {
			threshold = top[len(top)-1].last
		}
	}

	out := top[:0]
	for _, c := range top {
		if d.cache.Dominates(c) {
			d.stats.CacheHits++
			continue
		}
		d.cache.Put(c)
		d.tree.add(c)
		out = append(out, c)
	}
	return out
}

// finalize assigns every remaining hypothesis token to the last reference.
func (d *Driver) finalize(n *Node) *Node {
	p := d.problem
	ref := p.lowerRefs[n.aligned]
	seg := p.lowerHyp[n.consumed:]
	score := d.weigh(seg, d.scorer.FinalSimilarity(ref, seg))

	final := d.tree.child(n, len(seg), score, d.scorer.CorpusSimilarity)
	d.tree.add(final)
	return final
}

// weigh applies the punctuation weight to segments that end a sentence.
func (d *Driver) weigh(seg []string, score float64) float64 {
	if endsWithPunctuation(seg) {
		return score * d.opts.PunctuationWeight
	}
	return score
}

func endsWithPunctuation(seg []string) bool {
	if len(seg) == 0 {
		return false
	}
	last := seg[len(seg)-1]
	return last != "" && strings.ContainsAny(last[len(last)-1:], ".?!,")
}

// insertByScore inserts n into top, which is sorted by descending
// LastSegmentScore, after every node with an equal score.
func insertByScore(top []*Node, n *Node) []*Node {
	i := len(top)
	for i > 0 && top[i-1].last < n.last {
		i--
	}
	top = append(top, nil)
	copy(top[i+1:], top[i:])
	top[i] = n
	return top
}
