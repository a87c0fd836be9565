package scoring

// WerScorer scores with 1 - word error rate, clamped to [0,1].
type WerScorer struct{}

// Policy implements SentenceScorer.
func (WerScorer) Policy() Policy { return PolicyWER }

// Similarity implements SentenceScorer.
// An empty reference has no defined WER and scores 0.
func (WerScorer) Similarity(ref, hyp []string) float64 {
	if len(ref) == 0 {
		return 0
	}
	d := wordEditDistance(lower(ref), lower(hyp))
	return clamp01(1 - float64(d)/float64(len(ref)))
}

// FinalSimilarity implements SentenceScorer. WER has no separate final form.
func (w WerScorer) FinalSimilarity(ref, hyp []string) float64 {
	return w.Similarity(ref, hyp)
}

// CorpusSimilarity implements SentenceScorer. The aggregate of an alignment
// is corpus BLEU under both policies; 1-WER only scores segments.
func (WerScorer) CorpusSimilarity(refs, hyps [][]string) float64 {
	return BleuScorer{}.CorpusSimilarity(refs, hyps)
}

// CorpusWER returns 1 - corpus WER: total edits over total reference
// words, clamped to [0,1].
func CorpusWER(refs, hyps [][]string) float64 {
	edits, words := 0, 0
	for i := 0; i < min(len(refs), len(hyps)); i++ {
		edits += wordEditDistance(lower(refs[i]), lower(hyps[i]))
		words += len(refs[i])
	}
	if words == 0 {
		return 0
	}
	return clamp01(1 - float64(edits)/float64(words))
}

// wordEditDistance is the word-level Levenshtein distance (substitutions,
// insertions and deletions), computed with two rows.
func wordEditDistance(ref, hyp []string) int {
	prev := make([]int, len(hyp)+1)
	curr := make([]int, len(hyp)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ref); i++ {
		curr[0] = i
		for j := 1; j <= len(hyp); j++ {
			cost := 1
			if ref[i-1] == hyp[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(hyp)]
}
