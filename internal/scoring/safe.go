package scoring

import "log/slog"

// safeScorer keeps the search total: a panicking or out-of-range scorer
// yields a neutral score instead of aborting the run. For BLEU the neutral
// score is 0; for WER it is the worst error rate, which is also similarity 0.
type safeScorer struct {
	inner SentenceScorer
}

// Safe wraps a scorer so that it never panics and always returns a value in [0,1].
func Safe(inner SentenceScorer) SentenceScorer {
	if s, ok := inner.(safeScorer); ok {
		return s
	}
	return safeScorer{inner: inner}
}

func (s safeScorer) recoverTo(score *float64, op string) {
	if r := recover(); r != nil {
		slog.Debug("scorer_failed",
			slog.String("policy", string(s.inner.Policy())),
			slog.String("op", op),
			slog.Any("panic", r))
		*score = 0
	}
}

func (s safeScorer) Policy() Policy { return s.inner.Policy() }

func (s safeScorer) Similarity(ref, hyp []string) (score float64) {
	defer s.recoverTo(&score, "similarity")
	return clamp01(s.inner.Similarity(ref, hyp))
}

func (s safeScorer) FinalSimilarity(ref, hyp []string) (score float64) {
	defer s.recoverTo(&score, "final")
	return clamp01(s.inner.FinalSimilarity(ref, hyp))
}

func (s safeScorer) CorpusSimilarity(refs, hyps [][]string) (score float64) {
	defer s.recoverTo(&score, "corpus")
	return clamp01(s.inner.CorpusSimilarity(refs, hyps))
}
