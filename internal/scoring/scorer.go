// Package scoring provides the sentence similarity functions the aligner
// optimizes: smoothed BLEU and 1 - word error rate.
//
// Every scorer returns a similarity in [0,1], compares tokens
// case-insensitively and never panics on degenerate input.
package scoring

import (
	"fmt"
	"strings"
)

// Policy selects which similarity the aligner optimizes.
type Policy string

const (
	// PolicyBLEU optimizes smoothed sentence-level BLEU.
	PolicyBLEU Policy = "bleu"
	// PolicyWER optimizes 1 - word error rate.
	PolicyWER Policy = "wer"
)

// ParsePolicy converts a config or flag value into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bleu":
		return PolicyBLEU, nil
	case "wer":
		return PolicyWER, nil
	default:
		return "", fmt.Errorf("unknown optimizer %q (use: bleu, wer)", s)
	}
}

// Label is the name used for the score in diagnostics ("bleu" or "1-wer").
func (p Policy) Label() string {
	if p == PolicyWER {
		return "1-wer"
	}
	return "bleu"
}

// SentenceScorer computes similarities between reference and hypothesis tokens.
type SentenceScorer interface {
	// Policy reports which metric the scorer implements.
	Policy() Policy

	// Similarity scores a candidate segment against one reference sentence.
	Similarity(ref, hyp []string) float64

	// FinalSimilarity scores the last segment of an alignment, which absorbs
	// every remaining hypothesis token.
	FinalSimilarity(ref, hyp []string) float64

	// CorpusSimilarity scores aligned segments as a whole. refs and hyps have
	// equal length.
	CorpusSimilarity(refs, hyps [][]string) float64
}

// New builds the scorer for a policy: panic-safe and, when cacheSize > 0,
// memoized in an LRU cache.
func New(policy Policy, cacheSize int) SentenceScorer {
	var base SentenceScorer
	switch policy {
	case PolicyWER:
		base = WerScorer{}
	default:
		base = BleuScorer{}
	}

	s := Safe(base)
	if cacheSize > 0 {
		s = NewCachedScorer(s, cacheSize)
	}
	return s
}

// lower returns a lowercased copy of tokens.
func lower(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
