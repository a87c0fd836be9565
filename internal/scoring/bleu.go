package scoring

import (
	"math"
	"strings"
)

const (
	// maxOrder is the highest n-gram order BLEU scores with uniform weights.
	maxOrder = 4

	// lengthSmoothingK is the k constant of length-scaled smoothing.
	lengthSmoothingK = 5.0
)

// BleuScorer scores with BLEU up to 4-grams.
//
// Candidate segments use NIST geometric smoothing; the final segment uses
// length-scaled smoothing followed by neighbour averaging; corpus scores use
// length-scaled smoothing. These match the smoothing methods 3, 7 and 4 of
// the widely used NLTK implementation.
type BleuScorer struct{}

// Policy implements SentenceScorer.
func (BleuScorer) Policy() Policy { return PolicyBLEU }

// Similarity implements SentenceScorer.
func (BleuScorer) Similarity(ref, hyp []string) float64 {
	return corpusBLEU([][]string{lower(ref)}, [][]string{lower(hyp)}, smoothNIST)
}

// FinalSimilarity implements SentenceScorer.
func (BleuScorer) FinalSimilarity(ref, hyp []string) float64 {
	return corpusBLEU([][]string{lower(ref)}, [][]string{lower(hyp)}, smoothLengthAveraged)
}

// CorpusSimilarity implements SentenceScorer.
func (BleuScorer) CorpusSimilarity(refs, hyps [][]string) float64 {
	n := min(len(refs), len(hyps))
	if n == 0 {
		return 0
	}
	lr := make([][]string, n)
	lh := make([][]string, n)
	for i := 0; i < n; i++ {
		lr[i] = lower(refs[i])
		lh[i] = lower(hyps[i])
	}
	return corpusBLEU(lr, lh, smoothLengthScaled)
}

// precision is an unreduced n-gram precision fraction.
type precision struct {
	num float64
	den float64
}

func (p precision) value() float64 { return p.num / p.den }

// smoothingContext carries what smoothing methods may look at besides the
// precisions themselves.
type smoothingContext struct {
	ref    []string
	hyp    []string
	hypLen int
}

type smoothingFunc func(p []precision, ctx smoothingContext) []float64

// corpusBLEU pools clipped n-gram counts over all segment pairs before
// combining them, so it is not a mean of sentence scores.
func corpusBLEU(refs, hyps [][]string, smooth smoothingFunc) float64 {
	if len(hyps) == 0 {
		return 0
	}

	p := make([]precision, maxOrder)
	hypLen, refLen := 0, 0
	for i := range hyps {
		for n := 1; n <= maxOrder; n++ {
			mp := modifiedPrecision(refs[i], hyps[i], n)
			p[n-1].num += mp.num
			p[n-1].den += mp.den
		}
		hypLen += len(hyps[i])
		refLen += len(refs[i])
	}

	// No unigram matches: nothing to smooth.
	if p[0].num == 0 {
		return 0
	}

	bp := brevityPenalty(refLen, hypLen)
	values := smooth(p, smoothingContext{
		ref:    refs[len(refs)-1],
		hyp:    hyps[len(hyps)-1],
		hypLen: hypLen,
	})

	sum := 0.0
	for _, v := range values {
		if v <= 0 {
			return 0
		}
		sum += math.Log(v) / maxOrder
	}
	return clamp01(bp * math.Exp(sum))
}

// modifiedPrecision counts hypothesis n-grams clipped by their reference
// counts. The denominator is at least 1 so short hypotheses stay defined.
func modifiedPrecision(ref, hyp []string, n int) precision {
	hypCounts := ngramCounts(hyp, n)
	if len(hypCounts) == 0 {
		return precision{num: 0, den: 1}
	}
	refCounts := ngramCounts(ref, n)

	clipped, total := 0, 0
	for gram, c := range hypCounts {
		clipped += min(c, refCounts[gram])
		total += c
	}
	return precision{num: float64(clipped), den: float64(max(1, total))}
}

func ngramCounts(tokens []string, n int) map[string]int {
	if len(tokens) < n {
		return nil
	}
	counts := make(map[string]int, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], "\x00")]++
	}
	return counts
}

func brevityPenalty(refLen, hypLen int) float64 {
	switch {
	case hypLen > refLen:
		return 1
	case hypLen == 0:
		return 0
	}
	return math.Exp(1 - float64(refLen)/float64(hypLen))
}

// smoothNIST replaces the k-th zero precision with 1/(2^k * denominator).
func smoothNIST(p []precision, _ smoothingContext) []float64 {
	out := make([]float64, len(p))
	k := 1
	for i, pi := range p {
		if pi.num == 0 {
			out[i] = 1 / (math.Pow(2, float64(k)) * pi.den)
			k++
			continue
		}
		out[i] = pi.value()
	}
	return out
}

// smoothLengthScaled scales the replacement for zero precisions by the log
// of the hypothesis length, so longer hypotheses are penalized less.
func smoothLengthScaled(p []precision, ctx smoothingContext) []float64 {
	out := make([]float64, len(p))
	hypLen := ctx.hypLen
	if hypLen == 0 {
		hypLen = len(ctx.hyp)
	}
	k := 1
	for i, pi := range p {
		if pi.num == 0 && hypLen > 1 {
			numerator := 1 / (math.Pow(2, float64(k)) * lengthSmoothingK / math.Log(float64(hypLen)))
			out[i] = numerator / pi.den
			k++
			continue
		}
		out[i] = pi.value()
	}
	return out
}

// smoothLengthAveraged applies length-scaled smoothing, then averages each
// precision with its neighbours (using the 5-gram precision past the end).
func smoothLengthAveraged(p []precision, ctx smoothingContext) []float64 {
	values := smoothLengthScaled(p, ctx)

	next := append(append([]float64(nil), values...), modifiedPrecision(ctx.ref, ctx.hyp, maxOrder+1).value())
	prev := values[0] + 1
	for i := range values {
		values[i] = (prev + values[i] + next[i+1]) / 3
		prev = values[i]
	}
	return values
}
