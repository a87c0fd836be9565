package align

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanalign/internal/scoring"
)

// exactScorer scores 1 for an exact segment match and 0 otherwise. Its
// corpus score is the fraction of exactly matched segments.
type exactScorer struct{}

func (exactScorer) Policy() scoring.Policy { return scoring.PolicyBLEU }

func (exactScorer) Similarity(ref, hyp []string) float64 {
	if slices.Equal(ref, hyp) {
		return 1
	}
	return 0
}

func (s exactScorer) FinalSimilarity(ref, hyp []string) float64 {
	return s.Similarity(ref, hyp)
}

func (s exactScorer) CorpusSimilarity(refs, hyps [][]string) float64 {
	if len(refs) == 0 {
		return 0
	}
	matched := 0
	for i := range refs {
		if slices.Equal(refs[i], hyps[i]) {
			matched++
		}
	}
	return float64(matched) / float64(len(refs))
}

// lengthScorer prefers longer segments: score = len(hyp)/10.
type lengthScorer struct{ exactScorer }

func (lengthScorer) Similarity(_, hyp []string) float64 {
	return float64(len(hyp)) / 10
}

// constScorer gives every segment the same score.
type constScorer struct {
	exactScorer
	score float64
}

func (c constScorer) Similarity(_, _ []string) float64 { return c.score }

func lines(ls ...string) [][]string {
	out := make([][]string, len(ls))
	for i, l := range ls {
		out[i] = strings.Fields(l)
	}
	return out
}

func newTestDriver(t *testing.T, refs [][]string, hyp string, scorer scoring.SentenceScorer, opts Options, options ...DriverOption) *Driver {
	t.Helper()
	p, err := NewProblem(refs, strings.Fields(hyp))
	require.NoError(t, err)
	d, err := NewDriver(p, scorer, opts, options...)
	require.NoError(t, err)
	return d
}

func joinSegments(segs [][]string) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = strings.Join(s, " ")
	}
	return out
}

// recorder collects observer events in order.
type recorder struct {
	NopObserver
	driver   *Driver
	events   []string
	cacheLen []int
	budgets  []int
}

func (r *recorder) OnExpand(_, budget int) {
	r.budgets = append(r.budgets, budget)
}

func (r *recorder) OnSolutionImproved(*Node) {
	r.events = append(r.events, "solution")
}

func (r *recorder) OnRestart(*Node, int) {
	r.events = append(r.events, "restart")
	r.cacheLen = append(r.cacheLen, r.driver.CacheLen())
}
