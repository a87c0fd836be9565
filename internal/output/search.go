package output

import (
	"fmt"
	"strings"

	"github.com/Aman-CERP/amanalign/internal/align"
	"github.com/Aman-CERP/amanalign/internal/scoring"
)

// SearchReporter writes alignment search diagnostics. It implements
// align.Observer.
type SearchReporter struct {
	w       *Writer
	label   string
	verbose bool
	every   int
}

var _ align.Observer = (*SearchReporter)(nil)

// NewSearchReporter reports to w. Score lines are labelled per policy
// ("bleu" or "1-wer"); verbose adds a dump each time the best-known
// alignment improves.
func NewSearchReporter(w *Writer, policy scoring.Policy, verbose bool) *SearchReporter {
	return &SearchReporter{
		w:       w,
		label:   policy.Label(),
		verbose: verbose,
		every:   1,
	}
}

// SetProgressInterval redraws progress every n expansions.
func (r *SearchReporter) SetProgressInterval(n int) {
	r.every = max(1, n)
}

// OnExpand implements align.Observer.
func (r *SearchReporter) OnExpand(count, budget int) {
	if count%r.every == 0 || count == budget {
		r.w.Progress(count, budget, fmt.Sprintf("Expand nr %d / %d", count, budget))
	}
}

// OnBestImproved implements align.Observer.
func (r *SearchReporter) OnBestImproved(best *align.Node) {
	if !r.verbose {
		return
	}
	r.w.Newline()
	r.w.Line("Current best")
	r.Dump(best)
}

// OnSolutionImproved implements align.Observer.
func (r *SearchReporter) OnSolutionImproved(solution *align.Node) {
	r.w.Linef("Best %s %.6f", r.label, solution.AggregateScore())
}

// OnRestart implements align.Observer.
func (r *SearchReporter) OnRestart(best *align.Node, restarts int) {
	r.w.Warningf("Maximum nr of expands reached, restarting from best solution (restart %d)", restarts)
	r.Dump(best)
}

// Solution prints the final alignment dump.
func (r *SearchReporter) Solution(solution *align.Node) {
	r.w.ProgressDone()
	r.w.Line("ALIGNED SOLUTION:")
	r.Dump(solution)
}

// Dump prints the aligned references and hypothesis groups of n with its
// score and aligned count.
func (r *SearchReporter) Dump(n *align.Node) {
	r.w.Line("Refs")
	for _, ref := range n.AlignedRefs() {
		r.w.Line("  " + strings.Join(ref, " "))
	}
	r.w.Line("Hyps")
	for _, seg := range n.Segments() {
		r.w.Line("  " + strings.Join(seg, " "))
	}
	r.w.Linef("%s %.6f", r.label, n.AggregateScore())
	r.w.Linef("Nr of hyps %d", n.AlignedCount())
}
