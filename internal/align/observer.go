package align

// Observer receives search progress. Observers only read; they cannot
// change the course of a search.
type Observer interface {
	// OnExpand is called before each expansion with the expansion count
	// since the last restart and the budget.
	OnExpand(count, budget int)

	// OnBestImproved is called when a popped node becomes the best-known
	// partial or complete alignment.
	OnBestImproved(best *Node)

	// OnSolutionImproved is called when a completed alignment beats the
	// best completed score so far.
	OnSolutionImproved(solution *Node)

	// OnRestart is called after the budget is exhausted, once the duplicate
	// cache is cleared and the frontier reseeded with best.
	OnRestart(best *Node, restarts int)
}

// NopObserver ignores every event. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) OnExpand(int, int) {}
func (NopObserver) OnBestImproved(*Node) {}
func (NopObserver) OnSolutionImproved(*Node) {}
func (NopObserver) OnRestart(*Node, int) {}

// multiObserver fans events out in order.
type multiObserver []Observer

func (m multiObserver) OnExpand(count, budget int) {
	for _, o := range m {
		o.OnExpand(count, budget)
	}
}

func (m multiObserver) OnBestImproved(best *Node) {
	for _, o := range m {
		o.OnBestImproved(best)
	}
}

func (m multiObserver) OnSolutionImproved(solution *Node) {
	for _, o := range m {
		o.OnSolutionImproved(solution)
	}
}

func (m multiObserver) OnRestart(best *Node, restarts int) {
	for _, o := range m {
		o.OnRestart(best, restarts)
	}
}
