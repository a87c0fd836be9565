package align

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
	"github.com/Aman-CERP/amanalign/internal/scoring"
)

// State is the phase of the search state machine.
type State int

const (
	// StateExploring pops and expands frontier nodes.
	StateExploring State = iota
	// StateRestarting reseeds the search from the best-known node.
	StateRestarting
	// StateTerminated means the frontier is empty.
	StateTerminated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExploring:
		return "exploring"
	case StateRestarting:
		return "restarting"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Stats summarizes a run.
type Stats struct {
	// Expansions is the expansion count since the last restart.
	Expansions int
	// TotalExpansions counts every expansion of the run.
	TotalExpansions int
	// Budget is the expansion budget between restarts.
	Budget int
	// Restarts is the number of budget restarts.
	Restarts int
	// NodesCreated counts every node built, including beam rejects.
	NodesCreated int
	// CacheHits counts nodes dropped as dominated by the duplicate cache.
	CacheHits int
	// Duration is the wall time of the run.
	Duration time.Duration
}

// Result is the outcome of Driver.Run.
type Result struct {
	// Solution is the best completed alignment, nil on failure.
	Solution *Node
	// Best is the best-known node, complete or not.
	Best *Node
	// Score is the aggregate score of Solution.
	Score float64
	// Stats describes the search effort.
	Stats Stats
}

// Segments returns the aligned hypothesis groups of the solution, nil on failure.
func (r *Result) Segments() [][]string {
	if r.Solution == nil {
		return nil
	}
	return r.Solution.Segments()
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithObserver adds an observer. Observers are called in the order added.
func WithObserver(o Observer) DriverOption {
	return func(d *Driver) {
		if o != nil {
			d.observers = append(d.observers, o)
		}
	}
}

// WithLogger sets the logger used for search events.
func WithLogger(l *slog.Logger) DriverOption {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// Driver runs one alignment search. It owns the frontier, the duplicate
// cache and the node arena, and is not safe for concurrent use. Use one
// Driver per run.
type Driver struct {
	problem   *Problem
	scorer    scoring.SentenceScorer
	opts      Options
	observers multiObserver
	logger    *slog.Logger

	tree     *tree
	cache    *DuplicateCache
	frontier *Frontier
	state    State
	stats    Stats
}

// NewDriver creates a Driver for problem. Invalid options are rejected.
func NewDriver(problem *Problem, scorer scoring.SentenceScorer, opts Options, options ...DriverOption) (*Driver, error) {
	if problem == nil || scorer == nil {
		return nil, amerrors.InternalError("align: nil problem or scorer", nil)
	}
	if err := opts.Validate(); err != nil {
		return nil, amerrors.New(amerrors.ErrCodeConfigValue, err.Error(), err)
	}

	d := &Driver{
		problem:  problem,
		scorer:   scoring.Safe(scorer),
		opts:     opts,
		logger:   slog.Default(),
		tree:     newTree(problem),
		cache:    NewDuplicateCache(),
		frontier: &Frontier{},
		state:    StateExploring,
	}
	for _, o := range options {
		o(d)
	}
	return d, nil
}

// State returns the current state of the search.
func (d *Driver) State() State { return d.state }

// CacheLen returns the number of duplicate cache entries.
func (d *Driver) CacheLen() int { return d.cache.Len() }

// FrontierLen returns the number of pending nodes.
func (d *Driver) FrontierLen() int { return d.frontier.Len() }

// Run searches until the frontier is empty and returns the best completed
// alignment. When no alignment completes with a positive score it returns
// ERR_506 together with a Result holding the best-known partial node.
// Cancelling ctx stops the search between two frontier pops. Run may be
// called once per Driver.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	if len(d.tree.nodes) > 0 {
		return nil, amerrors.InternalError("align: driver already ran", nil)
	}
	start := time.Now()
	r := d.problem.NumRefs()
	d.stats.Budget = d.opts.MaxExpansionsFor(r)

	root := d.tree.root()
	d.frontier.Reset(root)
	best := root

	var solution *Node
	bestScore := 0.0

	d.logger.Info("align_started",
		slog.Int("references", r),
		slog.Int("hypothesis_tokens", d.problem.HypLen()),
		slog.String("optimizer", string(d.scorer.Policy())),
		slog.Int("beam", d.opts.BeamSize),
		slog.Int("budget", d.stats.Budget))

	result := func() *Result {
		d.stats.NodesCreated = d.tree.created
		d.stats.Duration = time.Since(start)
		return &Result{Solution: solution, Best: best, Score: bestScore, Stats: d.stats}
	}

	for d.frontier.Len() > 0 {
		if err := ctx.Err(); err != nil {
			d.state = StateTerminated
			return result(), amerrors.New(amerrors.ErrCodeSearchCancelled, "alignment search cancelled", err)
		}

		d.state = StateExploring
		n, _ := d.frontier.Pop()

		if isBetter(n, best) {
			best = n
			d.logger.Debug("align_best_improved",
				slog.Int("aligned", n.aligned),
				slog.Float64("score", n.aggregate))
			d.observers.OnBestImproved(n)
		}

		if d.cache.Dominates(n) {
			d.stats.CacheHits++
			continue
		}

		if n.aligned == r-1 {
			final := d.finalize(n)
			if final.aggregate > bestScore {
				solution = final
				bestScore = final.aggregate
				d.observers.OnSolutionImproved(final)
			}
			continue
		}

		d.stats.Expansions++
		d.stats.TotalExpansions++
		if d.stats.Expansions > d.stats.Budget {
			d.restart(best)
			continue
		}

		d.observers.OnExpand(d.stats.Expansions, d.stats.Budget)
		d.frontier.Push(d.expand(n)...)
		if front := d.frontier.Front(); front != nil && front.aligned > d.opts.BreadthFirstThreshold {
			d.frontier.SpecialSort(d.opts.BreadthFirstThreshold, d.opts.ProgressWeight)
		}
	}
	d.state = StateTerminated

	res := result()
	if solution == nil {
		d.logger.Warn("align_failed",
			slog.Int("best_aligned", best.aligned),
			slog.Int("restarts", d.stats.Restarts),
			slog.Int("expansions", d.stats.TotalExpansions))
		return res, amerrors.New(amerrors.ErrCodeNoAlignment,
			fmt.Sprintf("no complete alignment found (best partial alignment covers %d of %d references)", best.aligned, r), nil).
			WithSuggestion("Try a larger beam (--beamsize) or a larger expansion budget (--maxexpand)")
	}

	d.logger.Info("align_solution",
		slog.Float64("score", bestScore),
		slog.Int("restarts", d.stats.Restarts),
		slog.Int("expansions", d.stats.TotalExpansions),
		slog.Duration("duration", res.Stats.Duration))
	return res, nil
}

// restart clears the duplicate cache and reseeds the frontier with best.
func (d *Driver) restart(best *Node) {
	d.state = StateRestarting
	d.cache.Clear()
	d.frontier.Reset(best)
	d.stats.Expansions = 0
	d.stats.Restarts++

	d.logger.Info("align_restart",
		slog.Int("restarts", d.stats.Restarts),
		slog.Int("best_aligned", best.aligned),
		slog.Float64("best_score", best.aggregate))
	d.observers.OnRestart(best, d.stats.Restarts)
}
