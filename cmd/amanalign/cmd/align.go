package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanalign/internal/align"
	"github.com/Aman-CERP/amanalign/internal/config"
	"github.com/Aman-CERP/amanalign/internal/corpus"
	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
	"github.com/Aman-CERP/amanalign/internal/output"
	"github.com/Aman-CERP/amanalign/internal/profiling"
	"github.com/Aman-CERP/amanalign/internal/scoring"
	"github.com/Aman-CERP/amanalign/internal/telemetry"
)

// alignFlags are the search flags of the root command. Numeric values are
// strings so malformed input is reported instead of rejected.
type alignFlags struct {
	search  config.SearchFlags
	verbose bool
	statsDB string
}

func (f *alignFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVarP(&f.search.WER, "wer", "w", false, "Optimize 1-WER instead of BLEU")
	fs.StringVarP(&f.search.PunctuationWeight, "punctuation-weight", "p", "", "Extra weight for segments ending in punctuation (default 1)")
	fs.StringVarP(&f.search.BeamSize, "beamsize", "b", "", "Beam size of the search (default 20)")
	fs.StringVarP(&f.search.BreadthFirst, "breadthfirst", "f", "", "Depth up to which the search is breadth-first (default 3)")
	fs.StringVarP(&f.search.MaxExpand, "maxexpand", "m", "", "Expansions before restarting from the best node (default references*500)")
	fs.StringVarP(&f.search.Lookahead, "lookahead", "l", "", "Longest candidate segment (default 1.5 times the reference length)")
	fs.StringVar(&f.statsDB, "stats-db", "", "Record the run in this SQLite file")
}

// loadConfig loads the configuration for the working directory and
// applies search flags, reporting ignored values on diag.
func loadConfig(diag *output.Writer, flags config.SearchFlags) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, amerrors.InternalError("failed to get current directory", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	for _, w := range cfg.ApplySearchFlags(flags) {
		diag.Warning(w.Error())
		slog.Warn("config_flag_ignored", amerrors.FormatForLog(w)...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, amerrors.ConfigError("invalid search options", err)
	}
	return cfg, nil
}

func runAlign(cmd *cobra.Command, refPath, hypPath, outPath string, flags alignFlags) error {
	diag := output.New(cmd.ErrOrStderr())
	if output.DetectCI() {
		diag.SetInteractive(false)
	}

	cfg, err := loadConfig(diag, flags.search)
	if err != nil {
		return err
	}
	if flags.statsDB != "" {
		cfg.Telemetry.StatsDB = flags.statsDB
	}

	refs, err := corpus.ReadReferences(refPath)
	if err != nil {
		return err
	}
	hyp, err := corpus.ReadHypothesis(hypPath)
	if err != nil {
		return err
	}
	problem, err := align.NewProblem(refs, hyp)
	if err != nil {
		return err
	}

	opts := cfg.AlignOptions()
	policy := cfg.Policy()
	reporter := output.NewSearchReporter(diag, policy, flags.verbose)
	reporter.SetProgressInterval(opts.MaxExpansionsFor(problem.NumRefs()) / 100)

	runID := uuid.New().String()
	driver, err := align.NewDriver(problem, scoring.New(policy, cfg.Scoring.CacheSize), opts,
		align.WithObserver(reporter),
		align.WithLogger(slog.Default().With(slog.String("run_id", runID))))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	res, runErr := driver.Run(ctx)
	diag.ProgressDone()
	slog.Debug("align_memory", slog.String("heap_in_use", profiling.FormatBytes(profiling.HeapInUse())))

	rec := runRecord(started, refPath, hypPath, policy, opts.BeamSize, problem, res, runErr)
	rec.RunID = runID
	recordRun(cfg.Telemetry.StatsDB, rec)

	if runErr != nil {
		if amerrors.GetCode(runErr) == amerrors.ErrCodeNoAlignment {
			diag.Error("Not finished: try a larger beam or a larger expansion budget")
		}
		return runErr
	}

	reporter.Solution(res.Solution)
	return amerrors.Retry(ctx, amerrors.DefaultRetryConfig(), func() error {
		return corpus.WriteAlignment(outPath, res.Segments())
	})
}

func runRecord(started time.Time, ref, hyp string, policy scoring.Policy, beam int, p *align.Problem, res *align.Result, runErr error) telemetry.RunRecord {
	rec := telemetry.RunRecord{
		StartedAt:       started,
		Reference:       ref,
		Hypothesis:      hyp,
		Optimizer:       string(policy),
		BeamSize:        beam,
		References:      p.NumRefs(),
		HypothesisWords: p.HypLen(),
		Success:         runErr == nil,
		DurationMs:      time.Since(started).Milliseconds(),
	}
	if res != nil {
		rec.Score = res.Score
		rec.Expansions = res.Stats.TotalExpansions
		rec.Restarts = res.Stats.Restarts
		rec.NodesCreated = res.Stats.NodesCreated
	}
	return rec
}

// recordRun appends rec to the run history at dbPath. Recording failures
// are logged and never fail the command.
func recordRun(dbPath string, recs ...telemetry.RunRecord) {
	if dbPath == "" || len(recs) == 0 {
		return
	}
	store, err := telemetry.OpenRunStore(dbPath)
	if err != nil {
		slog.Warn("stats_open_failed", slog.String("path", dbPath), slog.String("error", err.Error()))
		return
	}
	defer func() { _ = store.Close() }()

	for _, rec := range recs {
		if _, err := store.SaveRun(rec); err != nil {
			slog.Warn("stats_save_failed", slog.String("path", dbPath), slog.String("error", err.Error()))
			return
		}
	}
}

