package batch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/amanalign/internal/align"
	"github.com/Aman-CERP/amanalign/internal/corpus"
	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
	"github.com/Aman-CERP/amanalign/internal/scoring"
)

// JobResult is the outcome of one job. Err is nil on success.
type JobResult struct {
	Job       Job
	StartedAt time.Time
	Policy    scoring.Policy
	BeamSize  int
	Refs      int
	HypWords  int
	Score     float64
	Stats     align.Stats
	Err       error
}

// Runner executes jobs with bounded parallelism.
type Runner struct {
	// Options are the search options every job starts from.
	Options align.Options
	// Policy is the default scoring policy.
	Policy scoring.Policy
	// CacheSize sizes each job's private score cache.
	CacheSize int
	// Workers bounds the jobs running at once (at least 1).
	Workers int
	// Logger receives per-job events. Defaults to slog.Default().
	Logger *slog.Logger
	// WriteRetry governs retries while another process holds an output
	// lock. Zero uses amerrors.DefaultRetryConfig.
	WriteRetry amerrors.RetryConfig
}

// Run executes jobs and returns one result per job, in job order. A
// failed job does not stop the others. The returned error is non-nil only
// when ctx is cancelled; jobs not yet started then report ERR_507.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]JobResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]JobResult, len(jobs))
	g := new(errgroup.Group)
	g.SetLimit(max(1, r.Workers))

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = JobResult{Job: job, Err: cancelled(err)}
				return nil
			}
			results[i] = r.runJob(ctx, job)
			res := results[i]
			if res.Err != nil {
				level := slog.LevelWarn
				if amerrors.IsFatal(res.Err) {
					level = slog.LevelError
				}
				logger.Log(ctx, level, "batch_job_done",
					slog.String("job", job.Name),
					slog.String("error", res.Err.Error()),
					slog.String("code", amerrors.GetCode(res.Err)))
			} else {
				logger.Info("batch_job_done",
					slog.String("job", job.Name),
					slog.Float64("score", res.Score),
					slog.Int("expansions", res.Stats.TotalExpansions),
					slog.Duration("duration", res.Stats.Duration))
			}
			return nil
		})
	}

	_ = g.Wait()
	return results, ctx.Err()
}

func (r *Runner) runJob(ctx context.Context, job Job) JobResult {
	res := JobResult{
		Job:       job,
		StartedAt: time.Now(),
		Policy:    r.Policy,
		BeamSize:  r.Options.BeamSize,
	}
	if job.Optimizer != "" {
		if p, err := scoring.ParsePolicy(job.Optimizer); err == nil {
			res.Policy = p
		}
	}
	opts := r.Options
	if job.BeamSize > 0 {
		opts.BeamSize = job.BeamSize
		res.BeamSize = job.BeamSize
	}

	refs, err := corpus.ReadReferences(job.Reference)
	if err != nil {
		res.Err = err
		return res
	}
	hyp, err := corpus.ReadHypothesis(job.Hypothesis)
	if err != nil {
		res.Err = err
		return res
	}
	res.Refs, res.HypWords = len(refs), len(hyp)

	problem, err := align.NewProblem(refs, hyp)
	if err != nil {
		res.Err = err
		return res
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d, err := align.NewDriver(problem, scoring.New(res.Policy, r.CacheSize), opts,
		align.WithLogger(logger.With(slog.String("job", job.Name))))
	if err != nil {
		res.Err = err
		return res
	}

	out, err := d.Run(ctx)
	if out != nil {
		res.Stats = out.Stats
	}
	if err != nil {
		res.Err = err
		return res
	}
	res.Score = out.Score

	retry := r.WriteRetry
	if retry.MaxRetries == 0 && retry.InitialDelay == 0 {
		retry = amerrors.DefaultRetryConfig()
	}
	res.Err = amerrors.Retry(ctx, retry, func() error {
		return corpus.WriteAlignment(job.Output, out.Segments())
	})
	return res
}

func cancelled(err error) error {
	return amerrors.New(amerrors.ErrCodeSearchCancelled, "job not started", err)
}

// Failed counts results with an error.
func Failed(results []JobResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
