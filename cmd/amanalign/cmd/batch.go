package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanalign/internal/batch"
	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
	"github.com/Aman-CERP/amanalign/internal/output"
	"github.com/Aman-CERP/amanalign/internal/telemetry"
)

type batchJobOutput struct {
	Name       string          `json:"name"`
	Output     string          `json:"output"`
	Optimizer  string          `json:"optimizer"`
	Score      float64         `json:"score"`
	Expansions int             `json:"expansions"`
	Restarts   int             `json:"restarts"`
	DurationMs int64           `json:"duration_ms"`
	Error      json.RawMessage `json:"error,omitempty"`
}

func newBatchCmd() *cobra.Command {
	var (
		flags      alignFlags
		workers    int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "batch <manifest.yaml>",
		Short: "Run many alignments in parallel from a manifest",
		Long: `Run every job of a YAML manifest. Jobs run independently with their own
search state; a failed job does not stop the others.

Manifest format:
  jobs:
    - name: episode1
      reference: ref/ep1.txt
      hypothesis: asr/ep1.txt
      output: aligned/ep1.txt
      optimizer: wer      # optional
      beam_size: 40       # optional

Relative paths are resolved against the manifest's directory.`,
		Example: `  amanalign batch jobs.yaml
  amanalign batch --workers 4 --json jobs.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], flags, workers, jsonOutput)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel alignments (default batch.workers)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}

func runBatch(cmd *cobra.Command, manifestPath string, flags alignFlags, workers int, jsonOutput bool) error {
	diag := output.New(cmd.ErrOrStderr())

	cfg, err := loadConfig(diag, flags.search)
	if err != nil {
		return err
	}
	if flags.statsDB != "" {
		cfg.Telemetry.StatsDB = flags.statsDB
	}
	if workers > 0 {
		cfg.Batch.Workers = workers
	}

	m, err := batch.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	runner := &batch.Runner{
		Options:   cfg.AlignOptions(),
		Policy:    cfg.Policy(),
		CacheSize: cfg.Scoring.CacheSize,
		Workers:   cfg.Workers(),
		Logger:    slog.Default(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, runErr := runner.Run(ctx, m.Jobs)

	recs := make([]telemetry.RunRecord, 0, len(results))
	for _, r := range results {
		if r.StartedAt.IsZero() {
			continue
		}
		recs = append(recs, telemetry.RunRecord{
			StartedAt:       r.StartedAt,
			Reference:       r.Job.Reference,
			Hypothesis:      r.Job.Hypothesis,
			Optimizer:       string(r.Policy),
			BeamSize:        r.BeamSize,
			References:      r.Refs,
			HypothesisWords: r.HypWords,
			Success:         r.Err == nil,
			Score:           r.Score,
			Expansions:      r.Stats.TotalExpansions,
			Restarts:        r.Stats.Restarts,
			NodesCreated:    r.Stats.NodesCreated,
			DurationMs:      r.Stats.Duration.Milliseconds(),
		})
	}
	recordRun(cfg.Telemetry.StatsDB, recs...)

	if err := printBatchResults(cmd, results, jsonOutput); err != nil {
		return err
	}
	if runErr != nil {
		return amerrors.New(amerrors.ErrCodeSearchCancelled, "batch interrupted", runErr)
	}
	if n := batch.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d jobs failed", n, len(results))
	}
	return nil
}

func printBatchResults(cmd *cobra.Command, results []batch.JobResult, jsonOutput bool) error {
	if jsonOutput {
		rows := make([]batchJobOutput, len(results))
		for i, r := range results {
			rows[i] = batchJobOutput{
				Name:       r.Job.Name,
				Output:     r.Job.Output,
				Optimizer:  string(r.Policy),
				Score:      r.Score,
				Expansions: r.Stats.TotalExpansions,
				Restarts:   r.Stats.Restarts,
				DurationMs: r.Stats.Duration.Milliseconds(),
			}
			if r.Err != nil {
				data, err := amerrors.FormatJSON(r.Err)
				if err != nil {
					return err
				}
				rows[i].Error = data
			}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	out := output.New(cmd.OutOrStdout())
	for _, r := range results {
		if r.Err != nil {
			out.Errorf("%s: %v", r.Job.Name, r.Err)
			continue
		}
		out.Successf("%s: %s %.4f (%d expansions, %d restarts) -> %s",
			r.Job.Name, r.Policy.Label(), r.Score, r.Stats.TotalExpansions, r.Stats.Restarts, r.Job.Output)
	}
	out.Newline()
	out.Statusf("📊", "%d/%d jobs aligned", len(results)-batch.Failed(results), len(results))
	return nil
}
