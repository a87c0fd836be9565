package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanalign/internal/config"
	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
	"github.com/Aman-CERP/amanalign/internal/output"
	"github.com/Aman-CERP/amanalign/internal/telemetry"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show alignment run history",
		Long: `Display the alignment runs recorded with --stats-db (or
telemetry.stats_db in the configuration).`,
	}

	cmd.AddCommand(newStatsRunsCmd())
	return cmd
}

// StatsRunsOutput is the JSON output format for run stats.
type StatsRunsOutput struct {
	Summary telemetry.Summary     `json:"summary"`
	Runs    []telemetry.RunRecord `json:"runs"`
}

func newStatsRunsCmd() *cobra.Command {
	var (
		jsonOutput bool
		limit      int
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent alignment runs",
		Example: `  amanalign stats runs --db runs.db
  amanalign stats runs --limit 50 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatsRuns(cmd, dbPath, limit, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show")
	cmd.Flags().StringVar(&dbPath, "db", "", "Run history file (default telemetry.stats_db)")

	return cmd
}

func runStatsRuns(cmd *cobra.Command, dbPath string, limit int, jsonOutput bool) error {
	out := output.New(cmd.OutOrStdout())

	if dbPath == "" {
		cfg, err := loadConfig(output.New(cmd.ErrOrStderr()), config.SearchFlags{})
		if err != nil {
			return err
		}
		dbPath = cfg.Telemetry.StatsDB
	}
	if dbPath == "" {
		out.Warning("No run history configured")
		out.Status("💡", "Pass --db, or record runs with --stats-db / telemetry.stats_db")
		return nil
	}
	if _, err := os.Stat(dbPath); err != nil {
		return amerrors.New(amerrors.ErrCodeFileNotFound, "run history not found: "+dbPath, err)
	}

	store, err := telemetry.OpenRunStore(dbPath)
	if err != nil {
		return amerrors.IOError("failed to open run history", err)
	}
	defer func() { _ = store.Close() }()

	runs, err := store.RecentRuns(limit)
	if err != nil {
		return err
	}
	summary, err := store.Summary()
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(StatsRunsOutput{Summary: summary, Runs: runs})
	}

	out.Statusf("📊", "Runs: %d (%d aligned), average score %.4f", summary.Runs, summary.Succeeded, summary.AvgScore)
	for _, b := range telemetry.Buckets {
		if n := summary.Durations[b]; n > 0 {
			out.Statusf("", "  %-9s %d", b, n)
		}
	}
	out.Newline()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tOPTIMIZER\tREFS\tSCORE\tEXPANSIONS\tRESTARTS\tMS\tREFERENCE")
	for _, r := range runs {
		score := fmt.Sprintf("%.4f", r.Score)
		if !r.Success {
			score = "failed"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Optimizer, r.References,
			score, r.Expansions, r.Restarts, r.DurationMs, r.Reference)
	}
	return tw.Flush()
}
