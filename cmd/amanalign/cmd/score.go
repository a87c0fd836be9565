package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanalign/internal/corpus"
	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
	"github.com/Aman-CERP/amanalign/internal/scoring"
)

// ScoreReport is the JSON output of `amanalign score`.
type ScoreReport struct {
	Metric string      `json:"metric"`
	Corpus float64     `json:"corpus"`
	Lines  []LineScore `json:"lines"`
}

// LineScore is the similarity of one aligned line.
type LineScore struct {
	Line  int     `json:"line"`
	Score float64 `json:"score"`
}

func newScoreCmd() *cobra.Command {
	var (
		wer        bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "score <reference> <aligned>",
		Short: "Score an aligned hypothesis against its reference",
		Long: `Compute per-line and corpus similarity between a reference file and an
aligned hypothesis file with the same number of lines, using the same
metrics the aligner optimizes.`,
		Example: `  amanalign score ref.txt aligned.txt
  amanalign score --wer --json ref.txt aligned.txt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := scoring.PolicyBLEU
			if wer {
				policy = scoring.PolicyWER
			}
			report, err := scoreFiles(args[0], args[1], policy)
			if err != nil {
				return err
			}
			return printScoreReport(cmd, report, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&wer, "wer", "w", false, "Report 1-WER instead of BLEU")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func scoreFiles(refPath, alignedPath string, policy scoring.Policy) (*ScoreReport, error) {
	refs, err := corpus.ReadReferences(refPath)
	if err != nil {
		return nil, err
	}
	hyps, err := corpus.ReadSegments(alignedPath)
	if err != nil {
		return nil, err
	}
	if len(refs) != len(hyps) {
		return nil, amerrors.New(amerrors.ErrCodeLineMismatch,
			fmt.Sprintf("reference has %d lines, aligned file has %d", len(refs), len(hyps)), nil).
			WithSuggestion("Score the output of amanalign for this reference file")
	}

	scorer := scoring.New(policy, 0)
	report := &ScoreReport{
		Metric: policy.Label(),
		Corpus: scorer.CorpusSimilarity(refs, hyps),
		Lines:  make([]LineScore, len(refs)),
	}
	if policy == scoring.PolicyWER {
		report.Corpus = scoring.CorpusWER(refs, hyps)
	}
	for i := range refs {
		report.Lines[i] = LineScore{Line: i + 1, Score: scorer.Similarity(refs[i], hyps[i])}
	}
	return report, nil
}

func printScoreReport(cmd *cobra.Command, report *ScoreReport, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "LINE\t%s\n", report.Metric)
	for _, l := range report.Lines {
		fmt.Fprintf(tw, "%d\t%.4f\n", l.Line, l.Score)
	}
	fmt.Fprintf(tw, "corpus\t%.4f\n", report.Corpus)
	return tw.Flush()
}
