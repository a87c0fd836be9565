package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
	"github.com/Aman-CERP/amanalign/internal/scoring"
)

func TestScoreFiles_WER(t *testing.T) {
	// Given: an aligned file with one perfect and one half-wrong line
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.txt", "a b\nc d\n")
	aligned := writeFile(t, dir, "aligned.txt", "a b\nc x\n")

	// When: scoring with WER
	report, err := scoreFiles(ref, aligned, scoring.PolicyWER)

	// Then: lines and corpus use 1-WER
	require.NoError(t, err)
	assert.Equal(t, "1-wer", report.Metric)
	require.Len(t, report.Lines, 2)
	assert.InDelta(t, 1.0, report.Lines[0].Score, 1e-9)
	assert.InDelta(t, 0.5, report.Lines[1].Score, 1e-9)
	assert.InDelta(t, 0.75, report.Corpus, 1e-9)
}

func TestScoreFiles_LineMismatch(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.txt", "a b\nc d\n")
	aligned := writeFile(t, dir, "aligned.txt", "a b c d\n")

	_, err := scoreFiles(ref, aligned, scoring.PolicyBLEU)

	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeLineMismatch, amerrors.GetCode(err))
}

func TestScoreCmd_JSON(t *testing.T) {
	dir := isolate(t)
	ref := writeFile(t, dir, "ref.txt", "the cat sat on the mat\n")
	aligned := writeFile(t, dir, "aligned.txt", "the cat sat on the mat\n")

	stdout, _, err := execute(t, "score", "--json", ref, aligned)

	require.NoError(t, err)
	var report ScoreReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "bleu", report.Metric)
	assert.InDelta(t, 1.0, report.Corpus, 1e-9)
	assert.Equal(t, 1, report.Lines[0].Line)
}

func TestScoreCmd_Table(t *testing.T) {
	dir := isolate(t)
	ref := writeFile(t, dir, "ref.txt", "a b\n")
	aligned := writeFile(t, dir, "aligned.txt", "a b\n")

	stdout, _, err := execute(t, "score", "-w", ref, aligned)

	require.NoError(t, err)
	assert.Contains(t, stdout, "LINE")
	assert.Contains(t, stdout, "1-wer")
	assert.Contains(t, stdout, "corpus")
	assert.Contains(t, stdout, "1.0000")
}
