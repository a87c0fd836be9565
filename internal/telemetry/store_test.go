package telemetry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *RunStore {
	t.Helper()

	s, err := OpenRunStore(filepath.Join(t.TempDir(), "stats", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRun(ref string, success bool, score float64, d time.Duration) RunRecord {
	return RunRecord{
		StartedAt:       time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC),
		Reference:       ref,
		Hypothesis:      "hyp.txt",
		Optimizer:       "bleu",
		BeamSize:        20,
		References:      3,
		HypothesisWords: 17,
		Success:         success,
		Score:           score,
		Expansions:      42,
		Restarts:        1,
		NodesCreated:    300,
		DurationMs:      d.Milliseconds(),
	}
}

func TestRunStore_SaveAndRecent(t *testing.T) {
	// Given: a store with two runs
	s := setupTestStore(t)
	id1, err := s.SaveRun(sampleRun("a.txt", true, 0.75, 50*time.Millisecond))
	require.NoError(t, err)
	id2, err := s.SaveRun(sampleRun("b.txt", false, 0, 2*time.Second))
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	// When: listing recent runs
	runs, err := s.RecentRuns(10)
	require.NoError(t, err)

	// Then: newest comes first and fields round-trip
	require.Len(t, runs, 2)
	assert.Equal(t, "b.txt", runs[0].Reference)
	assert.False(t, runs[0].Success)
	assert.Equal(t, "a.txt", runs[1].Reference)
	assert.True(t, runs[1].Success)
	assert.InDelta(t, 0.75, runs[1].Score, 1e-9)
	assert.Equal(t, 17, runs[1].HypothesisWords)
	assert.Equal(t, int64(50), runs[1].DurationMs)
	assert.True(t, runs[1].StartedAt.Equal(time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)))
	assert.NotEmpty(t, runs[1].RunID)
	assert.NotEqual(t, runs[0].RunID, runs[1].RunID)
}

func TestRunStore_SaveRun_KeepsRunID(t *testing.T) {
	s := setupTestStore(t)
	rec := sampleRun("a", true, 0.5, time.Millisecond)
	rec.RunID = "run-1"

	_, err := s.SaveRun(rec)
	require.NoError(t, err)
	_, err = s.SaveRun(rec)
	assert.Error(t, err, "run ids are unique")

	runs, err := s.RecentRuns(1)
	require.NoError(t, err)
	assert.Equal(t, "run-1", runs[0].RunID)
}

func TestRunStore_RecentRuns_Limit(t *testing.T) {
	s := setupTestStore(t)
	for i := 0; i < 5; i++ {
		_, err := s.SaveRun(sampleRun("r.txt", true, 0.5, time.Millisecond))
		require.NoError(t, err)
	}

	runs, err := s.RecentRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunStore_Summary(t *testing.T) {
	// Given: two successes and one failure
	s := setupTestStore(t)
	for _, r := range []RunRecord{
		sampleRun("a", true, 0.6, 10*time.Millisecond),
		sampleRun("b", true, 0.8, 3*time.Second),
		sampleRun("c", false, 0, 3*time.Second),
	} {
		_, err := s.SaveRun(r)
		require.NoError(t, err)
	}

	// When: summarizing
	sum, err := s.Summary()
	require.NoError(t, err)

	// Then: failures are excluded from the average score
	assert.Equal(t, int64(3), sum.Runs)
	assert.Equal(t, int64(2), sum.Succeeded)
	assert.InDelta(t, 0.7, sum.AvgScore, 1e-9)
	assert.Equal(t, int64(1), sum.Durations[BucketUnder100ms])
	assert.Equal(t, int64(2), sum.Durations[BucketUnder10s])
}

func TestRunStore_Summary_Empty(t *testing.T) {
	s := setupTestStore(t)

	sum, err := s.Summary()
	require.NoError(t, err)
	assert.Zero(t, sum.Runs)
	assert.Zero(t, sum.AvgScore)
}

func TestNewRunStore_NilDB(t *testing.T) {
	_, err := NewRunStore(nil)
	assert.Error(t, err)
}

func TestDurationToBucket(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want DurationBucket
	}{
		{0, BucketUnder100ms},
		{99 * time.Millisecond, BucketUnder100ms},
		{100 * time.Millisecond, BucketUnder1s},
		{time.Second, BucketUnder10s},
		{10 * time.Second, BucketUnder1m},
		{time.Minute, BucketOver1m},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, DurationToBucket(tt.d))
		})
	}
}
