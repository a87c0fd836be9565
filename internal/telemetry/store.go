package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// RunRecord is one alignment run.
type RunRecord struct {
	ID              int64     `json:"id"`
	RunID           string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	Reference       string    `json:"reference"`
	Hypothesis      string    `json:"hypothesis"`
	Optimizer       string    `json:"optimizer"`
	BeamSize        int       `json:"beam_size"`
	References      int       `json:"references"`
	HypothesisWords int       `json:"hypothesis_words"`
	Success         bool      `json:"success"`
	Score           float64   `json:"score"`
	Expansions      int       `json:"expansions"`
	Restarts        int       `json:"restarts"`
	NodesCreated    int       `json:"nodes_created"`
	DurationMs      int64     `json:"duration_ms"`
}

// Summary aggregates the recorded runs.
type Summary struct {
	Runs      int64                    `json:"runs"`
	Succeeded int64                    `json:"succeeded"`
	AvgScore  float64                  `json:"avg_score"`
	Durations map[DurationBucket]int64 `json:"durations"`
}

// RunStore persists RunRecords in SQLite.
type RunStore struct {
	db *sql.DB
}

// OpenRunStore opens (creating if needed) the run history at path.
func OpenRunStore(path string) (*RunStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create stats directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open stats database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s, err := NewRunStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.InitSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewRunStore wraps an open database. The caller owns db.
func NewRunStore(db *sql.DB) (*RunStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &RunStore{db: db}, nil
}

// InitSchema creates the run table if it doesn't exist.
func (s *RunStore) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS align_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		started_at TIMESTAMP NOT NULL,
		reference TEXT NOT NULL,
		hypothesis TEXT NOT NULL,
		optimizer TEXT NOT NULL,
		beam_size INTEGER NOT NULL,
		refs INTEGER NOT NULL,
		hyp_words INTEGER NOT NULL,
		success INTEGER NOT NULL,
		score REAL NOT NULL,
		expansions INTEGER NOT NULL,
		restarts INTEGER NOT NULL,
		nodes_created INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_align_runs_started ON align_runs(started_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create telemetry schema: %w", err)
	}
	return nil
}

// SaveRun inserts r and returns its row id. A missing RunID is generated.
func (s *RunStore) SaveRun(r RunRecord) (int64, error) {
	if r.RunID == "" {
		r.RunID = uuid.New().String()
	}
	res, err := s.db.Exec(`
		INSERT INTO align_runs (
			run_id, started_at, reference, hypothesis, optimizer, beam_size, refs, hyp_words,
			success, score, expansions, restarts, nodes_created, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.RunID, r.StartedAt.UTC(), r.Reference, r.Hypothesis, r.Optimizer, r.BeamSize, r.References,
		r.HypothesisWords, r.Success, r.Score, r.Expansions, r.Restarts, r.NodesCreated, r.DurationMs)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// RecentRuns returns up to limit runs, newest first.
func (s *RunStore) RecentRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, started_at, reference, hypothesis, optimizer, beam_size, refs, hyp_words,
			success, score, expansions, restarts, nodes_created, duration_ms
		FROM align_runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.RunID, &r.StartedAt, &r.Reference, &r.Hypothesis, &r.Optimizer,
			&r.BeamSize, &r.References, &r.HypothesisWords, &r.Success, &r.Score,
			&r.Expansions, &r.Restarts, &r.NodesCreated, &r.DurationMs); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Summary aggregates every recorded run.
func (s *RunStore) Summary() (Summary, error) {
	sum := Summary{Durations: make(map[DurationBucket]int64)}

	var avg sql.NullFloat64
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(success), 0), AVG(CASE WHEN success THEN score END)
		FROM align_runs
	`).Scan(&sum.Runs, &sum.Succeeded, &avg)
	if err != nil {
		return sum, fmt.Errorf("query run summary: %w", err)
	}
	sum.AvgScore = avg.Float64

	rows, err := s.db.Query(`SELECT duration_ms FROM align_runs`)
	if err != nil {
		return sum, fmt.Errorf("query run durations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return sum, fmt.Errorf("scan row: %w", err)
		}
		sum.Durations[DurationToBucket(time.Duration(ms)*time.Millisecond)]++
	}
	return sum, rows.Err()
}

// Close closes the database.
func (s *RunStore) Close() error {
	return s.db.Close()
}
