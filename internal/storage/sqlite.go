// Package storage keeps per-generation run statistics in SQLite. Genomes and
// populations are never stored; every run starts from generation 1.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"smartrockets/internal/ga"
)

// RunRecord describes one training run
type RunRecord struct {
	ID        string
	StartedAt time.Time
	Config    string
}

// GenerationRecord is one stored generation summary
type GenerationRecord struct {
	RunID       string
	Generation  int
	SuccessRate float64
	BestFitness float64
	MeanFitness float64
	Hits        int
	Crashes     int
	Exhausted   int
}

// SQLiteStore keeps run history in a single SQLite file
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore returns a store for path. Nothing is opened until Init.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database, creating the file and schema when missing.
// Calling it again on an open store is a no-op.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if s.path == "" {
		return errors.New("sqlite path is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	db, err := openDB(ctx, s.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	s.db = db
	return nil
}

// openDB connects with foreign keys on and a single writer connection,
// then makes sure the schema exists.
func openDB(ctx context.Context, path string) (*sql.DB, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// CreateRun registers a new run with its effective config and returns its ID
func (s *SQLiteStore) CreateRun(ctx context.Context, configYAML string) (string, error) {
	db, err := s.getDB()
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, config)
		VALUES (?, ?, ?)
	`, id, time.Now().UTC().Format(time.RFC3339Nano), configYAML)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// SaveGeneration stores one summary, replacing an earlier row for the same
// generation of the run
func (s *SQLiteStore) SaveGeneration(ctx context.Context, runID string, summary ga.Summary) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, success_rate, best_fitness, mean_fitness, hits, crashes, exhausted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			success_rate = excluded.success_rate,
			best_fitness = excluded.best_fitness,
			mean_fitness = excluded.mean_fitness,
			hits = excluded.hits,
			crashes = excluded.crashes,
			exhausted = excluded.exhausted
	`, runID, summary.Generation, summary.SuccessRate, summary.BestFitness, summary.MeanFitness,
		summary.Outcomes.Hits, summary.Outcomes.Crashes, summary.Outcomes.Exhausted)
	if err != nil {
		return fmt.Errorf("save generation %d of run %s: %w", summary.Generation, runID, err)
	}
	return nil
}

// Generations returns the stored summaries of a run in generation order
func (s *SQLiteStore) Generations(ctx context.Context, runID string) ([]GenerationRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT run_id, generation, success_rate, best_fitness, mean_fitness, hits, crashes, exhausted
		FROM generations WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GenerationRecord
	for rows.Next() {
		var rec GenerationRecord
		if err := rows.Scan(&rec.RunID, &rec.Generation, &rec.SuccessRate, &rec.BestFitness,
			&rec.MeanFitness, &rec.Hits, &rec.Crashes, &rec.Exhausted); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetRun looks up a run by ID. The bool is false when no such run exists.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return RunRecord{}, false, err
	}

	var (
		rec     RunRecord
		started string
	)
	err = db.QueryRowContext(ctx, `SELECT id, started_at, config FROM runs WHERE id = ?`, id).
		Scan(&rec.ID, &started, &rec.Config)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, err
	}

	rec.StartedAt, err = time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return RunRecord{}, false, fmt.Errorf("decode run %s start time: %w", id, err)
	}
	return rec, true, nil
}

// Close releases the database. The store can be opened again with Init.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// ForRun returns a sink that stores every summary under runID
func (s *SQLiteStore) ForRun(runID string) *RunSink {
	return &RunSink{store: s, runID: runID}
}

// RunSink binds the store to one run
type RunSink struct {
	store *SQLiteStore
	runID string
}

// RunID returns the bound run
func (r *RunSink) RunID() string {
	return r.runID
}

// Record stores the summary
func (r *RunSink) Record(ctx context.Context, summary ga.Summary) error {
	return r.store.SaveGeneration(ctx, r.runID, summary)
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			config TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL REFERENCES runs(id),
			generation INTEGER NOT NULL,
			success_rate REAL NOT NULL,
			best_fitness REAL NOT NULL,
			mean_fitness REAL NOT NULL,
			hits INTEGER NOT NULL,
			crashes INTEGER NOT NULL,
			exhausted INTEGER NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}
