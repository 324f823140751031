// Package sqlite persists finished analyses in a local SQLite database so
// repeated runs over the same simulation output can be compared later
// without re-reading the raw parquet tables.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel"
	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel/clock"
)

// ResultStore interface for persisting and querying finished analyses
type ResultStore interface {
	SaveAnalysis(mm *multimodel.MultiModel) (int64, error)
	RecentAnalyses(metric string, limit int) ([]AnalysisRecord, error)
	WindowValues(analysisID int64) ([]WindowRecord, error)
	Cleanup(retentionDays int) error
	Close() error
}

// AnalysisRecord is one stored analysis summary
type AnalysisRecord struct {
	ID          int64
	Metric      string
	Unit        string
	WindowSize  int
	Aggregation string
	Runs        int
	UpperBound  float64
	CreatedAt   time.Time
}

// WindowRecord is one reduced window value of a stored analysis
type WindowRecord struct {
	Run         string
	RunIndex    int
	WindowIndex int
	Value       float64
}

// Store implements ResultStore using SQLite for local persistence
type Store struct {
	db       *sql.DB
	dbPath   string
	clock    clock.Clock
	mutex    sync.RWMutex
	prepared map[string]*sql.Stmt
}

// NewStore creates a SQLite-backed result store. A nil clock falls back to
// the real one.
func NewStore(dbPath string, clk clock.Clock) (*Store, error) {
	if clk == nil {
		clk = clock.RealClock{}
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_sync=NORMAL&_cache=shared")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	store := &Store{
		db:       db,
		dbPath:   dbPath,
		clock:    clk,
		prepared: make(map[string]*sql.Stmt),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %v", err)
	}

	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %v", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		metric TEXT NOT NULL,
		unit TEXT NOT NULL,
		window_size INTEGER NOT NULL,
		aggregation TEXT NOT NULL,
		runs INTEGER NOT NULL,
		y_axis_upper_bound REAL NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analysis_windows (
		analysis_id INTEGER NOT NULL,
		run TEXT NOT NULL,
		run_index INTEGER NOT NULL,
		window_index INTEGER NOT NULL,
		value REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_metric_created ON analyses(metric, created_at);
	CREATE INDEX IF NOT EXISTS idx_windows_analysis ON analysis_windows(analysis_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) prepareStatements() error {
	statements := map[string]string{
		"insert_analysis": `
			INSERT INTO analyses (
				metric, unit, window_size, aggregation, runs, y_axis_upper_bound, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
		"insert_window": `
			INSERT INTO analysis_windows (
				analysis_id, run, run_index, window_index, value
			) VALUES (?, ?, ?, ?, ?)
		`,
		"select_recent": `
			SELECT id, metric, unit, window_size, aggregation, runs, y_axis_upper_bound, created_at
			FROM analyses
			WHERE metric = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		`,
		"select_windows": `
			SELECT run, run_index, window_index, value
			FROM analysis_windows
			WHERE analysis_id = ?
			ORDER BY run_index ASC, window_index ASC
		`,
		"cleanup": `
			DELETE FROM analyses
			WHERE created_at < ?
		`,
		"cleanup_windows": `
			DELETE FROM analysis_windows
			WHERE analysis_id NOT IN (SELECT id FROM analyses)
		`,
	}

	for name, query := range statements {
		stmt, err := s.db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %v", name, err)
		}
		s.prepared[name] = stmt
	}

	return nil
}

// SaveAnalysis stores the analysis summary and every reduced window value
// in one transaction, returning the new analysis id.
func (s *Store) SaveAnalysis(mm *multimodel.MultiModel) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	bound, err := mm.UpperBound()
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	res, err := tx.Stmt(s.prepared["insert_analysis"]).Exec(
		mm.Metric.String(),
		mm.Unit,
		mm.WindowSize,
		mm.Aggregation,
		len(mm.Reduced),
		bound,
		s.clock.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to store analysis: %v", err)
	}

	analysisID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read analysis id: %v", err)
	}

	insertWindow := tx.Stmt(s.prepared["insert_window"])
	for runIndex, reduced := range mm.Reduced {
		for windowIndex, value := range reduced.Values {
			if _, err := insertWindow.Exec(analysisID, reduced.Run, runIndex, windowIndex, value); err != nil {
				return 0, fmt.Errorf("failed to store window value: %v", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit analysis: %v", err)
	}

	klog.V(2).InfoS("Stored analysis",
		"id", analysisID,
		"metric", mm.Metric,
		"runs", len(mm.Reduced))
	return analysisID, nil
}

// RecentAnalyses returns the newest stored analyses for a metric
func (s *Store) RecentAnalyses(metric string, limit int) ([]AnalysisRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rows, err := s.prepared["select_recent"].Query(metric, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %v", err)
	}
	defer rows.Close()

	var records []AnalysisRecord
	for rows.Next() {
		var record AnalysisRecord
		if err := rows.Scan(
			&record.ID,
			&record.Metric,
			&record.Unit,
			&record.WindowSize,
			&record.Aggregation,
			&record.Runs,
			&record.UpperBound,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return records, nil
}

// WindowValues returns the reduced window values of one stored analysis,
// ordered by run then window index.
func (s *Store) WindowValues(analysisID int64) ([]WindowRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rows, err := s.prepared["select_windows"].Query(analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to query window values: %v", err)
	}
	defer rows.Close()

	var records []WindowRecord
	for rows.Next() {
		var record WindowRecord
		if err := rows.Scan(&record.Run, &record.RunIndex, &record.WindowIndex, &record.Value); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return records, nil
}

// Cleanup removes analyses older than the retention period together with
// their window values.
func (s *Store) Cleanup(retentionDays int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoffTime := s.clock.Now().UTC().AddDate(0, 0, -retentionDays)
	result, err := s.prepared["cleanup"].Exec(cutoffTime)
	if err != nil {
		return fmt.Errorf("failed to cleanup old analyses: %v", err)
	}
	if _, err := s.prepared["cleanup_windows"].Exec(); err != nil {
		return fmt.Errorf("failed to cleanup orphaned windows: %v", err)
	}

	rowsAffected, _ := result.RowsAffected()
	klog.V(2).InfoS("Cleaned up old analyses",
		"cutoff", cutoffTime,
		"rowsDeleted", rowsAffected)

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, stmt := range s.prepared {
		stmt.Close()
	}

	return s.db.Close()
}
