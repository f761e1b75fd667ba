package db

import (
	"fmt"
	"time"
)

// Run is one recorded crawl invocation.
type Run struct {
	RunID         int64
	StartedAt     time.Time
	Console       string
	PageSelector  string
	TotalRecords  int
	NewRecords    int
	FailedRecords int
	Duration      float64
}

// PageFetch is one listing page requested during a run.
type PageFetch struct {
	FetchID     int64
	RunID       int64
	Page        int
	FetchedAt   time.Time
	RecordCount int
	NewCount    int
	Status      string
}

// Page fetch statuses.
const (
	StatusFetched = "fetched"
	StatusEmpty   = "empty"
	StatusRepeat  = "repeat"
	StatusFailed  = "failed"
)

// InsertRun creates a run row and returns its id.
func (db *DB) InsertRun(console, pageSelector string) (int64, error) {
	result, err := db.Exec(
		"INSERT INTO runs (console, page_selector) VALUES (?, ?)",
		console, pageSelector,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return result.LastInsertId()
}

// FinishRun records the final counters of a run.
func (db *DB) FinishRun(runID int64, total, newCount, failed int, duration time.Duration) error {
	_, err := db.Exec(
		`UPDATE runs SET total_records = ?, new_records = ?, failed_records = ?, duration_seconds = ?
		 WHERE run_id = ?`,
		total, newCount, failed, duration.Seconds(), runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// InsertPageFetch records one page request of a run.
func (db *DB) InsertPageFetch(runID int64, page, recordCount, newCount int, status string) error {
	_, err := db.Exec(
		`INSERT INTO page_fetches (run_id, page, record_count, new_count, status)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, page, recordCount, newCount, status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert page fetch: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	rows, err := db.Query(
		`SELECT run_id, started_at, console, page_selector, total_records,
		        new_records, failed_records, duration_seconds
		 FROM runs ORDER BY run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.Console, &r.PageSelector,
			&r.TotalRecords, &r.NewRecords, &r.FailedRecords, &r.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunPages returns the page fetches of one run in request order.
func (db *DB) GetRunPages(runID int64) ([]PageFetch, error) {
	rows, err := db.Query(
		`SELECT fetch_id, run_id, page, fetched_at, record_count, new_count, status
		 FROM page_fetches WHERE run_id = ? ORDER BY fetch_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run pages: %w", err)
	}
	defer rows.Close()

	var fetches []PageFetch
	for rows.Next() {
		var f PageFetch
		if err := rows.Scan(&f.FetchID, &f.RunID, &f.Page, &f.FetchedAt,
			&f.RecordCount, &f.NewCount, &f.Status); err != nil {
			return nil, fmt.Errorf("failed to scan page fetch: %w", err)
		}
		fetches = append(fetches, f)
	}
	return fetches, rows.Err()
}
