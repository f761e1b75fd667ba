package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Runs: one row per crawl invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    console TEXT NOT NULL,
    page_selector TEXT NOT NULL,         -- "3" or "all"
    total_records INTEGER DEFAULT 0,
    new_records INTEGER DEFAULT 0,
    failed_records INTEGER DEFAULT 0,
    duration_seconds REAL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_console ON runs(console);

-- Page fetches: every listing page requested during a run
CREATE TABLE IF NOT EXISTS page_fetches (
    fetch_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    page INTEGER NOT NULL,
    fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    record_count INTEGER DEFAULT 0,
    new_count INTEGER DEFAULT 0,
    status TEXT NOT NULL,                -- fetched, empty, repeat, failed
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_page_fetches_run ON page_fetches(run_id);
`
