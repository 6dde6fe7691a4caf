package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"
)

// DB is the concrete storage backed by SQLite.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures all tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id             TEXT PRIMARY KEY,
  started_at     TEXT,          -- RFC3339
  source         TEXT,
  channel        TEXT,
  profile        TEXT,
  engine_version TEXT,
  score          REAL,
  run_json       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS findings (
  run_id       TEXT NOT NULL,
  seq          INTEGER NOT NULL, -- registry order within the run
  rule_id      TEXT,
  rule_name    TEXT,
  category     TEXT,
  severity     TEXT,
  passed       INTEGER,
  needs_review INTEGER,
  message      TEXT,
  location     TEXT,
  details      TEXT,
  PRIMARY KEY (run_id, seq),
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
CREATE INDEX IF NOT EXISTS idx_findings_rule ON findings(rule_id);

CREATE TABLE IF NOT EXISTS rule_settings (
  rule_id    TEXT PRIMARY KEY,
  enabled    INTEGER,           -- NULL = no override
  severity   TEXT,              -- NULL/'' = no override
  updated_by TEXT,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'viewer',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS audit (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts TEXT NOT NULL,
  username TEXT,
  action TEXT NOT NULL,
  resource TEXT,
  meta_json TEXT
);

CREATE TABLE IF NOT EXISTS dismissals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  rule_id      TEXT NOT NULL,
  location_sub TEXT,             -- optional substring match on location
  pattern_sub  TEXT,             -- optional substring match on message/details
  reason       TEXT NOT NULL,
  expires_at   TEXT NOT NULL,    -- RFC3339Nano
  created_by   TEXT NOT NULL,
  created_at   TEXT NOT NULL,
  revoked_at   TEXT              -- NULL = active
);
`)
	return err
}

// SaveRun upserts a run JSON and (re)writes its findings.
func (db *DB) SaveRun(run *qa.Run) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	ts := run.StartedAt.UTC().Format(time.RFC3339Nano)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, started_at, source, channel, profile, engine_version, score, run_json)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET started_at=excluded.started_at, source=excluded.source,
           channel=excluded.channel, profile=excluded.profile,
           engine_version=excluded.engine_version, score=excluded.score, run_json=excluded.run_json`,
		run.ID, ts, run.Source, run.Channel, run.Profile, run.EngineVersion, run.Score, string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM findings WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	if len(run.Findings) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO findings
			(run_id, seq, rule_id, rule_name, category, severity, passed, needs_review, message, location, details)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, f := range run.Findings {
			if _, err := stmt.Exec(
				run.ID, i, f.RuleID, f.RuleName, f.Category, f.Severity,
				boolInt(f.Passed), boolInt(f.NeedsReview), f.Message, f.Location, f.Details,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadRun returns the full run (from stored JSON).
func (db *DB) LoadRun(id string) (qa.Run, error) {
	var s string
	row := db.conn.QueryRow(`SELECT run_json FROM runs WHERE id = ?`, id)
	if err := row.Scan(&s); err != nil {
		return qa.Run{}, err
	}
	var run qa.Run
	if err := json.Unmarshal([]byte(s), &run); err != nil {
		return qa.Run{}, err
	}
	return run, nil
}

// LoadLatestRun returns the most recently started run.
func (db *DB) LoadLatestRun() (qa.Run, error) {
	var s string
	row := db.conn.QueryRow(`SELECT run_json FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`)
	if err := row.Scan(&s); err != nil {
		return qa.Run{}, err
	}
	var run qa.Run
	if err := json.Unmarshal([]byte(s), &run); err != nil {
		return qa.Run{}, err
	}
	return run, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
