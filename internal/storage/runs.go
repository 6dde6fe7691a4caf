package storage

import (
	"database/sql"
	"time"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"
)

// RunRow is a lightweight listing row for /runs.
type RunRow struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Source    string    `json:"source,omitempty"`
	Channel   string    `json:"channel,omitempty"`
	Profile   string    `json:"profile,omitempty"`
	Score     float64   `json:"score"`
	Findings  int       `json:"findings"`
}

// ListRuns returns a lightweight list of runs with finding counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, COALESCE(r.source,''), COALESCE(r.channel,''), COALESCE(r.profile,''), COALESCE(r.score,0),
		       (SELECT COUNT(1) FROM findings f WHERE f.run_id = r.id) AS findings
		  FROM runs r
		 ORDER BY r.started_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var startedAt string
		if err := rows.Scan(&rr.ID, &startedAt, &rr.Source, &rr.Channel, &rr.Profile, &rr.Score, &rr.Findings); err != nil {
			return nil, err
		}
		rr.StartedAt = parseTS(startedAt)
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListFindings returns findings for a run at or above a minimum severity,
// ordered by severity then registry order.
func (db *DB) ListFindings(runID, minSeverity string) ([]qa.Finding, error) {
	const q = `
		SELECT rule_id, rule_name, category, severity, passed, needs_review, message, location, details
		  FROM findings
		 WHERE run_id = ?
		   AND (CASE severity WHEN 'critical' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END)
		       >= (CASE ? WHEN 'critical' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END)
		 ORDER BY
		       (CASE severity WHEN 'critical' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END) DESC,
		       seq`
	rows, err := db.conn.Query(q, runID, minSeverity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []qa.Finding
	for rows.Next() {
		var f qa.Finding
		var passed, review int
		if err := rows.Scan(&f.RuleID, &f.RuleName, &f.Category, &f.Severity, &passed, &review, &f.Message, &f.Location, &f.Details); err != nil {
			return nil, err
		}
		f.Passed = passed != 0
		f.NeedsReview = review != 0
		out = append(out, f)
	}
	return out, rows.Err()
}

// HasRun reports whether a run id exists.
func (db *DB) HasRun(id string) (bool, error) {
	var one int
	err := db.conn.QueryRow(`SELECT 1 FROM runs WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// parseTS parses RFC3339Nano with an RFC3339 fallback, zero time otherwise.
func parseTS(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
