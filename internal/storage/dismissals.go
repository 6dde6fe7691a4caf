package storage

import (
	"database/sql"
	"time"
)

// Dismissal suppresses findings a reviewer has accepted: matched by rule id
// plus optional location/pattern substrings, until it expires or is revoked.
type Dismissal struct {
	ID          int64      `json:"id"`
	RuleID      string     `json:"rule_id"`
	LocationSub string     `json:"location_sub,omitempty"`
	PatternSub  string     `json:"pattern_sub,omitempty"`
	Reason      string     `json:"reason"`
	ExpiresAt   time.Time  `json:"expires_at"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

func (db *DB) CreateDismissal(ruleID, locationSub, patternSub, reason, createdBy string, expires time.Time) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := db.conn.Exec(`
INSERT INTO dismissals(rule_id, location_sub, pattern_sub, reason, expires_at, created_by, created_at)
VALUES(?,?,?,?,?,?,?)`,
		ruleID, nz(locationSub), nz(patternSub), reason, expires.UTC().Format(time.RFC3339Nano), createdBy, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (db *DB) RevokeDismissal(id int64) error {
	_, err := db.conn.Exec(`UPDATE dismissals SET revoked_at=? WHERE id=? AND revoked_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339Nano), id)
	return err
}

func (db *DB) ListDismissals(activeOnly bool) ([]Dismissal, error) {
	q := `
SELECT id, rule_id, COALESCE(location_sub,''), COALESCE(pattern_sub,''),
       reason, expires_at, created_by, created_at, revoked_at
FROM dismissals`
	args := []any{}
	if activeOnly {
		q += ` WHERE (revoked_at IS NULL) AND (expires_at > ?)`
		args = append(args, time.Now().UTC().Format(time.RFC3339Nano))
	}
	q += ` ORDER BY id DESC`
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Dismissal
	for rows.Next() {
		var (
			d           Dismissal
			exp, ca, ra sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.RuleID, &d.LocationSub, &d.PatternSub, &d.Reason, &exp, &d.CreatedBy, &ca, &ra); err != nil {
			return nil, err
		}
		if exp.Valid {
			d.ExpiresAt = parseTS(exp.String)
		}
		if ca.Valid {
			d.CreatedAt = parseTS(ca.String)
		}
		if ra.Valid {
			t := parseTS(ra.String)
			d.RevokedAt = &t
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func nz(s string) any {
	if s == "" {
		return nil
	}
	return s
}
