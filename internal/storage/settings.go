package storage

import (
	"database/sql"
	"time"
)

// RuleSetting is a persisted administrative override for one rule. A nil
// Enabled or empty Severity means that field is not overridden.
type RuleSetting struct {
	RuleID    string    `json:"rule_id"`
	Enabled   *bool     `json:"enabled,omitempty"`
	Severity  string    `json:"severity,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertRuleSetting stores the latest override for a rule, merging with any
// existing row so toggling enabled does not clear a severity override.
func (db *DB) UpsertRuleSetting(ruleID string, enabled *bool, severity, updatedBy string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := db.conn.Exec(`
INSERT INTO rule_settings(rule_id, enabled, severity, updated_by, updated_at)
VALUES(?,?,?,?,?)
ON CONFLICT(rule_id) DO UPDATE SET
  enabled    = COALESCE(excluded.enabled, rule_settings.enabled),
  severity   = CASE WHEN excluded.severity != '' THEN excluded.severity ELSE rule_settings.severity END,
  updated_by = excluded.updated_by,
  updated_at = excluded.updated_at`,
		ruleID, nullBool(enabled), severity, updatedBy, now)
	return err
}

// ListRuleSettings returns all persisted overrides.
func (db *DB) ListRuleSettings() ([]RuleSetting, error) {
	rows, err := db.conn.Query(`SELECT rule_id, enabled, COALESCE(severity,''), COALESCE(updated_by,''), updated_at FROM rule_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RuleSetting
	for rows.Next() {
		var (
			s       RuleSetting
			enabled sql.NullInt64
			updated string
		)
		if err := rows.Scan(&s.RuleID, &enabled, &s.Severity, &s.UpdatedBy, &updated); err != nil {
			return nil, err
		}
		if enabled.Valid {
			b := enabled.Int64 != 0
			s.Enabled = &b
		}
		s.UpdatedAt = parseTS(updated)
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	if *b {
		return 1
	}
	return 0
}
