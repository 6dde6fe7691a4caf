package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "qa.db"))
	require.NoError(t, err)
	require.NoError(t, db.CreateSchema())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleRun(id string, started time.Time) qa.Run {
	return qa.Run{
		ID:            id,
		StartedAt:     started,
		Source:        "emails/spring-sale.txt",
		Channel:       "Email",
		Profile:       "DIRECT",
		EngineVersion: qa.Version,
		Score:         65,
		Findings: []qa.Finding{
			{RuleID: "em-unsubscribe", RuleName: "Unsubscribe link present", Category: "email", Severity: "critical", Message: "No opt-out found.", Location: "Footer"},
			{RuleID: "gen-break-even", RuleName: "Remove break-even phrase", Category: "general", Severity: "warning", Message: "Break-even phrasing found.", Location: "Body"},
			{RuleID: "gen-pricing-approved", RuleName: "Pricing matches approved sheet", Category: "general", Severity: "info", Passed: true, NeedsReview: true, Message: "Verify price.", Location: "Offer"},
		},
	}
}

func TestSaveLoadRunRoundtrip(t *testing.T) {
	db := openTestDB(t)
	started := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	run := sampleRun("run-1", started)
	require.NoError(t, db.SaveRun(&run))

	got, err := db.LoadRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Score, got.Score)
	assert.Equal(t, run.Findings, got.Findings)
	assert.True(t, run.StartedAt.Equal(got.StartedAt))

	_, err = db.LoadRun("missing")
	assert.Error(t, err)
}

func TestSaveRunUpsertReplacesFindings(t *testing.T) {
	db := openTestDB(t)
	run := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, db.SaveRun(&run))

	run.Score = 90
	run.Findings = run.Findings[:1]
	require.NoError(t, db.SaveRun(&run))

	got, err := db.LoadRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.Score)
	assert.Len(t, got.Findings, 1)

	fs, err := db.ListFindings("run-1", "")
	require.NoError(t, err)
	assert.Len(t, fs, 1, "stale finding rows must be gone after re-save")
}

func TestListRunsAndLatest(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run := sampleRun(id, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, db.SaveRun(&run))
	}

	rows, err := db.ListRuns(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "run-c", rows[0].ID, "newest first")
	assert.Equal(t, 3, rows[0].Findings)
	assert.Equal(t, "Email", rows[0].Channel)

	rows, err = db.ListRuns(1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "run-b", rows[0].ID)

	latest, err := db.LoadLatestRun()
	require.NoError(t, err)
	assert.Equal(t, "run-c", latest.ID)

	ok, err := db.HasRun("run-a")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = db.HasRun("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListFindingsSeverityFilter(t *testing.T) {
	db := openTestDB(t)
	run := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, db.SaveRun(&run))

	all, err := db.ListFindings("run-1", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "critical", all[0].Severity, "ordered most severe first")

	warnUp, err := db.ListFindings("run-1", "warning")
	require.NoError(t, err)
	require.Len(t, warnUp, 2)
	for _, f := range warnUp {
		assert.NotEqual(t, "info", f.Severity)
	}

	critOnly, err := db.ListFindings("run-1", "critical")
	require.NoError(t, err)
	require.Len(t, critOnly, 1)
	assert.Equal(t, "em-unsubscribe", critOnly[0].RuleID)
}

func TestRuleSettingsUpsertMerge(t *testing.T) {
	db := openTestDB(t)
	off := false

	require.NoError(t, db.UpsertRuleSetting("gen-break-even", &off, "", "admin"))
	require.NoError(t, db.UpsertRuleSetting("gen-break-even", nil, "critical", "admin"))

	settings, err := db.ListRuleSettings()
	require.NoError(t, err)
	require.Len(t, settings, 1)

	s := settings[0]
	assert.Equal(t, "gen-break-even", s.RuleID)
	require.NotNil(t, s.Enabled, "severity update must not clear the enabled override")
	assert.False(t, *s.Enabled)
	assert.Equal(t, "critical", s.Severity)
	assert.Equal(t, "admin", s.UpdatedBy)
	assert.False(t, s.UpdatedAt.IsZero())
}

func TestDismissalsLifecycle(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreateDismissal("gen-https-links", "", "example.com", "staging link", "admin", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	expired, err := db.CreateDismissal("gen-break-even", "", "", "old copy", "admin", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	active, err := db.ListDismissals(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, id, active[0].ID)
	assert.Equal(t, "example.com", active[0].PatternSub)
	assert.Nil(t, active[0].RevokedAt)

	all, err := db.ListDismissals(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	_ = expired

	require.NoError(t, db.RevokeDismissal(id))
	active, err = db.ListDismissals(true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err = db.ListDismissals(false)
	require.NoError(t, err)
	for _, d := range all {
		if d.ID == id {
			assert.NotNil(t, d.RevokedAt)
		}
	}
}

func TestUsersAndSessions(t *testing.T) {
	db := openTestDB(t)

	n, err := db.CountUsers()
	require.NoError(t, err)
	assert.Zero(t, n)

	uid, err := db.CreateUser("dana", "hash-value", "admin")
	require.NoError(t, err)

	_, err = db.CreateUser("dana", "other", "viewer")
	assert.Error(t, err, "usernames are unique")

	u, hash, err := db.GetUserByUsername("dana")
	require.NoError(t, err)
	assert.Equal(t, uid, u.ID)
	assert.Equal(t, "admin", u.Role)
	assert.Equal(t, "hash-value", hash)

	require.NoError(t, db.CreateSession(uid, "tok-1", time.Now().Add(time.Hour)))
	got, err := db.GetSession("tok-1")
	require.NoError(t, err)
	assert.Equal(t, "dana", got.Username)

	require.NoError(t, db.CreateSession(uid, "tok-old", time.Now().Add(-time.Minute)))
	_, err = db.GetSession("tok-old")
	assert.Error(t, err, "expired sessions do not resolve")

	require.NoError(t, db.DeleteSession("tok-1"))
	_, err = db.GetSession("tok-1")
	assert.Error(t, err)
	assert.Error(t, db.DeleteSession("tok-1"), "double delete reports no rows")

	require.NoError(t, db.LogAudit("dana", "login", "", map[string]any{"ip": "127.0.0.1"}))
}
