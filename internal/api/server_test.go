package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/rules"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/security"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/storage"
)

// stubStore keeps everything in memory for handler tests.
type stubStore struct {
	runs       map[string]qa.Run
	lastRunID  string
	settings   []storage.RuleSetting
	dismissals []storage.Dismissal
	nextID     int64
}

func newStubStore() *stubStore {
	return &stubStore{runs: map[string]qa.Run{}, nextID: 1}
}

func (st *stubStore) SaveRun(run *qa.Run) error {
	st.runs[run.ID] = *run
	st.lastRunID = run.ID
	return nil
}

func (st *stubStore) ListRuns(limit, offset int) ([]storage.RunRow, error) {
	var out []storage.RunRow
	for id, r := range st.runs {
		out = append(out, storage.RunRow{ID: id, StartedAt: r.StartedAt, Score: r.Score, Findings: len(r.Findings)})
	}
	return out, nil
}

func (st *stubStore) LoadRun(id string) (qa.Run, error) {
	r, ok := st.runs[id]
	if !ok {
		return qa.Run{}, errors.New("not found")
	}
	return r, nil
}

func (st *stubStore) LoadLatestRun() (qa.Run, error) {
	return st.LoadRun(st.lastRunID)
}

func (st *stubStore) ListFindings(runID, minSeverity string) ([]qa.Finding, error) {
	r, err := st.LoadRun(runID)
	if err != nil {
		return nil, err
	}
	return r.Findings, nil
}

func (st *stubStore) UpsertRuleSetting(ruleID string, enabled *bool, severity, updatedBy string) error {
	st.settings = append(st.settings, storage.RuleSetting{RuleID: ruleID, Enabled: enabled, Severity: severity, UpdatedBy: updatedBy})
	return nil
}

func (st *stubStore) ListDismissals(activeOnly bool) ([]storage.Dismissal, error) {
	return st.dismissals, nil
}

func (st *stubStore) CreateDismissal(ruleID, locationSub, patternSub, reason, createdBy string, expires time.Time) (int64, error) {
	id := st.nextID
	st.nextID++
	st.dismissals = append(st.dismissals, storage.Dismissal{
		ID: id, RuleID: ruleID, LocationSub: locationSub, PatternSub: patternSub,
		Reason: reason, CreatedBy: createdBy, ExpiresAt: expires,
	})
	return id, nil
}

func (st *stubStore) RevokeDismissal(id int64) error {
	for i := range st.dismissals {
		if st.dismissals[i].ID == id {
			now := time.Now()
			st.dismissals[i].RevokedAt = &now
			return nil
		}
	}
	return errors.New("not found")
}

// stubUsers backs auth with a fixed user table and in-memory sessions.
type stubUsers struct {
	users    map[string]storage.User
	hashes   map[string]string
	sessions map[string]storage.User
	audits   []string
}

func newStubUsers(t *testing.T) *stubUsers {
	t.Helper()
	adminHash, err := security.HashPassword("admin-pass")
	require.NoError(t, err)
	viewerHash, err := security.HashPassword("viewer-pass")
	require.NoError(t, err)
	return &stubUsers{
		users: map[string]storage.User{
			"admin": {ID: 1, Username: "admin", Role: "admin"},
			"dana":  {ID: 2, Username: "dana", Role: "viewer"},
		},
		hashes:   map[string]string{"admin": adminHash, "dana": viewerHash},
		sessions: map[string]storage.User{},
	}
}

func (su *stubUsers) GetUserByUsername(name string) (storage.User, string, error) {
	u, ok := su.users[name]
	if !ok {
		return storage.User{}, "", errors.New("not found")
	}
	return u, su.hashes[name], nil
}

func (su *stubUsers) CreateSession(userID int64, token string, _ time.Time) error {
	for _, u := range su.users {
		if u.ID == userID {
			su.sessions[token] = u
			return nil
		}
	}
	return errors.New("unknown user")
}

func (su *stubUsers) GetSession(token string) (storage.User, error) {
	u, ok := su.sessions[token]
	if !ok {
		return storage.User{}, errors.New("no session")
	}
	return u, nil
}

func (su *stubUsers) DeleteSession(token string) error {
	delete(su.sessions, token)
	return nil
}

func (su *stubUsers) LogAudit(username, action, resource string, meta map[string]any) error {
	su.audits = append(su.audits, username+":"+action)
	return nil
}

func newTestServer(t *testing.T) (*Server, *stubStore, *stubUsers) {
	t.Helper()
	reg, errs := rules.NewRegistry(rules.Builtin(), nil)
	require.Empty(t, errs)
	store := newStubStore()
	users := newStubUsers(t)
	srv := &Server{
		DB:              store,
		UserStore:       users,
		Rules:           reg,
		Logger:          slog.Default(),
		SessionDuration: time.Hour,
	}
	return srv, store, users
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func sessionFor(su *stubUsers, username string) *http.Cookie {
	tok := "tok-" + username
	su.sessions[tok] = su.users[username]
	return &http.Cookie{Name: sessionCookie, Value: tok}
}

func TestCORSAllowedOrigins(t *testing.T) {
	srv, _, _ := newTestServer(t)
	srv.AllowedOrigins = []string{"https://reviews.nativepath.com"}
	h := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://reviews.nativepath.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "https://reviews.nativepath.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), "unlisted origins get no CORS grant")

	// wildcard and unset allow-lists stay open
	srv.AllowedOrigins = []string{"*"}
	w = doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	srv.AllowedOrigins = nil
	w = doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	// preflight short-circuits
	req = httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
	w = httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK    bool `json:"ok"`
		Rules int  `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, srv.Rules.Len(), resp.Rules)
}

func TestRunQA(t *testing.T) {
	srv, store, _ := newTestServer(t)
	h := srv.Routes()

	body := map[string]any{
		"content": "You'll break even after two bottles! Unsubscribe anytime. NativePath, 123 Main St.",
		"channel": "Email",
		"source":  "drafts/spring.txt",
	}
	w := doJSON(t, h, http.MethodPost, "/api/v1/qa", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Run       qa.Run `json:"run"`
		Persisted bool   `json:"persisted"`
		Dismissed int    `json:"dismissed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Persisted)
	assert.Equal(t, "DIRECT", resp.Run.Profile)
	assert.Less(t, resp.Run.Score, 100.0)

	var hit bool
	for _, f := range resp.Run.Findings {
		if f.RuleID == "gen-break-even" {
			hit = true
		}
		assert.NotEqual(t, "lp-no-abandon-code-acq", f.RuleID)
	}
	assert.True(t, hit, "break-even copy must surface a finding")
	assert.Contains(t, store.runs, resp.Run.ID)
}

func TestRunQA_NoPersist(t *testing.T) {
	srv, store, _ := newTestServer(t)
	f := false
	w := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/qa",
		map[string]any{"content": "clean copy", "channel": "Email", "persist": &f}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.runs)
}

func TestRunQA_BadRequests(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Routes()

	w := doJSON(t, h, http.MethodPost, "/api/v1/qa", map[string]any{"channel": "Email"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/qa", bytes.NewBufferString("{broken"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunQA_AppliesDismissals(t *testing.T) {
	srv, store, _ := newTestServer(t)
	store.dismissals = []storage.Dismissal{{ID: 1, RuleID: "gen-break-even"}}

	w := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/qa",
		map[string]any{"content": "break even fast", "channel": "Email"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Run       qa.Run `json:"run"`
		Dismissed int    `json:"dismissed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Dismissed)
	for _, f := range resp.Run.Findings {
		assert.NotEqual(t, "gen-break-even", f.RuleID)
	}
}

func TestGetRunAndLatest(t *testing.T) {
	srv, store, _ := newTestServer(t)
	h := srv.Routes()
	run := qa.Run{ID: "run-1", StartedAt: time.Now().UTC(), Score: 88}
	require.NoError(t, store.SaveRun(&run))

	w := doJSON(t, h, http.MethodGet, "/api/v1/runs/run-1", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/runs/latest", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/runs/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRules(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.Routes()

	w := doJSON(t, h, http.MethodGet, "/api/v1/rules", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count int          `json:"count"`
		Items []rules.Rule `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, len(rules.Builtin()), resp.Count)

	w = doJSON(t, h, http.MethodGet, "/api/v1/rules?channel=SMS", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, r := range resp.Items {
		assert.NotEqual(t, "lp-cta-present", r.ID, "acquisition rules are out of SMS scope")
	}

	w = doJSON(t, h, http.MethodGet, "/api/v1/rules/em-unsubscribe", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, h, http.MethodGet, "/api/v1/rules/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRuleSettingsAuth(t *testing.T) {
	srv, store, users := newTestServer(t)
	h := srv.Routes()
	off := false
	body := map[string]any{"enabled": &off}

	// anonymous
	w := doJSON(t, h, http.MethodPost, "/api/v1/rules/gen-break-even/settings", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// non-admin
	w = doJSON(t, h, http.MethodPost, "/api/v1/rules/gen-break-even/settings", body, sessionFor(users, "dana"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// admin
	w = doJSON(t, h, http.MethodPost, "/api/v1/rules/gen-break-even/settings", body, sessionFor(users, "admin"))
	require.Equal(t, http.StatusOK, w.Code)

	rule, ok := srv.Rules.Get("gen-break-even")
	require.True(t, ok)
	assert.False(t, rule.Enabled)
	require.Len(t, store.settings, 1)
	assert.Equal(t, "admin", store.settings[0].UpdatedBy)
}

func TestRuleSettingsValidation(t *testing.T) {
	srv, _, users := newTestServer(t)
	h := srv.Routes()
	admin := sessionFor(users, "admin")

	w := doJSON(t, h, http.MethodPost, "/api/v1/rules/gen-break-even/settings", map[string]any{}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/rules/gen-break-even/settings", map[string]any{"severity": "fatal"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/rules/nope/settings", map[string]any{"severity": "info"}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginFlow(t *testing.T) {
	srv, _, users := newTestServer(t)
	h := srv.Routes()

	w := doJSON(t, h, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "admin", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "admin", "password": "admin-pass"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login must set the session cookie")

	w = doJSON(t, h, http.MethodGet, "/api/v1/me", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var me meResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "admin", me.Username)
	assert.Equal(t, "admin", me.Role)

	w = doJSON(t, h, http.MethodPost, "/api/v1/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, users.sessions, cookie.Value)

	w = doJSON(t, h, http.MethodGet, "/api/v1/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDismissalEndpoints(t *testing.T) {
	srv, store, users := newTestServer(t)
	h := srv.Routes()
	admin := sessionFor(users, "admin")

	w := doJSON(t, h, http.MethodPost, "/api/v1/dismissals", map[string]string{
		"rule_id":    "gen-https-links",
		"reason":     "staging links are expected in previews",
		"expires_at": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/dismissals", map[string]string{
		"rule_id": "no-such-rule", "reason": "x", "expires_at": time.Now().Format(time.RFC3339),
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code, "dismissals must reference a known rule")

	w = doJSON(t, h, http.MethodGet, "/api/v1/dismissals", nil, sessionFor(users, "dana"))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/dismissals/1/revoke", nil, sessionFor(users, "dana"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/dismissals/1/revoke", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.dismissals, 1)
	assert.NotNil(t, store.dismissals[0].RevokedAt)
}
