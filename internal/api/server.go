package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/rules"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/storage"
)

// Store is the minimal persistence contract the API needs.
type Store interface {
	SaveRun(run *qa.Run) error
	ListRuns(limit, offset int) ([]storage.RunRow, error)
	LoadRun(id string) (qa.Run, error)
	LoadLatestRun() (qa.Run, error)
	ListFindings(runID, minSeverity string) ([]qa.Finding, error)

	UpsertRuleSetting(ruleID string, enabled *bool, severity, updatedBy string) error

	ListDismissals(activeOnly bool) ([]storage.Dismissal, error)
	CreateDismissal(ruleID, locationSub, patternSub, reason, createdBy string, expires time.Time) (int64, error)
	RevokeDismissal(id int64) error
}

// UserStore is the auth/audit contract the API uses.
type UserStore interface {
	GetUserByUsername(string) (storage.User, string, error)
	CreateSession(int64, string, time.Time) error
	GetSession(string) (storage.User, error)
	DeleteSession(string) error
	LogAudit(username, action, resource string, meta map[string]any) error
}

type Server struct {
	DB              Store
	UserStore       UserStore
	Rules           *rules.Registry
	Logger          *slog.Logger
	AllowedOrigins  []string
	SessionDuration time.Duration
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	withCORS := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if origin := s.corsOrigin(r); origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS, POST")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			h(w, r)
		}
	}

	// Health
	mux.HandleFunc("GET /api/v1/health", withCORS(s.handleHealth))

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", withCORS(s.handleLogin))
	mux.HandleFunc("POST /api/v1/auth/logout", withCORS(withAuth(s, s.handleLogout, "auth:logout")))
	mux.HandleFunc("GET /api/v1/me", withCORS(withAuth(s, s.handleMe, "me")))

	// QA runs
	mux.HandleFunc("POST /api/v1/qa", withCORS(s.handleRunQA))
	mux.HandleFunc("GET /api/v1/runs", withCORS(s.handleListRuns))
	mux.HandleFunc("GET /api/v1/runs/latest", withCORS(s.handleGetLatest))
	mux.HandleFunc("GET /api/v1/runs/{id}", withCORS(s.handleGetRun))
	mux.HandleFunc("GET /api/v1/runs/{id}/findings", withCORS(s.handleListFindings))

	// Rules inventory + settings
	mux.HandleFunc("GET /api/v1/rules", withCORS(s.handleListRules))
	mux.HandleFunc("GET /api/v1/rules/{id}", withCORS(s.handleGetRule))
	mux.HandleFunc("POST /api/v1/rules/{id}/settings", withCORS(withAdmin(s, s.handleRuleSettings, "rules:settings")))

	// Dismissals
	mux.HandleFunc("GET /api/v1/dismissals", withCORS(withAuth(s, s.handleListDismissals, "dismissals:list")))
	mux.HandleFunc("POST /api/v1/dismissals", withCORS(withAdmin(s, s.handleCreateDismissal, "dismissals:create")))
	mux.HandleFunc("POST /api/v1/dismissals/{id}/revoke", withCORS(withAdmin(s, s.handleRevokeDismissal, "dismissals:revoke")))

	// Fallback 404
	mux.HandleFunc("/", withCORS(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	return mux
}

// corsOrigin picks the Access-Control-Allow-Origin value for a request. An
// empty or wildcard allow-list opens every origin; otherwise the request's
// Origin is echoed back only when it is listed, and "" suppresses the header.
func (s *Server) corsOrigin(r *http.Request) string {
	if len(s.AllowedOrigins) == 0 {
		return "*"
	}
	origin := r.Header.Get("Origin")
	for _, o := range s.AllowedOrigins {
		if o == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"rules":     s.Rules.Len(),
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := clamp(parseInt(q.Get("limit"), 20), 1, 200)
	offset := parseInt(q.Get("offset"), 0)

	rows, err := s.DB.ListRuns(limit, offset)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": rows, "limit": limit, "offset": offset,
	})
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LoadLatestRun()
	if err != nil {
		s.err(w, http.StatusNotFound, "no runs")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LoadRun(r.PathValue("id"))
	if err != nil {
		s.err(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListFindings(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	min := r.URL.Query().Get("min_severity")
	if min == "" {
		min = string(rules.SeverityInfo)
	}
	items, err := s.DB.ListFindings(id, min)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id": id, "min_severity": min, "items": items,
	})
}

func (s *Server) err(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
