package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

type dismissalCreateReq struct {
	RuleID      string `json:"rule_id"`
	LocationSub string `json:"location_sub,omitempty"`
	PatternSub  string `json:"pattern_sub,omitempty"`
	Reason      string `json:"reason"`
	ExpiresAt   string `json:"expires_at"` // RFC3339
}

func (s *Server) handleListDismissals(w http.ResponseWriter, r *http.Request) {
	active := r.URL.Query().Get("active")
	only := active == "1" || active == "true" || active == "yes"
	ds, err := s.DB.ListDismissals(only)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": ds, "active_only": only})
}

func (s *Server) handleCreateDismissal(w http.ResponseWriter, r *http.Request) {
	var in dismissalCreateReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.err(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.RuleID == "" || in.Reason == "" || in.ExpiresAt == "" {
		s.err(w, http.StatusBadRequest, "rule_id, reason, expires_at required")
		return
	}
	if _, ok := s.Rules.Get(in.RuleID); !ok {
		s.err(w, http.StatusBadRequest, "unknown rule_id")
		return
	}
	exp, err := time.Parse(time.RFC3339Nano, in.ExpiresAt)
	if err != nil {
		exp, err = time.Parse(time.RFC3339, in.ExpiresAt)
		if err != nil {
			s.err(w, http.StatusBadRequest, "bad expires_at (use RFC3339)")
			return
		}
	}
	u, ok := userFromCtx(r.Context())
	if !ok {
		s.err(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := s.DB.CreateDismissal(in.RuleID, in.LocationSub, in.PatternSub, in.Reason, u.Username, exp)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	_ = s.UserStore.LogAudit(u.Username, "dismissal:create", "", map[string]any{"id": id, "rule": in.RuleID})
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleRevokeDismissal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.err(w, http.StatusBadRequest, "invalid id")
		return
	}
	u, ok := userFromCtx(r.Context())
	if !ok {
		s.err(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := s.DB.RevokeDismissal(id); err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	_ = s.UserStore.LogAudit(u.Username, "dismissal:revoke", "", map[string]any{"id": id})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
