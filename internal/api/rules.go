package api

import (
	"encoding/json"
	"net/http"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/channel"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/rules"
)

// GET /api/v1/rules returns the full inventory, or the subset in scope for
// ?channel=.
// Disabled rules are included so settings surfaces can render toggles.
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	var items []rules.Rule
	if label := r.URL.Query().Get("channel"); label != "" {
		items = s.Rules.ListForProfile(channel.Resolve(label))
	} else {
		items = s.Rules.ListAll()
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// GET /api/v1/rules/{id}
func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	rule, ok := s.Rules.Get(r.PathValue("id"))
	if !ok {
		s.err(w, http.StatusNotFound, "rule not found")
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

type ruleSettingsReq struct {
	Enabled  *bool  `json:"enabled,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// POST /api/v1/rules/{id}/settings toggles enablement and/or overrides
// severity process-wide; the change also lands in rule_settings so it
// survives restarts.
func (s *Server) handleRuleSettings(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in ruleSettingsReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.err(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Enabled == nil && in.Severity == "" {
		s.err(w, http.StatusBadRequest, "enabled or severity required")
		return
	}
	if in.Severity != "" && !rules.Severity(in.Severity).Valid() {
		s.err(w, http.StatusBadRequest, "invalid severity")
		return
	}

	rule, ok := s.Rules.Get(id)
	if !ok {
		s.err(w, http.StatusNotFound, "rule not found")
		return
	}
	if in.Enabled != nil {
		rule, _ = s.Rules.SetEnabled(id, *in.Enabled)
	}
	if in.Severity != "" {
		rule, _ = s.Rules.SetSeverity(id, rules.Severity(in.Severity))
	}

	u, _ := userFromCtx(r.Context())
	if err := s.DB.UpsertRuleSetting(rule.ID, in.Enabled, in.Severity, u.Username); err != nil {
		s.Logger.Error("persist rule setting failed", "rule", rule.ID, "err", err)
	}
	_ = s.UserStore.LogAudit(u.Username, "rules:settings", rule.ID, map[string]any{
		"enabled": in.Enabled, "severity": in.Severity,
	})
	writeJSON(w, http.StatusOK, rule)
}
