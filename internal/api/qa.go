package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/channel"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/rules"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/scoring"
)

type qaRequest struct {
	Content string `json:"content"`
	Channel string `json:"channel"`
	Source  string `json:"source,omitempty"`
	// Persist defaults to true; review surfaces re-checking drafts pass false.
	Persist *bool `json:"persist,omitempty"`
}

// POST /api/v1/qa runs the rule engine over a piece of content.
func (s *Server) handleRunQA(w http.ResponseWriter, r *http.Request) {
	var in qaRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.err(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Content == "" {
		s.err(w, http.StatusBadRequest, "content required")
		return
	}

	findings := s.Rules.RunChecks(in.Content, in.Channel, nil)

	dismissed := 0
	if ds, err := s.DB.ListDismissals(true); err == nil {
		findings, dismissed = rules.ApplyDismissals(findings, ds)
	}

	run := qa.Run{
		ID:            uuid.NewString(),
		StartedAt:     time.Now().UTC(),
		Source:        in.Source,
		Channel:       in.Channel,
		Profile:       string(channel.Resolve(in.Channel)),
		EngineVersion: qa.Version,
		Score:         scoring.Score(findings),
		Findings:      findings,
	}

	persisted := in.Persist == nil || *in.Persist
	if persisted {
		if err := s.DB.SaveRun(&run); err != nil {
			s.Logger.Error("save run failed", "run", run.ID, "err", err)
			persisted = false
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":       run,
		"summary":   scoring.Summarize(run.Findings),
		"dismissed": dismissed,
		"persisted": persisted,
	})
}
