package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"
)

type diffPayload struct {
	BaseID   string        `json:"base_id"`
	HeadID   string        `json:"head_id"`
	Summary  diffSummary   `json:"summary"`
	New      []diffFinding `json:"new"`
	Resolved []diffFinding `json:"resolved"`
	Changed  []diffChanged `json:"changed"`
}

type diffSummary struct {
	NewCount      int `json:"new"`
	ResolvedCount int `json:"resolved"`
	ChangedCount  int `json:"changed"`
}

type diffFinding struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity,omitempty"`
	Location string `json:"location,omitempty"`
	Message  string `json:"message,omitempty"`
}

type diffChanged struct {
	Key     string      `json:"key"`
	Base    diffFinding `json:"base"`
	Head    diffFinding `json:"head"`
	Changed []string    `json:"fields_changed"`
}

// WriteDiffJSON compares two runs of the same content ("re-run QA after an
// edit") and reports which findings appeared, resolved or changed severity.
func WriteDiffJSON(baseID, headID, outDir string, base, head *qa.Run) (string, error) {
	path := filepath.Join(outDir, "diff_"+baseID+"__"+headID+".json")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	bm := map[string]qa.Finding{}
	hm := map[string]qa.Finding{}
	for _, f := range base.Findings {
		bm[keyOf(f)] = f
	}
	for _, f := range head.Findings {
		hm[keyOf(f)] = f
	}

	var added []diffFinding
	var resolved []diffFinding
	var changed []diffChanged

	for k, hf := range hm {
		bf, ok := bm[k]
		if !ok {
			added = append(added, asDiff(hf))
			continue
		}
		var fields []string
		if !strings.EqualFold(bf.Severity, hf.Severity) {
			fields = append(fields, "severity")
		}
		if bf.Passed != hf.Passed {
			fields = append(fields, "passed")
		}
		if len(fields) > 0 {
			changed = append(changed, diffChanged{
				Key: k, Base: asDiff(bf), Head: asDiff(hf), Changed: fields,
			})
		}
	}
	for k, bf := range bm {
		if _, ok := hm[k]; !ok {
			resolved = append(resolved, asDiff(bf))
		}
	}

	sort.Slice(added, func(i, j int) bool { return added[i].RuleID < added[j].RuleID })
	sort.Slice(resolved, func(i, j int) bool { return resolved[i].RuleID < resolved[j].RuleID })
	sort.Slice(changed, func(i, j int) bool { return changed[i].Key < changed[j].Key })

	payload := diffPayload{
		BaseID: baseID, HeadID: headID,
		Summary: diffSummary{
			NewCount:      len(added),
			ResolvedCount: len(resolved),
			ChangedCount:  len(changed),
		},
		New:      added,
		Resolved: resolved,
		Changed:  changed,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}

// keyOf identifies a finding across runs; message text drives logical
// identity since the same rule can fire for different reasons.
func keyOf(f qa.Finding) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(f.RuleID))
	sb.WriteByte('|')
	sb.WriteString(strings.ToLower(f.Location))
	sb.WriteByte('|')
	sb.WriteString(strings.TrimSpace(f.Message))
	return sb.String()
}

func asDiff(f qa.Finding) diffFinding {
	return diffFinding{
		RuleID:   f.RuleID,
		Severity: f.Severity,
		Location: f.Location,
		Message:  f.Message,
	}
}
