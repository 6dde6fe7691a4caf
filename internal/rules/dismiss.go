package rules

import (
	"strings"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/storage"
)

// ApplyDismissals filters out findings that match an active dismissal.
// Returns (kept, dismissedCount).
func ApplyDismissals(in []qa.Finding, ds []storage.Dismissal) ([]qa.Finding, int) {
	if len(ds) == 0 || len(in) == 0 {
		return in, 0
	}
	var out []qa.Finding
	dismissed := 0
nextFinding:
	for _, f := range in {
		for _, d := range ds {
			if !eqCI(f.RuleID, d.RuleID) {
				continue
			}
			if d.LocationSub != "" && !containsCI(f.Location, d.LocationSub) {
				continue
			}
			if d.PatternSub != "" &&
				!containsCI(f.Message, d.PatternSub) &&
				!containsCI(f.Details, d.PatternSub) {
				continue
			}
			dismissed++
			continue nextFinding
		}
		out = append(out, f)
	}
	return out, dismissed
}

func eqCI(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
