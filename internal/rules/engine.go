package rules

import (
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/channel"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/checks"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"
)

// RunChecks evaluates content against every enabled rule applicable to the
// profile resolved from label and returns the surfaced findings in registry
// order. A finding is surfaced when the check failed or when it passed with
// an advisory message; purely silent passes are omitted.
//
// overrides, when non-nil, replaces the registry's rule set as the candidate
// list (e.g. a settings UI passing its live toggles); disabled overrides are
// skipped the same way registry rules are.
//
// The call mutates no shared state and is safe for concurrent use. A check
// that panics is logged and skipped so one broken rule never aborts a run.
func (g *Registry) RunChecks(content, label string, overrides []Rule) []qa.Finding {
	profile := channel.Resolve(label)

	var candidates []Rule
	if overrides != nil {
		candidates = make([]Rule, 0, len(overrides))
		for _, r := range overrides {
			if r.Enabled {
				candidates = append(candidates, r)
			}
		}
	} else {
		candidates = g.ListEnabled()
	}

	var out []qa.Finding
	for _, r := range candidates {
		if !r.AppliesTo(profile) {
			continue
		}
		fn := r.check
		if fn == nil {
			// Override rules built by callers carry only the check name.
			var ok bool
			if fn, ok = checks.Lookup(r.CheckRef); !ok {
				g.log.Warn("skipping rule with unresolved check", "rule", r.ID, "check", r.CheckRef)
				continue
			}
		}
		res, ok := g.runSafe(r, fn, content)
		if !ok {
			continue
		}
		if res.Passed && !res.NeedsReview && res.Message == "" {
			continue
		}
		out = append(out, qa.Finding{
			RuleID:      r.ID,
			RuleName:    r.Name,
			Category:    string(r.Category),
			Severity:    string(r.Severity),
			Passed:      res.Passed,
			NeedsReview: res.NeedsReview,
			Message:     res.Message,
			Location:    res.Location,
			Details:     res.Details,
		})
	}
	return out
}

// runSafe isolates a misbehaving check: the run keeps going with the
// remaining rules and the failure is only visible in the logs.
func (g *Registry) runSafe(r Rule, fn checks.Func, content string) (res checks.Result, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			g.log.Error("check panicked", "rule", r.ID, "check", r.CheckRef, "panic", rec)
			ok = false
		}
	}()
	return fn(content), true
}
