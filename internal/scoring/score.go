// Package scoring condenses a run's findings into the single quality score
// the review dashboard sorts by.
package scoring

import "github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"

// Summary counts findings by outcome.
type Summary struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
	Advisory int `json:"advisory"`
}

// severity deductions per failed finding; advisories cost a token amount so
// a page needing many manual verifications still ranks below a clean one.
const (
	deductCritical = 25.0
	deductWarning  = 10.0
	deductInfo     = 3.0
	deductAdvisory = 2.0
)

// Summarize tallies findings by severity; passed-but-needs-review findings
// count as advisories regardless of their rule's severity.
func Summarize(findings []qa.Finding) Summary {
	var s Summary
	for _, f := range findings {
		if f.Passed {
			s.Advisory++
			continue
		}
		switch f.Severity {
		case "critical":
			s.Critical++
		case "warning":
			s.Warning++
		default:
			s.Info++
		}
	}
	return s
}

// Score maps findings to a 0-100 quality score. 100 means no surfaced
// findings; the floor is 0.
func Score(findings []qa.Finding) float64 {
	s := Summarize(findings)
	score := 100.0
	score -= float64(s.Critical) * deductCritical
	score -= float64(s.Warning) * deductWarning
	score -= float64(s.Info) * deductInfo
	score -= float64(s.Advisory) * deductAdvisory
	if score < 0 {
		return 0
	}
	return score
}
