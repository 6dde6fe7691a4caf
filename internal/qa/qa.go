package qa

import "time"

const Version = "1.0"

// Run is one QA evaluation of a piece of content against the rule registry.
type Run struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	Source        string    `json:"source,omitempty"`
	Channel       string    `json:"channel"`
	Profile       string    `json:"profile"`
	EngineVersion string    `json:"engine_version,omitempty"`
	Score         float64   `json:"score"`
	Findings      []Finding `json:"findings,omitempty"`
}

// Finding is the result of evaluating one rule against one piece of content.
// Rule name, category and severity are denormalized from the rule at run time
// so reviewers can render a finding without a registry lookup.
type Finding struct {
	RuleID      string `json:"rule_id"`
	RuleName    string `json:"rule_name,omitempty"`
	Category    string `json:"category,omitempty"`
	Severity    string `json:"severity"`
	Passed      bool   `json:"passed"`
	NeedsReview bool   `json:"needs_review,omitempty"`
	Message     string `json:"message,omitempty"`
	Location    string `json:"location,omitempty"`
	Details     string `json:"details,omitempty"`
}
