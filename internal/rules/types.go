package rules

import (
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/channel"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/checks"
)

// Category classifies a rule's subject matter.
type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryEmail      Category = "email"
	CategorySMS        Category = "sms"
	CategoryLanding    Category = "landing-page"
	CategoryProduct    Category = "product-specific"
	CategoryCompliance Category = "compliance"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryEmail, CategorySMS, CategoryLanding, CategoryProduct, CategoryCompliance:
		return true
	}
	return false
}

// Severity is the priority a violation is reported at.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Rank orders severities for display sorting; unknown severities rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// Rule is a registered content check with its taxonomy metadata. An empty
// Channels set means the rule applies to every profile.
type Rule struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Category    Category          `json:"category" yaml:"category"`
	Severity    Severity          `json:"severity" yaml:"severity"`
	Enabled     bool              `json:"enabled" yaml:"enabled"`
	Description string            `json:"description,omitempty" yaml:"description"`
	CheckRef    string            `json:"check" yaml:"check"`
	Channels    []channel.Profile `json:"channels,omitempty" yaml:"channels"`

	check checks.Func
}

// AppliesTo reports whether the rule is in scope for the profile.
func (r Rule) AppliesTo(p channel.Profile) bool {
	if len(r.Channels) == 0 {
		return true
	}
	for _, c := range r.Channels {
		if c == p {
			return true
		}
	}
	return false
}
