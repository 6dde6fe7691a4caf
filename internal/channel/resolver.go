package channel

import "strings"

// Profile is the check-applicability bucket a channel label resolves to.
type Profile string

const (
	// Direct covers content sent to a named individual (email, SMS).
	Direct Profile = "DIRECT"
	// Acquisition covers content served to anonymous traffic (web pages,
	// marketplace listings, paid social).
	Acquisition Profile = "ACQ"
)

// ParseProfile maps a stored profile tag back to a Profile.
func ParseProfile(s string) (Profile, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Direct):
		return Direct, true
	case string(Acquisition):
		return Acquisition, true
	}
	return "", false
}

var profileByLabel = map[string]Profile{
	"email":      Direct,
	"newsletter": Direct,
	"sms":        Direct,
	"mms":        Direct,
	"text":       Direct,

	"web":          Acquisition,
	"webpage":      Acquisition,
	"landing page": Acquisition,
	"landing-page": Acquisition,
	"lp":           Acquisition,
	"amazon":       Acquisition,
	"marketplace":  Acquisition,
	"facebook":     Acquisition,
	"instagram":    Acquisition,
	"tiktok":       Acquisition,
	"youtube":      Acquisition,
	"google":       Acquisition,
	"display":      Acquisition,
	"paid social":  Acquisition,
}

// Resolve maps a caller-supplied channel label to a Profile. The label is
// free text from upstream UI, so unknown labels fall back to Direct, the
// stricter profile, rather than failing the run.
func Resolve(label string) Profile {
	if p, ok := profileByLabel[strings.ToLower(strings.TrimSpace(label))]; ok {
		return p
	}
	return Direct
}

// Known reports whether the label maps to a profile without the fallback.
func Known(label string) bool {
	_, ok := profileByLabel[strings.ToLower(strings.TrimSpace(label))]
	return ok
}
