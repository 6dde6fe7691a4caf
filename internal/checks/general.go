package checks

import (
	"regexp"
	"strings"
)

func init() {
	Register("phrase-break-even", checkBreakEven)
	Register("placeholder-text", checkPlaceholderText)
	Register("insecure-links", checkInsecureLinks)
	Register("pricing-approved", checkPricingApproved)
}

var reBreakEven = regexp.MustCompile(`(?i)break[- ]?even`)

func checkBreakEven(content string) Result {
	m := reBreakEven.FindString(content)
	if m == "" {
		return pass()
	}
	return failWith("Body",
		`Remove the "break even" phrase; it frames the purchase as an investment return.`,
		"matched: "+m)
}

var rePlaceholder = regexp.MustCompile(`(?i)lorem ipsum|\[placeholder\]|\[insert[^\]]*\]|\bTK(?:TK)?\b|\{\{[^}]+\}\}`)

func checkPlaceholderText(content string) Result {
	m := rePlaceholder.FindString(content)
	if m == "" {
		return pass()
	}
	return failWith("Body", "Unresolved placeholder or merge tag left in the copy.", "matched: "+m)
}

var reInsecureLink = regexp.MustCompile(`http://[^\s"'<>)]+`)

func checkInsecureLinks(content string) Result {
	m := reInsecureLink.FindString(content)
	if m == "" {
		return pass()
	}
	return failWith("Links", "Link uses plain http; all links must be https.", m)
}

var rePrice = regexp.MustCompile(`\$\s?\d`)

func checkPricingApproved(content string) Result {
	if !rePrice.MatchString(content) {
		return pass()
	}
	return advise("Offer", "Verify every price shown matches the approved pricing sheet.")
}

// shared helpers for the check files

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
