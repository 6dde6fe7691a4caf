package checks

import (
	"regexp"
	"strings"
)

func init() {
	Register("abandon-cart-code", checkAbandonCartCode)
	Register("cta-present", checkCTAPresent)
	Register("utm-tagging", checkUTMTagging)
}

var reAbandonCode = regexp.MustCompile(`(?i)abandon(?:ed)?[-_ ]?cart|cart[-_ ]?abandon|data-exit-intent|exit[-_ ]intent`)

func checkAbandonCartCode(content string) Result {
	m := reAbandonCode.FindString(content)
	if m == "" {
		return pass()
	}
	return failWith("Scripts",
		"Cart-abandonment/exit-intent code must not run on acquisition pages.",
		"matched: "+m)
}

var reCTA = regexp.MustCompile(`(?i)\b(buy now|shop now|order now|add to cart|claim your|get started|try it|start now)\b`)

func checkCTAPresent(content string) Result {
	if reCTA.MatchString(content) {
		return pass()
	}
	return advise("CTA", "No call-to-action phrase detected; verify the page has a primary CTA.")
}

var reOutboundLink = regexp.MustCompile(`https?://[^\s"'<>)]+`)

func checkUTMTagging(content string) Result {
	links := reOutboundLink.FindAllString(content, -1)
	if len(links) == 0 {
		return pass()
	}
	var untagged []string
	for _, l := range links {
		if !strings.Contains(l, "utm_") {
			untagged = append(untagged, l)
		}
	}
	if len(untagged) == 0 {
		return pass()
	}
	return Result{
		Passed:      true,
		NeedsReview: true,
		Location:    "Links",
		Message:     "Some links carry no UTM parameters; verify tracking is intentional.",
		Details:     strings.Join(untagged, " "),
	}
}
