package checks

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

func init() {
	Register("email-unsubscribe", checkUnsubscribe)
	Register("email-postal-address", checkPostalAddress)
	Register("email-subject-length", checkSubjectLength)
	Register("email-spam-triggers", checkSpamTriggers)
}

func checkUnsubscribe(content string) Result {
	if containsFold(content, "unsubscribe") || containsFold(content, "opt out") || containsFold(content, "opt-out") {
		return pass()
	}
	return fail("Footer", "Email is missing unsubscribe/opt-out language in the footer.")
}

var rePostalAddress = regexp.MustCompile(`(?i)\b(?:st\.?|street|ave\.?|avenue|rd\.?|road|blvd|suite|ste\.?|po box|p\.o\. box)\b`)

func checkPostalAddress(content string) Result {
	if rePostalAddress.MatchString(content) {
		return pass()
	}
	return advise("Footer", "No mailing address detected; verify the sender's physical address appears in the footer.")
}

const maxSubjectRunes = 60

var reSubjectLine = regexp.MustCompile(`(?im)^subject:\s*(.+)$`)

func checkSubjectLength(content string) Result {
	m := reSubjectLine.FindStringSubmatch(content)
	if m == nil {
		return pass()
	}
	subject := strings.TrimSpace(m[1])
	if n := utf8.RuneCountInString(subject); n > maxSubjectRunes {
		return failWith("Subject",
			"Subject line is too long and will truncate in most inbox clients.",
			subject)
	}
	return pass()
}

var spamTriggers = []string{
	"act now",
	"100% free",
	"risk-free",
	"risk free",
	"no obligation",
	"limited time only!!!",
	"winner",
	"cash bonus",
}

func checkSpamTriggers(content string) Result {
	lower := strings.ToLower(content)
	var hits []string
	for _, t := range spamTriggers {
		if strings.Contains(lower, t) {
			hits = append(hits, t)
		}
	}
	if len(hits) == 0 {
		return pass()
	}
	return failWith("Body",
		"Copy contains phrases commonly flagged by spam filters.",
		strings.Join(hits, ", "))
}
