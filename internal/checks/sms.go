package checks

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func init() {
	Register("sms-length", checkSMSLength)
	Register("sms-opt-out", checkSMSOptOut)
}

const smsSegmentRunes = 160

// looksLikeSMS filters out content that clearly is not a text message
// (multi-paragraph or HTML) so the SMS checks pass silently on emails that
// share the recipient-direct profile. Length is no exemption: oversized
// single-line copy is exactly what the segment rule must catch.
func looksLikeSMS(content string) bool {
	t := strings.TrimSpace(content)
	if t == "" {
		return false
	}
	if strings.Contains(t, "<") && strings.Contains(t, ">") {
		return false
	}
	return strings.Count(t, "\n") <= 2
}

func checkSMSLength(content string) Result {
	if !looksLikeSMS(content) {
		return pass()
	}
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n <= smsSegmentRunes {
		return pass()
	}
	return failWith("Body",
		"SMS copy exceeds one 160-character segment and will split or be billed as multiple messages.",
		fmt.Sprintf("%d characters", n))
}

func checkSMSOptOut(content string) Result {
	if !looksLikeSMS(content) {
		return pass()
	}
	upper := strings.ToUpper(content)
	if strings.Contains(upper, "STOP") {
		return pass()
	}
	return fail("Body", `SMS must include opt-out language ("Reply STOP to unsubscribe").`)
}
