package checks

import (
	"regexp"
	"strings"
)

func init() {
	Register("d3k2-dosage", checkD3K2Dosage)
	Register("krill-shellfish-faq", checkKrillShellfishFAQ)
	Register("collagen-serving", checkCollagenServing)
}

var (
	reD3     = regexp.MustCompile(`(?i)\bD3\b|vitamin d[- ]?3`)
	reK2     = regexp.MustCompile(`(?i)\bK2\b|vitamin k[- ]?2`)
	reD3Dose = regexp.MustCompile(`(?i)2,?000\s?IU`)
	reK2Dose = regexp.MustCompile(`(?i)200\s?mcg`)
)

// checkD3K2Dosage only applies to copy that mentions the D3/K2 product; it
// then requires the approved per-serving amounts to appear together.
func checkD3K2Dosage(content string) Result {
	if !reD3.MatchString(content) || !reK2.MatchString(content) {
		return pass()
	}
	var missing []string
	if !reD3Dose.MatchString(content) {
		missing = append(missing, "2,000 IU of D3")
	}
	if !reK2Dose.MatchString(content) {
		missing = append(missing, "200mcg of K2")
	}
	if len(missing) == 0 {
		return pass()
	}
	return failWith("Product",
		"D3/K2 copy must state the approved per-serving amounts.",
		"missing: "+strings.Join(missing, ", "))
}

var reKrill = regexp.MustCompile(`(?i)\bkrill\b`)

func checkKrillShellfishFAQ(content string) Result {
	if !reKrill.MatchString(content) {
		return pass()
	}
	if containsFold(content, "shellfish allergy") || containsFold(content, "allergic to shellfish") {
		return pass()
	}
	return fail("FAQ", "Krill content must include the shellfish-allergy FAQ answer.")
}

var reCollagen = regexp.MustCompile(`(?i)\bcollagen\b`)

func checkCollagenServing(content string) Result {
	if !reCollagen.MatchString(content) {
		return pass()
	}
	return advise("Product", "Verify the collagen serving size matches the current label.")
}
