package checks

import (
	"regexp"
	"strings"
)

func init() {
	Register("fda-disclaimer", checkFDADisclaimer)
	Register("disease-claims", checkDiseaseClaims)
	Register("guarantee-terms", checkGuaranteeTerms)
	Register("testimonial-disclaimer", checkTestimonialDisclaimer)
}

const fdaDisclaimer = "these statements have not been evaluated by the food and drug administration"

var reStructureClaim = regexp.MustCompile(`(?i)\b(supports?|boosts?|promotes?|improves?|strengthens?)\b[^.!?\n]{0,60}\b(immune|immunity|joint|heart|brain|energy|sleep|digest|bone|muscle)`)

func checkFDADisclaimer(content string) Result {
	m := reStructureClaim.FindString(content)
	if m == "" {
		return pass()
	}
	if containsFold(content, fdaDisclaimer) {
		return pass()
	}
	return failWith("Footer",
		"Structure/function claims require the FDA disclaimer.",
		"claim: "+strings.TrimSpace(m))
}

var reDiseaseClaim = regexp.MustCompile(`(?i)\b(cures?|treats?|prevents?|reverses?|heals?)\b\s+(?:\w+\s+){0,2}(disease|cancer|diabetes|arthritis|alzheimer|dementia|depression)`)

func checkDiseaseClaims(content string) Result {
	m := reDiseaseClaim.FindString(content)
	if m == "" {
		return pass()
	}
	return failWith("Body",
		"Disease treatment or prevention claims are prohibited for supplements.",
		"matched: "+strings.TrimSpace(m))
}

var reGuarantee = regexp.MustCompile(`(?i)money[- ]back guarantee|satisfaction guaranteed?`)

func checkGuaranteeTerms(content string) Result {
	if !reGuarantee.MatchString(content) {
		return pass()
	}
	if containsFold(content, "terms") || containsFold(content, "guarantee policy") {
		return pass()
	}
	return advise("Offer", "Guarantee claim found; verify the guarantee terms are linked nearby.")
}

var reTestimonial = regexp.MustCompile(`(?i)testimonial|changed my life|\bi lost \d|\bmy (pain|energy|sleep) `)

func checkTestimonialDisclaimer(content string) Result {
	if !reTestimonial.MatchString(content) {
		return pass()
	}
	if containsFold(content, "results may vary") || containsFold(content, "results not typical") {
		return pass()
	}
	return fail("Testimonials", `Testimonial copy must carry a "results may vary" disclaimer.`)
}
