package rules

import "github.com/shelbytessier/nativepath-promotions-sub000/internal/channel"

// Builtin returns the standard rule table in display order. Operators extend
// or override it with YAML rule packs at startup.
func Builtin() []Rule {
	all := []channel.Profile(nil) // empty set = every profile
	direct := []channel.Profile{channel.Direct}
	acq := []channel.Profile{channel.Acquisition}

	return []Rule{
		{
			ID:          "gen-break-even",
			Name:        "Remove break-even phrase",
			Category:    CategoryGeneral,
			Severity:    SeverityWarning,
			Enabled:     true,
			Description: `"Break even" frames the purchase as an investment and is off-voice for the brand.`,
			CheckRef:    "phrase-break-even",
			Channels:    all,
		},
		{
			ID:          "gen-placeholder-text",
			Name:        "No placeholder text",
			Category:    CategoryGeneral,
			Severity:    SeverityCritical,
			Enabled:     true,
			Description: "Lorem ipsum, TK markers and unresolved merge tags must never ship.",
			CheckRef:    "placeholder-text",
			Channels:    all,
		},
		{
			ID:          "gen-https-links",
			Name:        "Links must be https",
			Category:    CategoryGeneral,
			Severity:    SeverityWarning,
			Enabled:     true,
			Description: "Plain http links break padlock trust and some in-app browsers.",
			CheckRef:    "insecure-links",
			Channels:    all,
		},
		{
			ID:          "gen-pricing-approved",
			Name:        "Pricing matches approved sheet",
			Category:    CategoryGeneral,
			Severity:    SeverityInfo,
			Enabled:     true,
			Description: "Any visible price needs a manual cross-check against the approved pricing sheet.",
			CheckRef:    "pricing-approved",
			Channels:    all,
		},
		{
			ID:          "em-unsubscribe",
			Name:        "Unsubscribe link present",
			Category:    CategoryEmail,
			Severity:    SeverityCritical,
			Enabled:     true,
			Description: "CAN-SPAM requires a working opt-out in every commercial email.",
			CheckRef:    "email-unsubscribe",
			Channels:    direct,
		},
		{
			ID:          "em-postal-address",
			Name:        "Physical mailing address",
			Category:    CategoryEmail,
			Severity:    SeverityWarning,
			Enabled:     true,
			Description: "CAN-SPAM requires the sender's physical address in the footer.",
			CheckRef:    "email-postal-address",
			Channels:    direct,
		},
		{
			ID:          "em-subject-length",
			Name:        "Subject line length",
			Category:    CategoryEmail,
			Severity:    SeverityInfo,
			Enabled:     true,
			Description: "Subjects over 60 characters truncate in most inbox clients.",
			CheckRef:    "email-subject-length",
			Channels:    direct,
		},
		{
			ID:          "em-spam-triggers",
			Name:        "Avoid spam trigger phrases",
			Category:    CategoryEmail,
			Severity:    SeverityWarning,
			Enabled:     true,
			Description: "Common filter-bait phrases hurt deliverability.",
			CheckRef:    "email-spam-triggers",
			Channels:    direct,
		},
		{
			ID:          "sms-segment-length",
			Name:        "SMS fits one segment",
			Category:    CategorySMS,
			Severity:    SeverityWarning,
			Enabled:     true,
			Description: "Copy over 160 characters splits into billed segments.",
			CheckRef:    "sms-length",
			Channels:    direct,
		},
		{
			ID:          "sms-opt-out",
			Name:        "SMS STOP language",
			Category:    CategorySMS,
			Severity:    SeverityCritical,
			Enabled:     true,
			Description: "TCPA requires opt-out instructions in marketing texts.",
			CheckRef:    "sms-opt-out",
			Channels:    direct,
		},
		{
			ID:          "lp-no-abandon-code-acq",
			Name:        "No abandon-cart code on acquisition pages",
			Category:    CategoryLanding,
			Severity:    SeverityCritical,
			Enabled:     true,
			Description: "Cart-abandonment and exit-intent scripts are only approved for retention traffic.",
			CheckRef:    "abandon-cart-code",
			Channels:    acq,
		},
		{
			ID:          "lp-cta-present",
			Name:        "Primary CTA present",
			Category:    CategoryLanding,
			Severity:    SeverityInfo,
			Enabled:     true,
			Description: "Every acquisition page needs a primary call to action above the fold.",
			CheckRef:    "cta-present",
			Channels:    acq,
		},
		{
			ID:          "lp-utm-tagging",
			Name:        "Outbound links carry UTMs",
			Category:    CategoryLanding,
			Severity:    SeverityInfo,
			Enabled:     true,
			Description: "Untagged links lose attribution in analytics.",
			CheckRef:    "utm-tagging",
			Channels:    acq,
		},
		{
			ID:          "prod-d3k2-dosage",
			Name:        "D3/K2 dosage pair",
			Category:    CategoryProduct,
			Severity:    SeverityCritical,
			Enabled:     true,
			Description: "D3/K2 copy must state 2,000 IU of D3 and 200mcg of K2 per the approved formulation.",
			CheckRef:    "d3k2-dosage",
			Channels:    all,
		},
		{
			ID:          "prod-krill-shellfish-faq",
			Name:        "Krill shellfish-allergy FAQ",
			Category:    CategoryProduct,
			Severity:    SeverityCritical,
			Enabled:     true,
			Description: "Any krill mention must carry the shellfish-allergy FAQ answer.",
			CheckRef:    "krill-shellfish-faq",
			Channels:    all,
		},
		{
			ID:          "prod-collagen-serving",
			Name:        "Collagen serving size",
			Category:    CategoryProduct,
			Severity:    SeverityInfo,
			Enabled:     true,
			Description: "Collagen serving sizes changed across label revisions; verify against the current label.",
			CheckRef:    "collagen-serving",
			Channels:    all,
		},
		{
			ID:          "comp-fda-disclaimer",
			Name:        "FDA disclaimer present",
			Category:    CategoryCompliance,
			Severity:    SeverityCritical,
			Enabled:     true,
			Description: "Structure/function claims require the standard FDA disclaimer.",
			CheckRef:    "fda-disclaimer",
			Channels:    all,
		},
		{
			ID:          "comp-disease-claims",
			Name:        "No disease claims",
			Category:    CategoryCompliance,
			Severity:    SeverityCritical,
			Enabled:     true,
			Description: "Supplements may not claim to cure, treat or prevent disease.",
			CheckRef:    "disease-claims",
			Channels:    all,
		},
		{
			ID:          "comp-guarantee-terms",
			Name:        "Guarantee terms linked",
			Category:    CategoryCompliance,
			Severity:    SeverityWarning,
			Enabled:     true,
			Description: "Money-back guarantees must link their terms.",
			CheckRef:    "guarantee-terms",
			Channels:    all,
		},
		{
			ID:          "comp-testimonial-disclaimer",
			Name:        "Testimonial disclaimer",
			Category:    CategoryCompliance,
			Severity:    SeverityWarning,
			Enabled:     true,
			Description: `Testimonials need a "results may vary" disclaimer.`,
			CheckRef:    "testimonial-disclaimer",
			Channels:    all,
		},
	}
}
