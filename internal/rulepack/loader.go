// Package rulepack loads declarative YAML rule tables. A pack entry either
// binds to a built-in check by name or declares a regex match clause that is
// compiled into a generated check at load time.
package rulepack

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/channel"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/checks"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/rules"
)

type packFile struct {
	Rules []packRule `yaml:"rules"`
}

type packRule struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"` // default "general"
	Severity    string   `yaml:"severity"` // default "warning"
	Enabled     *bool    `yaml:"enabled"`  // default true
	Description string   `yaml:"description"`
	Channels    []string `yaml:"channels"`
	Check       string   `yaml:"check"` // built-in check name; exclusive with match

	Match struct {
		Pattern  string `yaml:"pattern"`  // case-insensitive regex
		Require  bool   `yaml:"require"`  // violation when pattern is absent, not present
		Advisory bool   `yaml:"advisory"` // surface as needs-review pass instead of failure
		Location string `yaml:"location"`
		Message  string `yaml:"message"`
	} `yaml:"match"`
}

// Load reads a pack file and returns its rules in file order. A rule that
// fails to compile is logged and skipped; it never blocks the rest of the
// pack. Only reading or parsing the file itself is an error.
func Load(path string, log *slog.Logger) ([]rules.Rule, error) {
	if log == nil {
		log = slog.Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule pack: %w", err)
	}
	var pack packFile
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return nil, fmt.Errorf("parse rule pack %s: %w", path, err)
	}

	var out []rules.Rule
	for _, pr := range pack.Rules {
		r, err := build(pr)
		if err != nil {
			log.Warn("rule pack entry rejected", "pack", path, "rule", pr.ID, "err", err)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func build(pr packRule) (rules.Rule, error) {
	if strings.TrimSpace(pr.ID) == "" {
		return rules.Rule{}, fmt.Errorf("missing id")
	}
	checkRef := pr.Check
	switch {
	case checkRef != "" && pr.Match.Pattern != "":
		return rules.Rule{}, fmt.Errorf("check and match are mutually exclusive")
	case checkRef != "":
		if _, ok := checks.Lookup(checkRef); !ok {
			return rules.Rule{}, fmt.Errorf("check %q is not registered", checkRef)
		}
	case pr.Match.Pattern != "":
		if pr.Match.Message == "" {
			return rules.Rule{}, fmt.Errorf("match rule needs a message")
		}
		re, err := regexp.Compile("(?i)" + pr.Match.Pattern)
		if err != nil {
			return rules.Rule{}, fmt.Errorf("pattern: %w", err)
		}
		checkRef = "pack:" + strings.TrimSpace(pr.ID)
		checks.Register(checkRef, matchCheck(re, pr))
	default:
		return rules.Rule{}, fmt.Errorf("one of check or match.pattern is required")
	}

	category := rules.Category(strings.TrimSpace(pr.Category))
	if category == "" {
		category = rules.CategoryGeneral
	}
	severity := rules.Severity(strings.TrimSpace(pr.Severity))
	if severity == "" {
		severity = rules.SeverityWarning
	}

	var profiles []channel.Profile
	for _, c := range pr.Channels {
		p, ok := channel.ParseProfile(c)
		if !ok {
			return rules.Rule{}, fmt.Errorf("unknown channel profile %q", c)
		}
		profiles = append(profiles, p)
	}

	enabled := true
	if pr.Enabled != nil {
		enabled = *pr.Enabled
	}

	return rules.Rule{
		ID:          strings.TrimSpace(pr.ID),
		Name:        pr.Name,
		Category:    category,
		Severity:    severity,
		Enabled:     enabled,
		Description: pr.Description,
		CheckRef:    checkRef,
		Channels:    profiles,
	}, nil
}

// matchCheck compiles a pack match clause into a check function with the same
// contract as the built-ins: pure, deterministic, never failing on odd input.
func matchCheck(re *regexp.Regexp, pr packRule) checks.Func {
	location := pr.Match.Location
	message := pr.Match.Message
	require := pr.Match.Require
	advisory := pr.Match.Advisory

	return func(content string) checks.Result {
		m := re.FindString(content)
		violated := (m != "") != require
		if !violated {
			return checks.Result{Passed: true}
		}
		res := checks.Result{
			Passed:      advisory,
			NeedsReview: advisory,
			Location:    location,
			Message:     message,
		}
		if m != "" {
			res.Details = "matched: " + m
		}
		return res
	}
}

// LoadAll loads every pack path in order, concatenating rules.
func LoadAll(paths []string, log *slog.Logger) ([]rules.Rule, error) {
	var out []rules.Rule
	for _, p := range paths {
		rs, err := Load(p, log)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	return out, nil
}
