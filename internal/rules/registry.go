package rules

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/channel"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/checks"
)

// Registry holds the loaded rule set. It is constructed once at startup and
// shared process-wide: reads are concurrent, while the administrative
// enable/severity updates take the write lock. Callers receive copies of
// rules, never pointers into the registry.
type Registry struct {
	mu    sync.RWMutex
	rules []Rule
	index map[string]int // lowercase id -> position
	log   *slog.Logger
}

// NewRegistry validates and loads defs in order. A malformed rule (bad
// taxonomy field, duplicate id, dangling check reference) is reported in the
// returned error list and skipped; it never blocks the remaining rules.
func NewRegistry(defs []Rule, log *slog.Logger) (*Registry, []error) {
	if log == nil {
		log = slog.Default()
	}
	g := &Registry{index: make(map[string]int, len(defs)), log: log}
	var errs []error
	for _, d := range defs {
		if err := g.add(d); err != nil {
			errs = append(errs, err)
			log.Warn("rule rejected at load", "rule", d.ID, "err", err)
		}
	}
	return g, errs
}

func (g *Registry) add(d Rule) error {
	id := strings.TrimSpace(d.ID)
	if id == "" {
		return fmt.Errorf("rule %q: missing id", d.Name)
	}
	key := strings.ToLower(id)
	if _, dup := g.index[key]; dup {
		return fmt.Errorf("rule %q: duplicate id", id)
	}
	if !d.Category.Valid() {
		return fmt.Errorf("rule %q: unknown category %q", id, d.Category)
	}
	if !d.Severity.Valid() {
		return fmt.Errorf("rule %q: unknown severity %q", id, d.Severity)
	}
	for _, p := range d.Channels {
		if _, ok := channel.ParseProfile(string(p)); !ok {
			return fmt.Errorf("rule %q: unknown channel profile %q", id, p)
		}
	}
	fn, ok := checks.Lookup(d.CheckRef)
	if !ok {
		return fmt.Errorf("rule %q: check %q is not registered", id, d.CheckRef)
	}
	d.ID = id
	d.check = fn
	g.index[key] = len(g.rules)
	g.rules = append(g.rules, d)
	return nil
}

// ListAll returns every rule in insertion order, including disabled ones.
func (g *Registry) ListAll() []Rule {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// ListForProfile returns rules whose channel set is empty or contains p, in
// insertion order. Disabled rules are included; callers filter as needed.
func (g *Registry) ListForProfile(p channel.Profile) []Rule {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []Rule
	for _, r := range g.rules {
		if r.AppliesTo(p) {
			out = append(out, r)
		}
	}
	return out
}

// ListEnabled returns the enabled rules in insertion order.
func (g *Registry) ListEnabled() []Rule {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []Rule
	for _, r := range g.rules {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

// Get returns a rule by id. Unknown ids are a normal outcome, not an error.
func (g *Registry) Get(id string) (Rule, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	i, ok := g.index[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Rule{}, false
	}
	return g.rules[i], true
}

// SetEnabled toggles a rule for all subsequent runs and returns the updated
// rule, or false if the id is unknown.
func (g *Registry) SetEnabled(id string, enabled bool) (Rule, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i, ok := g.index[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Rule{}, false
	}
	g.rules[i].Enabled = enabled
	return g.rules[i], true
}

// SetSeverity overrides a rule's reported severity process-wide. It returns
// false for unknown ids or invalid severities.
func (g *Registry) SetSeverity(id string, sev Severity) (Rule, bool) {
	if !sev.Valid() {
		return Rule{}, false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	i, ok := g.index[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Rule{}, false
	}
	g.rules[i].Severity = sev
	return g.rules[i], true
}

// Len reports the number of loaded rules.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rules)
}
