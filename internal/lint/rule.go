package lint

import (
	"context"

	"github.com/thomasaiwilcox/strictswift/internal/source"
)

// Rule is the capability contract every detector implements. Concrete
// rules are independent registered values, never a class hierarchy; most
// are thin stateless scans over a file's lines or symbol list.
type Rule interface {
	// ID returns the stable rule identifier used in configuration and
	// reports (e.g. "force_try").
	ID() string
	// Name returns the human-readable rule name.
	Name() string
	// Category returns the rule's concern group.
	Category() Category
	// DefaultSeverity is the intrinsic severity, used only when the
	// configuration carries no override for (rule, path).
	DefaultSeverity() Severity
	// EnabledByDefault reports whether the rule runs without explicit
	// configuration.
	EnabledByDefault() bool
	// ShouldAnalyze lets a rule exclude files by path convention, e.g.
	// entry-point files where an otherwise-flagged pattern is intentional.
	ShouldAnalyze(file *source.SourceFile) bool
	// Analyze inspects one file and returns its violations. It may read
	// the shared Context (frozen graph, config, cycle dedup set) and must
	// be safe to call concurrently with other files' sweeps.
	Analyze(ctx context.Context, file *source.SourceFile, actx *Context) ([]Violation, error)
}

// Registry holds registered rules. It is populated once at startup and
// read-only afterwards; construct it explicitly and pass it by reference
// rather than relying on package-level registration.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Rule)}
}

// Register adds a rule. A rule re-registered under an existing ID
// replaces the earlier entry.
func (r *Registry) Register(rule Rule) {
	if _, exists := r.byID[rule.ID()]; exists {
		for i, existing := range r.rules {
			if existing.ID() == rule.ID() {
				r.rules[i] = rule
				break
			}
		}
	} else {
		r.rules = append(r.rules, rule)
	}
	r.byID[rule.ID()] = rule
}

// Get returns the rule with the given ID, or nil.
func (r *Registry) Get(id string) Rule {
	return r.byID[id]
}

// All returns the registered rules in registration order. The returned
// slice is a copy; callers may reorder it freely.
func (r *Registry) All() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// ByCategory returns the registered rules of one category.
func (r *Registry) ByCategory(cat Category) []Rule {
	var out []Rule
	for _, rule := range r.rules {
		if rule.Category() == cat {
			out = append(out, rule)
		}
	}
	return out
}
