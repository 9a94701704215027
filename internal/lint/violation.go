package lint

import "github.com/thomasaiwilcox/strictswift/internal/source"

// Severity ranks a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Category groups rules by concern.
type Category string

const (
	CategoryStyle       Category = "style"
	CategoryIdiomatic   Category = "idiomatic"
	CategoryStructure   Category = "structure"
	CategoryPerformance Category = "performance"
)

// FixKind describes the shape of a structured fix.
type FixKind string

const (
	FixReplace  FixKind = "replace"
	FixInsert   FixKind = "insert"
	FixDelete   FixKind = "delete"
	FixWrap     FixKind = "wrap"
	FixRefactor FixKind = "refactor"
)

// Confidence tiers let an automated applier restrict itself to safe,
// preferred fixes only.
type Confidence string

const (
	ConfidenceSafe         Confidence = "safe"
	ConfidenceSuggested    Confidence = "suggested"
	ConfidenceExperimental Confidence = "experimental"
)

// Position is a point in a file, 1-based line and column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// TextEdit describes a half-open [Start, End) source range and its
// replacement text. The model only describes edits; applying them to
// source text is an external concern.
type TextEdit struct {
	Start       Position `json:"start"`
	End         Position `json:"end"`
	Replacement string   `json:"replacement"`
}

// StructuredFix is a machine-applicable remediation description.
type StructuredFix struct {
	Title      string     `json:"title"`
	Kind       FixKind    `json:"kind"`
	Edits      []TextEdit `json:"edits"`
	Confidence Confidence `json:"confidence"`
	Preferred  bool       `json:"preferred,omitempty"`
}

// Violation is a normalized diagnostic for a specific location. It is
// immutable once produced by Builder.Build.
type Violation struct {
	RuleID   string            `json:"rule_id"`
	Category Category          `json:"category"`
	Severity Severity          `json:"severity"`
	Message  string            `json:"message"`
	Location source.Location   `json:"location"`
	Related  []source.Location `json:"related,omitempty"`
	Fixes    []StructuredFix   `json:"fixes,omitempty"`
	Context  map[string]any    `json:"context,omitempty"`
}

// Builder accumulates the parts of a Violation. Zero value is not usable;
// construct with NewViolation.
type Builder struct {
	v            Violation
	hasPreferred bool
}

// NewViolation starts a builder anchored at the primary location.
func NewViolation(ruleID string, category Category, loc source.Location) *Builder {
	return &Builder{v: Violation{
		RuleID:   ruleID,
		Category: category,
		Severity: SeverityWarning,
		Location: loc,
	}}
}

// Message sets the human-readable description.
func (b *Builder) Message(msg string) *Builder {
	b.v.Message = msg
	return b
}

// Severity sets the rule's intrinsic severity. The engine overwrites it
// with the configured severity after the rule returns.
func (b *Builder) Severity(sev Severity) *Builder {
	b.v.Severity = sev
	return b
}

// Related appends secondary locations (e.g. the other participants of a
// dependency cycle).
func (b *Builder) Related(locs ...source.Location) *Builder {
	b.v.Related = append(b.v.Related, locs...)
	return b
}

// Fix appends a structured fix. At most one fix may be preferred: the
// first preferred fix wins and later ones are demoted.
func (b *Builder) Fix(fix StructuredFix) *Builder {
	if fix.Preferred {
		if b.hasPreferred {
			fix.Preferred = false
		} else {
			b.hasPreferred = true
		}
	}
	b.v.Fixes = append(b.v.Fixes, fix)
	return b
}

// Context records a free-form key/value pair (thresholds, measured
// values, participant lists).
func (b *Builder) Context(key string, value any) *Builder {
	if b.v.Context == nil {
		b.v.Context = make(map[string]any)
	}
	b.v.Context[key] = value
	return b
}

// Build produces the violation. Slices and the context map are copied so
// the result is detached from the builder.
func (b *Builder) Build() Violation {
	v := b.v
	if len(b.v.Related) > 0 {
		v.Related = make([]source.Location, len(b.v.Related))
		copy(v.Related, b.v.Related)
	}
	if len(b.v.Fixes) > 0 {
		v.Fixes = make([]StructuredFix, len(b.v.Fixes))
		copy(v.Fixes, b.v.Fixes)
	}
	if len(b.v.Context) > 0 {
		v.Context = make(map[string]any, len(b.v.Context))
		for k, val := range b.v.Context {
			v.Context[k] = val
		}
	}
	return v
}
