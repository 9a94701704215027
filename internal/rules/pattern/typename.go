package pattern

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/thomasaiwilcox/strictswift/internal/lint"
	"github.com/thomasaiwilcox/strictswift/internal/source"
)

var upperCamelRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// TypeNameRule checks that declared types use UpperCamelCase. It works
// off the symbol list rather than the raw lines, so it fires once per
// declaration regardless of formatting.
type TypeNameRule struct{}

// NewTypeNameRule creates the type name rule.
func NewTypeNameRule() *TypeNameRule { return &TypeNameRule{} }

func (r *TypeNameRule) ID() string                     { return "type_name" }
func (r *TypeNameRule) Name() string                   { return "Type Name" }
func (r *TypeNameRule) Category() lint.Category        { return lint.CategoryStyle }
func (r *TypeNameRule) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (r *TypeNameRule) EnabledByDefault() bool         { return true }

func (r *TypeNameRule) ShouldAnalyze(file *source.SourceFile) bool { return true }

func (r *TypeNameRule) Analyze(ctx context.Context, file *source.SourceFile, actx *lint.Context) ([]lint.Violation, error) {
	var out []lint.Violation
	for _, sym := range file.TypeSymbols() {
		if upperCamelRe.MatchString(sym.Name) {
			continue
		}

		b := lint.NewViolation(r.ID(), r.Category(), sym.Location).
			Message(fmt.Sprintf("type name %q should be UpperCamelCase", sym.Name)).
			Severity(r.DefaultSeverity())

		if suggestion := upperCamel(sym.Name); suggestion != sym.Name && upperCamelRe.MatchString(suggestion) {
			b.Fix(lint.StructuredFix{
				Title:      fmt.Sprintf("Rename to %s", suggestion),
				Kind:       lint.FixReplace,
				Confidence: lint.ConfidenceSafe,
				Preferred:  true,
				Edits: []lint.TextEdit{{
					Start:       lint.Position{Line: sym.Location.Line, Column: sym.Location.Column},
					End:         lint.Position{Line: sym.Location.Line, Column: sym.Location.Column + len(sym.Name)},
					Replacement: suggestion,
				}},
			})
		}

		out = append(out, b.Build())
	}
	return out, nil
}

// upperCamel converts snake_case or lowercased names to UpperCamelCase.
func upperCamel(name string) string {
	parts := strings.Split(name, "_")
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	return sb.String()
}
