// Package pattern holds the thin per-file detectors: stateless scans
// over a file's lines or symbol list. None of them touch the reference
// graph or shared state.
package pattern

import (
	"context"
	"strings"

	"github.com/thomasaiwilcox/strictswift/internal/lint"
	"github.com/thomasaiwilcox/strictswift/internal/source"
)

// ForceTryRule flags `try!`, which crashes on any thrown error.
type ForceTryRule struct{}

// NewForceTryRule creates the force try rule.
func NewForceTryRule() *ForceTryRule { return &ForceTryRule{} }

func (r *ForceTryRule) ID() string                     { return "force_try" }
func (r *ForceTryRule) Name() string                   { return "Force Try" }
func (r *ForceTryRule) Category() lint.Category        { return lint.CategoryIdiomatic }
func (r *ForceTryRule) DefaultSeverity() lint.Severity { return lint.SeverityError }
func (r *ForceTryRule) EnabledByDefault() bool         { return true }

func (r *ForceTryRule) ShouldAnalyze(file *source.SourceFile) bool { return true }

func (r *ForceTryRule) Analyze(ctx context.Context, file *source.SourceFile, actx *lint.Context) ([]lint.Violation, error) {
	var out []lint.Violation
	for lineNum, col := range findToken(file.Lines, "try!") {
		loc := source.Location{File: file.Path, Line: lineNum, Column: col}
		out = append(out, lint.NewViolation(r.ID(), r.Category(), loc).
			Message("force try crashes on any thrown error; handle it with do/catch or try?").
			Severity(r.DefaultSeverity()).
			Fix(lint.StructuredFix{
				Title:      "Use optional try",
				Kind:       lint.FixReplace,
				Confidence: lint.ConfidenceSuggested,
				Edits: []lint.TextEdit{{
					Start:       lint.Position{Line: lineNum, Column: col},
					End:         lint.Position{Line: lineNum, Column: col + len("try!")},
					Replacement: "try?",
				}},
			}).
			Build())
	}
	return out, nil
}

// ForceCastRule flags `as!`, which crashes when the cast fails.
type ForceCastRule struct{}

// NewForceCastRule creates the force cast rule.
func NewForceCastRule() *ForceCastRule { return &ForceCastRule{} }

func (r *ForceCastRule) ID() string                     { return "force_cast" }
func (r *ForceCastRule) Name() string                   { return "Force Cast" }
func (r *ForceCastRule) Category() lint.Category        { return lint.CategoryIdiomatic }
func (r *ForceCastRule) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (r *ForceCastRule) EnabledByDefault() bool         { return true }

func (r *ForceCastRule) ShouldAnalyze(file *source.SourceFile) bool { return true }

func (r *ForceCastRule) Analyze(ctx context.Context, file *source.SourceFile, actx *lint.Context) ([]lint.Violation, error) {
	var out []lint.Violation
	for lineNum, col := range findToken(file.Lines, "as!") {
		loc := source.Location{File: file.Path, Line: lineNum, Column: col}
		out = append(out, lint.NewViolation(r.ID(), r.Category(), loc).
			Message("force cast crashes when the cast fails; prefer as? with explicit handling").
			Severity(r.DefaultSeverity()).
			Fix(lint.StructuredFix{
				Title:      "Use conditional cast",
				Kind:       lint.FixReplace,
				Confidence: lint.ConfidenceSuggested,
				Edits: []lint.TextEdit{{
					Start:       lint.Position{Line: lineNum, Column: col},
					End:         lint.Position{Line: lineNum, Column: col + len("as!")},
					Replacement: "as?",
				}},
			}).
			Build())
	}
	return out, nil
}

// ForceUnwrapRule flags postfix `!` on a value, excluding the operators
// `!=` and prefix negation, and excluding positions already covered by
// force_try/force_cast.
type ForceUnwrapRule struct{}

// NewForceUnwrapRule creates the force unwrap rule.
func NewForceUnwrapRule() *ForceUnwrapRule { return &ForceUnwrapRule{} }

func (r *ForceUnwrapRule) ID() string                     { return "force_unwrap" }
func (r *ForceUnwrapRule) Name() string                   { return "Force Unwrap" }
func (r *ForceUnwrapRule) Category() lint.Category        { return lint.CategoryIdiomatic }
func (r *ForceUnwrapRule) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (r *ForceUnwrapRule) EnabledByDefault() bool         { return true }

func (r *ForceUnwrapRule) ShouldAnalyze(file *source.SourceFile) bool { return true }

func (r *ForceUnwrapRule) Analyze(ctx context.Context, file *source.SourceFile, actx *lint.Context) ([]lint.Violation, error) {
	var out []lint.Violation
	for i, line := range file.Lines {
		if isCommentLine(line) {
			continue
		}
		for _, col := range forceUnwrapColumns(line) {
			loc := source.Location{File: file.Path, Line: i + 1, Column: col + 1}
			out = append(out, lint.NewViolation(r.ID(), r.Category(), loc).
				Message("force unwrap crashes on nil; use if let, guard let, or a default").
				Severity(r.DefaultSeverity()).
				Build())
		}
	}
	return out, nil
}

// forceUnwrapColumns returns the byte offsets of postfix `!` occurrences
// in ascending order.
func forceUnwrapColumns(line string) []int {
	var cols []int
	for i := 1; i < len(line); i++ {
		if line[i] != '!' {
			continue
		}
		prev := line[i-1]
		if !isIdentChar(prev) && prev != ')' && prev != ']' {
			continue
		}
		// `!=` is the inequality operator.
		if i+1 < len(line) && line[i+1] == '=' {
			continue
		}
		// Already reported by force_try / force_cast.
		if i >= 3 && line[i-3:i+1] == "try!" {
			continue
		}
		if i >= 2 && line[i-2:i+1] == "as!" {
			continue
		}
		cols = append(cols, i)
	}
	return cols
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// findToken returns line -> column (1-based) for the first occurrence of
// token per line, skipping comment lines.
func findToken(lines []string, token string) map[int]int {
	hits := make(map[int]int)
	for i, line := range lines {
		if isCommentLine(line) {
			continue
		}
		if idx := strings.Index(line, token); idx >= 0 {
			hits[i+1] = idx + 1
		}
	}
	return hits
}

func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*")
}
