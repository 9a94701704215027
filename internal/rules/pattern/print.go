package pattern

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/thomasaiwilcox/strictswift/internal/lint"
	"github.com/thomasaiwilcox/strictswift/internal/source"
)

var printRe = regexp.MustCompile(`(^|[^\w.])print\s*\(`)

// PrintStatementRule flags print() calls in production code. Entry-point
// and CLI files are excluded by path convention: printing to stdout is
// the whole point there.
type PrintStatementRule struct{}

// NewPrintStatementRule creates the print statement rule.
func NewPrintStatementRule() *PrintStatementRule { return &PrintStatementRule{} }

func (r *PrintStatementRule) ID() string                     { return "print_statement" }
func (r *PrintStatementRule) Name() string                   { return "Print Statement" }
func (r *PrintStatementRule) Category() lint.Category        { return lint.CategoryStyle }
func (r *PrintStatementRule) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (r *PrintStatementRule) EnabledByDefault() bool         { return true }

// ShouldAnalyze skips entry points (main.swift) and anything under a
// CLI/Commands directory.
func (r *PrintStatementRule) ShouldAnalyze(file *source.SourceFile) bool {
	if path.Base(file.Path) == "main.swift" {
		return false
	}
	p := "/" + file.Path + "/"
	return !strings.Contains(p, "/CLI/") && !strings.Contains(p, "/Commands/")
}

func (r *PrintStatementRule) Analyze(ctx context.Context, file *source.SourceFile, actx *lint.Context) ([]lint.Violation, error) {
	var out []lint.Violation
	for i, line := range file.Lines {
		if isCommentLine(line) {
			continue
		}
		m := printRe.FindStringIndex(line)
		if m == nil {
			continue
		}
		lineNum := i + 1
		loc := source.Location{File: file.Path, Line: lineNum, Column: m[0] + 1}
		out = append(out, lint.NewViolation(r.ID(), r.Category(), loc).
			Message("print statement in production code; route output through a logger").
			Severity(r.DefaultSeverity()).
			Fix(lint.StructuredFix{
				Title:      "Remove print statement",
				Kind:       lint.FixDelete,
				Confidence: lint.ConfidenceSuggested,
				Edits: []lint.TextEdit{{
					Start: lint.Position{Line: lineNum, Column: 1},
					End:   lint.Position{Line: lineNum + 1, Column: 1},
				}},
			}).
			Build())
	}
	return out, nil
}
