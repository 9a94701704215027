package pattern

import (
	"context"
	"fmt"

	"github.com/thomasaiwilcox/strictswift/internal/lint"
	"github.com/thomasaiwilcox/strictswift/internal/source"
)

// LineLengthRule flags lines longer than the configured maximum
// (parameter "max_length", default 120).
type LineLengthRule struct{}

// NewLineLengthRule creates the line length rule.
func NewLineLengthRule() *LineLengthRule { return &LineLengthRule{} }

func (r *LineLengthRule) ID() string                     { return "line_length" }
func (r *LineLengthRule) Name() string                   { return "Line Length" }
func (r *LineLengthRule) Category() lint.Category        { return lint.CategoryStyle }
func (r *LineLengthRule) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (r *LineLengthRule) EnabledByDefault() bool         { return true }

func (r *LineLengthRule) ShouldAnalyze(file *source.SourceFile) bool { return true }

func (r *LineLengthRule) Analyze(ctx context.Context, file *source.SourceFile, actx *lint.Context) ([]lint.Violation, error) {
	limit := actx.Config.For(r.ID(), file.Path).Int("max_length", 120)

	var out []lint.Violation
	for i, line := range file.Lines {
		length := len([]rune(line))
		if length <= limit {
			continue
		}
		loc := source.Location{File: file.Path, Line: i + 1, Column: limit + 1}
		out = append(out, lint.NewViolation(r.ID(), r.Category(), loc).
			Message(fmt.Sprintf("line is %d characters long (limit %d)", length, limit)).
			Severity(r.DefaultSeverity()).
			Context("actual", length).
			Context("limit", limit).
			Build())
	}
	return out, nil
}

// FileLengthRule flags files longer than the configured maximum
// (parameter "max_lines", default 400).
type FileLengthRule struct{}

// NewFileLengthRule creates the file length rule.
func NewFileLengthRule() *FileLengthRule { return &FileLengthRule{} }

func (r *FileLengthRule) ID() string                     { return "file_length" }
func (r *FileLengthRule) Name() string                   { return "File Length" }
func (r *FileLengthRule) Category() lint.Category        { return lint.CategoryStyle }
func (r *FileLengthRule) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (r *FileLengthRule) EnabledByDefault() bool         { return true }

func (r *FileLengthRule) ShouldAnalyze(file *source.SourceFile) bool { return true }

func (r *FileLengthRule) Analyze(ctx context.Context, file *source.SourceFile, actx *lint.Context) ([]lint.Violation, error) {
	limit := actx.Config.For(r.ID(), file.Path).Int("max_lines", 400)

	if len(file.Lines) <= limit {
		return nil, nil
	}
	loc := source.Location{File: file.Path, Line: 1}
	v := lint.NewViolation(r.ID(), r.Category(), loc).
		Message(fmt.Sprintf("file is %d lines long (limit %d); split it by responsibility", len(file.Lines), limit)).
		Severity(r.DefaultSeverity()).
		Context("actual", len(file.Lines)).
		Context("limit", limit).
		Build()
	return []lint.Violation{v}, nil
}
