package pattern

import (
	"context"
	"fmt"
	"regexp"

	"github.com/thomasaiwilcox/strictswift/internal/lint"
	"github.com/thomasaiwilcox/strictswift/internal/source"
)

var todoRe = regexp.MustCompile(`//\s*(TODO|FIXME|HACK)\b`)

// TodoCommentRule surfaces TODO/FIXME/HACK markers as informational
// diagnostics so they show up in reports instead of rotting in place.
type TodoCommentRule struct{}

// NewTodoCommentRule creates the todo comment rule.
func NewTodoCommentRule() *TodoCommentRule { return &TodoCommentRule{} }

func (r *TodoCommentRule) ID() string                     { return "todo_comment" }
func (r *TodoCommentRule) Name() string                   { return "Todo Comment" }
func (r *TodoCommentRule) Category() lint.Category        { return lint.CategoryStyle }
func (r *TodoCommentRule) DefaultSeverity() lint.Severity { return lint.SeverityInfo }
func (r *TodoCommentRule) EnabledByDefault() bool         { return true }

func (r *TodoCommentRule) ShouldAnalyze(file *source.SourceFile) bool { return true }

func (r *TodoCommentRule) Analyze(ctx context.Context, file *source.SourceFile, actx *lint.Context) ([]lint.Violation, error) {
	var out []lint.Violation
	for i, line := range file.Lines {
		m := todoRe.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		marker := line[m[2]:m[3]]
		loc := source.Location{File: file.Path, Line: i + 1, Column: m[0] + 1}
		out = append(out, lint.NewViolation(r.ID(), r.Category(), loc).
			Message(fmt.Sprintf("%s comment; track it in the issue tracker or resolve it", marker)).
			Severity(r.DefaultSeverity()).
			Context("marker", marker).
			Build())
	}
	return out, nil
}
