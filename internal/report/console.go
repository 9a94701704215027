package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/thomasaiwilcox/strictswift/internal/engine"
	"github.com/thomasaiwilcox/strictswift/internal/lint"
)

// Console renders violations grouped by file with colored severities.
type Console struct {
	errorColor *color.Color
	warnColor  *color.Color
	infoColor  *color.Color
	fileColor  *color.Color
	dimColor   *color.Color
}

// NewConsole creates a console reporter.
func NewConsole() *Console {
	return &Console{
		errorColor: color.New(color.FgRed, color.Bold),
		warnColor:  color.New(color.FgYellow),
		infoColor:  color.New(color.FgCyan),
		fileColor:  color.New(color.FgWhite, color.Bold),
		dimColor:   color.New(color.Faint),
	}
}

func (c *Console) Name() string { return "console" }

// Report writes the grouped, sorted violation listing and a summary.
func (c *Console) Report(w io.Writer, result *engine.Result) error {
	sorted := sortViolations(result.Violations)

	lastFile := ""
	for _, v := range sorted {
		if v.Location.File != lastFile {
			if lastFile != "" {
				fmt.Fprintln(w)
			}
			c.fileColor.Fprintln(w, v.Location.File)
			lastFile = v.Location.File
		}

		pos := fmt.Sprintf("%d", v.Location.Line)
		if v.Location.Column > 0 {
			pos = fmt.Sprintf("%d:%d", v.Location.Line, v.Location.Column)
		}
		fmt.Fprintf(w, "  %s  %s  %s %s\n",
			c.dimColor.Sprintf("%-7s", pos),
			c.severityColor(v.Severity).Sprintf("%-7s", string(v.Severity)),
			v.Message,
			c.dimColor.Sprintf("(%s)", v.RuleID),
		)
	}

	if len(sorted) > 0 {
		fmt.Fprintln(w)
	}

	counts := countBySeverity(result.Violations)
	c.summaryLine(w, counts)
	fmt.Fprintf(w, "Analyzed %d files (%d symbols, %d references) in %s.\n",
		result.FileCount, result.Symbols, result.Edges, result.Duration.Round(1e6))
	return nil
}

func (c *Console) summaryLine(w io.Writer, counts map[lint.Severity]int) {
	total := counts[lint.SeverityError] + counts[lint.SeverityWarning] + counts[lint.SeverityInfo]
	if total == 0 {
		color.New(color.FgGreen).Fprintln(w, "No violations found.")
		return
	}
	fmt.Fprintf(w, "Found %d violations: %s, %s, %s.\n",
		total,
		c.errorColor.Sprintf("%d errors", counts[lint.SeverityError]),
		c.warnColor.Sprintf("%d warnings", counts[lint.SeverityWarning]),
		c.infoColor.Sprintf("%d info", counts[lint.SeverityInfo]),
	)
}

func (c *Console) severityColor(sev lint.Severity) *color.Color {
	switch sev {
	case lint.SeverityError:
		return c.errorColor
	case lint.SeverityInfo:
		return c.infoColor
	default:
		return c.warnColor
	}
}
