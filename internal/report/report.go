// Package report turns an analysis result into human- or machine-
// readable output. Reporters write to an io.Writer; the engine never
// formats anything itself.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/thomasaiwilcox/strictswift/internal/engine"
	"github.com/thomasaiwilcox/strictswift/internal/lint"
)

// Reporter renders one analysis result.
type Reporter interface {
	// Name returns the reporter identifier (e.g. "console", "json").
	Name() string
	// Report writes the rendered result to w.
	Report(w io.Writer, result *engine.Result) error
}

// ForFormat returns the reporter for a configured output format.
func ForFormat(format string) (Reporter, error) {
	switch format {
	case "", "console":
		return NewConsole(), nil
	case "json":
		return NewJSON(), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// sortViolations orders violations by file, line, column, rule for
// presentation. The engine's result order is unspecified; sorting is
// purely a reporting concern.
func sortViolations(violations []lint.Violation) []lint.Violation {
	sorted := make([]lint.Violation, len(violations))
	copy(sorted, violations)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		if a.Location.Column != b.Location.Column {
			return a.Location.Column < b.Location.Column
		}
		return a.RuleID < b.RuleID
	})
	return sorted
}

// countBySeverity tallies violations per severity.
func countBySeverity(violations []lint.Violation) map[lint.Severity]int {
	counts := make(map[lint.Severity]int)
	for _, v := range violations {
		counts[v.Severity]++
	}
	return counts
}
