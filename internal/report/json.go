package report

import (
	"encoding/json"
	"io"

	"github.com/thomasaiwilcox/strictswift/internal/engine"
	"github.com/thomasaiwilcox/strictswift/internal/lint"
)

// JSON renders the result as a stable machine-readable document.
type JSON struct{}

// NewJSON creates a JSON reporter.
func NewJSON() *JSON { return &JSON{} }

func (j *JSON) Name() string { return "json" }

type jsonDocument struct {
	Root       string           `json:"root"`
	Files      int              `json:"files_analyzed"`
	Symbols    int              `json:"symbols"`
	References int              `json:"references"`
	DurationMS int64            `json:"duration_ms"`
	Summary    jsonSummary      `json:"summary"`
	Violations []lint.Violation `json:"violations"`
}

type jsonSummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Report writes the result as indented JSON, violations sorted by
// location for a stable document.
func (j *JSON) Report(w io.Writer, result *engine.Result) error {
	counts := countBySeverity(result.Violations)
	doc := jsonDocument{
		Root:       result.Root,
		Files:      result.FileCount,
		Symbols:    result.Symbols,
		References: result.Edges,
		DurationMS: result.Duration.Milliseconds(),
		Summary: jsonSummary{
			Total:    len(result.Violations),
			Errors:   counts[lint.SeverityError],
			Warnings: counts[lint.SeverityWarning],
			Info:     counts[lint.SeverityInfo],
		},
		Violations: sortViolations(result.Violations),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
