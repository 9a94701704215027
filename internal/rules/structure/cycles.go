// Package structure holds the cross-file rules that read the frozen
// reference graph: dependency cycles and coupling thresholds. They are
// gated by the enhanced_rules configuration flag.
package structure

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/thomasaiwilcox/strictswift/internal/graph"
	"github.com/thomasaiwilcox/strictswift/internal/lint"
	"github.com/thomasaiwilcox/strictswift/internal/source"
)

// CycleRule reports dependency cycles between types. Detection runs from
// every type declared in the file, but only the sweep of the cycle's
// sorted-first participant emits the violation, anchored at that
// participant's declaration. The violation content is therefore
// identical no matter which file's sweep runs first; the run-scoped
// dedup set in the analysis context additionally guards against
// duplicate declarations of the same qualified name.
type CycleRule struct{}

// NewCycleRule creates the circular dependency rule.
func NewCycleRule() *CycleRule {
	return &CycleRule{}
}

func (r *CycleRule) ID() string                     { return "circular_dependency" }
func (r *CycleRule) Name() string                   { return "Circular Dependency" }
func (r *CycleRule) Category() lint.Category        { return lint.CategoryStructure }
func (r *CycleRule) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (r *CycleRule) EnabledByDefault() bool         { return true }

func (r *CycleRule) ShouldAnalyze(file *source.SourceFile) bool { return true }

func (r *CycleRule) Analyze(ctx context.Context, file *source.SourceFile, actx *lint.Context) ([]lint.Violation, error) {
	var out []lint.Violation

	for _, sym := range file.TypeSymbols() {
		cycle := actx.Graph.DetectCycle(sym.ID)
		if cycle == nil {
			continue
		}

		names := distinctSorted(cycle)
		// Only the sorted-first participant reports, so the violation's
		// anchor does not depend on which sweep reaches the cycle first.
		if sym.Qualified != names[0] {
			continue
		}

		key := graph.CycleKey(cycle)
		if !actx.MarkCycleReported(key) {
			continue
		}
		out = append(out, lint.NewViolation(r.ID(), r.Category(), sym.Location).
			Message(fmt.Sprintf("types %s form a dependency cycle; this indicates tight coupling and makes the types impossible to reason about in isolation", strings.Join(names, " -> "))).
			Severity(r.DefaultSeverity()).
			Context("cycle", names).
			Context("size", len(names)).
			Context("suggested_actions", []string{
				"Introduce a protocol to break the cycle",
				"Extract the shared state into a separate type",
				"Consider merging types that cannot be separated",
			}).
			Build())
	}

	return out, nil
}

func distinctSorted(cycle []source.SymbolID) []string {
	set := make(map[string]struct{}, len(cycle))
	for _, id := range cycle {
		set[id.Qualified] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
