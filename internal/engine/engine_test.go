package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasaiwilcox/strictswift/internal/config"
	"github.com/thomasaiwilcox/strictswift/internal/frontend/swift"
	"github.com/thomasaiwilcox/strictswift/internal/graph"
	"github.com/thomasaiwilcox/strictswift/internal/lint"
	"github.com/thomasaiwilcox/strictswift/internal/rules/pattern"
	"github.com/thomasaiwilcox/strictswift/internal/rules/structure"
	"github.com/thomasaiwilcox/strictswift/internal/source"
)

// stubRule is a configurable rule for exercising the sweep.
type stubRule struct {
	id       string
	category lint.Category
	severity lint.Severity
	enabled  bool
	analyze  func(*source.SourceFile) ([]lint.Violation, error)
	should   func(*source.SourceFile) bool
}

func (r *stubRule) ID() string                     { return r.id }
func (r *stubRule) Name() string                   { return r.id }
func (r *stubRule) Category() lint.Category        { return r.category }
func (r *stubRule) DefaultSeverity() lint.Severity { return r.severity }
func (r *stubRule) EnabledByDefault() bool         { return r.enabled }

func (r *stubRule) ShouldAnalyze(f *source.SourceFile) bool {
	if r.should != nil {
		return r.should(f)
	}
	return true
}

func (r *stubRule) Analyze(_ context.Context, f *source.SourceFile, _ *lint.Context) ([]lint.Violation, error) {
	return r.analyze(f)
}

func oneViolation(id string) func(*source.SourceFile) ([]lint.Violation, error) {
	return func(f *source.SourceFile) ([]lint.Violation, error) {
		v := lint.NewViolation(id, lint.CategoryStyle, source.Location{File: f.Path, Line: 1}).
			Message("stub finding").
			Severity(lint.SeverityWarning).
			Build()
		return []lint.Violation{v}, nil
	}
}

func testFile(path string) *source.SourceFile {
	return &source.SourceFile{Path: path, Lines: []string{"let x = 1"}}
}

func testContext(cfg *config.Config) *lint.Context {
	return lint.NewContext(cfg, graph.New())
}

func TestAnalyzeFileSeverityOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Rules = map[string]config.RuleSettings{
		"stub": {Severity: "error"},
	}

	eng := New(cfg)
	eng.Register(&stubRule{
		id: "stub", category: lint.CategoryStyle, severity: lint.SeverityWarning,
		enabled: true, analyze: oneViolation("stub"),
	})

	got := eng.AnalyzeFile(context.Background(), testFile("a.swift"), testContext(cfg))
	require.Len(t, got, 1)
	assert.Equal(t, lint.SeverityError, got[0].Severity, "configured severity must win over the rule default")
}

func TestAnalyzeFileDefaultSeverityWhenUnconfigured(t *testing.T) {
	cfg := config.Default()
	eng := New(cfg)
	eng.Register(&stubRule{
		id: "stub", category: lint.CategoryStyle, severity: lint.SeverityInfo,
		enabled: true, analyze: oneViolation("stub"),
	})

	got := eng.AnalyzeFile(context.Background(), testFile("a.swift"), testContext(cfg))
	require.Len(t, got, 1)
	assert.Equal(t, lint.SeverityInfo, got[0].Severity)
}

func TestAnalyzeFileDisabledRule(t *testing.T) {
	disabled := false
	cfg := config.Default()
	cfg.Rules = map[string]config.RuleSettings{
		"stub": {Enabled: &disabled},
	}

	eng := New(cfg)
	eng.Register(&stubRule{
		id: "stub", category: lint.CategoryStyle, severity: lint.SeverityWarning,
		enabled: true, analyze: oneViolation("stub"),
	})

	got := eng.AnalyzeFile(context.Background(), testFile("a.swift"), testContext(cfg))
	assert.Empty(t, got)
}

func TestAnalyzeFileShouldAnalyzeSkip(t *testing.T) {
	cfg := config.Default()
	eng := New(cfg)
	eng.Register(&stubRule{
		id: "stub", category: lint.CategoryStyle, severity: lint.SeverityWarning,
		enabled: true, analyze: oneViolation("stub"),
		should: func(f *source.SourceFile) bool { return false },
	})

	got := eng.AnalyzeFile(context.Background(), testFile("a.swift"), testContext(cfg))
	assert.Empty(t, got)
}

func TestAnalyzeFileStructureRulesGated(t *testing.T) {
	cfg := config.Default()
	cfg.EnhancedRules = false

	eng := New(cfg)
	eng.Register(&stubRule{
		id: "structural", category: lint.CategoryStructure, severity: lint.SeverityWarning,
		enabled: true, analyze: oneViolation("structural"),
	})
	eng.Register(&stubRule{
		id: "stylistic", category: lint.CategoryStyle, severity: lint.SeverityWarning,
		enabled: true, analyze: oneViolation("stylistic"),
	})

	got := eng.AnalyzeFile(context.Background(), testFile("a.swift"), testContext(cfg))
	require.Len(t, got, 1)
	assert.Equal(t, "stylistic", got[0].RuleID)
}

func TestAnalyzeFilePanicIsolated(t *testing.T) {
	cfg := config.Default()
	eng := New(cfg)
	eng.Register(&stubRule{
		id: "bomb", category: lint.CategoryStyle, severity: lint.SeverityWarning,
		enabled: true,
		analyze: func(*source.SourceFile) ([]lint.Violation, error) { panic("boom") },
	})
	eng.Register(&stubRule{
		id: "survivor", category: lint.CategoryStyle, severity: lint.SeverityWarning,
		enabled: true, analyze: oneViolation("survivor"),
	})

	got := eng.AnalyzeFile(context.Background(), testFile("a.swift"), testContext(cfg))
	require.Len(t, got, 2)

	ids := []string{got[0].RuleID, got[1].RuleID}
	sort.Strings(ids)
	assert.Equal(t, []string{internalRuleID, "survivor"}, ids,
		"a panicking rule yields a synthesized diagnostic and the sweep continues")
}

func TestAnalyzeFileErrorIsolated(t *testing.T) {
	cfg := config.Default()
	eng := New(cfg)
	eng.Register(&stubRule{
		id: "broken", category: lint.CategoryStyle, severity: lint.SeverityWarning,
		enabled: true,
		analyze: func(*source.SourceFile) ([]lint.Violation, error) {
			return nil, errors.New("backend unavailable")
		},
	})

	got := eng.AnalyzeFile(context.Background(), testFile("a.swift"), testContext(cfg))
	require.Len(t, got, 1)
	assert.Equal(t, internalRuleID, got[0].RuleID)
	assert.Equal(t, lint.SeverityError, got[0].Severity)
}

// writeTree materializes a map of relative path -> contents under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func newTestEngine(cfg *config.Config) *Engine {
	eng := New(cfg)
	eng.RegisterFrontend(swift.New())
	eng.Register(structure.NewCycleRule())
	eng.Register(structure.NewAfferentCouplingRule())
	eng.Register(structure.NewEfferentCouplingRule())
	eng.Register(pattern.NewForceTryRule())
	return eng
}

func TestRunReportsCycleOnce(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"Sources/A.swift": "class A {\n    var b: B?\n}\n",
		"Sources/B.swift": "class B {\n    var c: C?\n}\n",
		"Sources/C.swift": "class C {\n    var a: A?\n}\n",
	})

	cfg := config.Default()
	eng := newTestEngine(cfg)

	result, err := eng.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 3, result.FileCount)

	var cycles []lint.Violation
	for _, v := range result.Violations {
		if v.RuleID == "circular_dependency" {
			cycles = append(cycles, v)
		}
	}
	require.Len(t, cycles, 1, "one cycle must be reported exactly once across all participating files")
}

func TestRunSelfReferenceNotACycle(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"Node.swift": "class Node {\n    var next: Node?\n}\n",
	})

	cfg := config.Default()
	eng := newTestEngine(cfg)

	result, err := eng.Run(context.Background(), dir)
	require.NoError(t, err)
	for _, v := range result.Violations {
		assert.NotEqual(t, "circular_dependency", v.RuleID,
			"a type referencing itself is recursion, not a cycle")
	}
}

func TestRunParallelismInvariance(t *testing.T) {
	// The cycle spans three files so the participating sweeps land in
	// different goroutines of a parallel batch.
	files := map[string]string{
		"Sources/A.swift": "class A {\n    var b: B?\n    let x = try! decode()\n}\n",
		"Sources/B.swift": "class B {\n    var c: C?\n}\n",
		"Sources/C.swift": "class C {\n    var a: A?\n    let value = try! load()\n}\n",
		"Sources/D.swift": "enum D {\n    case one\n}\n",
	}
	dir := writeTree(t, files)

	run := func(jobs int) []lint.Violation {
		cfg := config.Default()
		cfg.MaxJobs = jobs
		result, err := newTestEngine(cfg).Run(context.Background(), dir)
		require.NoError(t, err)
		vs := result.Violations
		sort.Slice(vs, func(i, j int) bool {
			a, b := vs[i], vs[j]
			if a.Location.File != b.Location.File {
				return a.Location.File < b.Location.File
			}
			if a.Location.Line != b.Location.Line {
				return a.Location.Line < b.Location.Line
			}
			return a.RuleID < b.RuleID
		})
		return vs
	}

	serial := run(1)
	parallel := run(8)

	// Complete violation values, Location and Context included, must
	// match between the serial and the concurrent schedule.
	require.Equal(t, serial, parallel)

	var cycleFiles []string
	for _, v := range serial {
		if v.RuleID == "circular_dependency" {
			cycleFiles = append(cycleFiles, v.Location.File)
		}
	}
	require.Equal(t, []string{"Sources/A.swift"}, cycleFiles,
		"the cycle must be anchored at its sorted-first participant under every schedule")
}

func TestRunAppliesIgnoreGlobs(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"Sources/Main.swift":    "let a = try! decode()\n",
		"Pods/Dep/Vendor.swift": "let b = try! decode()\n",
	})

	cfg := config.Default()
	eng := newTestEngine(cfg)

	result, err := eng.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FileCount, "Pods/** is ignored by default")
	for _, v := range result.Violations {
		assert.NotContains(t, v.Location.File, "Pods/")
	}
}

func TestRunHighAfferentCoupling(t *testing.T) {
	files := map[string]string{
		"Sources/Core.swift": "class Core {\n}\n",
	}
	// 20 dependents of Core, threshold is 15.
	for i := 0; i < 20; i++ {
		name := string(rune('A'+i/5)) + string(rune('A'+i%5))
		files["Sources/Use"+name+".swift"] = "class Use" + name + " {\n    var core: Core?\n}\n"
	}
	dir := writeTree(t, files)

	cfg := config.Default()
	result, err := newTestEngine(cfg).Run(context.Background(), dir)
	require.NoError(t, err)

	var hits []lint.Violation
	for _, v := range result.Violations {
		if v.RuleID == "high_afferent_coupling" {
			hits = append(hits, v)
		}
	}
	require.Len(t, hits, 1)
	assert.Equal(t, "Sources/Core.swift", hits[0].Location.File)
	assert.Equal(t, 0.0, hits[0].Context["instability"],
		"a pure dependency sink has instability 0")
}

func TestBuildGraphFirstDeclarationWins(t *testing.T) {
	a := &source.SourceFile{Path: "a.swift", Symbols: []source.Symbol{{
		ID:        source.SymbolID{Qualified: "a.Widget", Kind: source.KindClass},
		Name:      "Widget",
		Qualified: "a.Widget",
		Kind:      source.KindClass,
	}}}
	b := &source.SourceFile{Path: "b.swift", Symbols: []source.Symbol{{
		ID:        source.SymbolID{Qualified: "b.Widget", Kind: source.KindStruct},
		Name:      "Widget",
		Qualified: "b.Widget",
		Kind:      source.KindStruct,
	}}}
	user := &source.SourceFile{Path: "c.swift", Symbols: []source.Symbol{{
		ID:        source.SymbolID{Qualified: "c.User", Kind: source.KindClass},
		Name:      "User",
		Qualified: "c.User",
		Kind:      source.KindClass,
		TypeRefs:  []string{"Widget"},
	}}}

	g := buildGraph([]*source.SourceFile{a, b, user})
	refs := g.References(source.SymbolID{Qualified: "c.User", Kind: source.KindClass})
	require.Len(t, refs, 1)
	assert.Equal(t, "a.Widget", refs[0].Qualified)
}
