// Package engine orchestrates an analysis run: walk the target tree,
// parse files through the registered frontends, build the reference
// graph in a serial phase, then sweep every enabled rule over every
// eligible file with bounded parallelism.
package engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thomasaiwilcox/strictswift/internal/config"
	"github.com/thomasaiwilcox/strictswift/internal/frontend"
	"github.com/thomasaiwilcox/strictswift/internal/graph"
	"github.com/thomasaiwilcox/strictswift/internal/lint"
	"github.com/thomasaiwilcox/strictswift/internal/source"
)

// internalRuleID marks diagnostics synthesized for rule-execution faults.
const internalRuleID = "internal-error"

// Engine holds the configuration and the frontend/rule registries for a
// run. Frontends and rules are registered once at startup.
type Engine struct {
	cfg       *config.Config
	frontends *frontend.Registry
	rules     *lint.Registry
}

// Result is the outcome of one analysis run. Violation order is
// unspecified; consumers must treat it as an unordered collection.
type Result struct {
	Root       string
	FileCount  int
	Symbols    int
	Edges      int
	Violations []lint.Violation
	Duration   time.Duration
}

// New creates an Engine with the given config. Frontends and rules must
// be registered after creation.
func New(cfg *config.Config) *Engine {
	return &Engine{
		cfg:       cfg,
		frontends: frontend.NewRegistry(),
		rules:     lint.NewRegistry(),
	}
}

// RegisterFrontend adds a language frontend.
func (e *Engine) RegisterFrontend(f frontend.Frontend) {
	e.frontends.Register(f)
}

// Register adds a rule.
func (e *Engine) Register(rule lint.Rule) {
	e.rules.Register(rule)
}

// Rules returns the rule registry.
func (e *Engine) Rules() *lint.Registry {
	return e.rules
}

// Config returns the engine config.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Run executes the full pipeline against the tree rooted at root.
func (e *Engine) Run(ctx context.Context, root string) (*Result, error) {
	start := time.Now()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}

	paths, err := e.walk(absRoot)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", absRoot, err)
	}
	log.Printf("[engine] found %d source files in %s", len(paths), absRoot)

	files, err := e.parseFiles(ctx, absRoot, paths)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}

	// Graph construction is a strictly serial phase; the graph is frozen
	// before any rule executes so concurrent reads need no locking.
	g := buildGraph(files)
	log.Printf("[engine] reference graph: %d symbols, %d edges", g.NodeCount(), g.EdgeCount())

	actx := lint.NewContext(e.cfg, g)
	violations, err := e.AnalyzeFiles(ctx, files, actx)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	log.Printf("[engine] %d violations from %d files in %s", len(violations), len(files), duration)

	return &Result{
		Root:       absRoot,
		FileCount:  len(files),
		Symbols:    g.NodeCount(),
		Edges:      g.EdgeCount(),
		Violations: violations,
		Duration:   duration,
	}, nil
}

// walk collects files claimed by a registered frontend, applying the
// configured ignore globs. WalkDir visits lexically, so the file order
// feeding the graph build is stable.
func (e *Engine) walk(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		if e.cfg.IsIgnored(relPath, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && e.frontends.ForPath(relPath) != nil {
			paths = append(paths, relPath)
		}
		return nil
	})
	return paths, err
}

// parseFiles parses all files concurrently. Each goroutine writes to its
// own result slot, so no locking is needed; the limit keeps the worker
// count at the configured parallelism.
func (e *Engine) parseFiles(ctx context.Context, root string, paths []string) ([]*source.SourceFile, error) {
	results := make([]*source.SourceFile, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs())

	for i, relPath := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			fe := e.frontends.ForPath(relPath)
			data, err := os.ReadFile(filepath.Join(root, relPath))
			if err != nil {
				log.Printf("[engine] skipping %s: %v", relPath, err)
				return nil
			}
			file, err := fe.Parse(filepath.ToSlash(relPath), data)
			if err != nil {
				log.Printf("[engine] parse error in %s: %v", relPath, err)
				return nil
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := make([]*source.SourceFile, 0, len(results))
	for _, f := range results {
		if f != nil {
			files = append(files, f)
		}
	}
	return files, nil
}

// buildGraph resolves each symbol's unresolved type references against a
// global simple-name index and records the resulting edges. Two-pass:
// index every declared type first, then resolve. First declaration wins
// on name collisions, which keeps resolution deterministic for a fixed
// file order.
func buildGraph(files []*source.SourceFile) *graph.Graph {
	g := graph.New()

	typeIndex := make(map[string]source.SymbolID)
	for _, f := range files {
		for _, sym := range f.Symbols {
			g.AddSymbol(sym)
			if sym.Kind.IsTypeLike() {
				if _, exists := typeIndex[sym.Name]; !exists {
					typeIndex[sym.Name] = sym.ID
				}
			}
		}
	}

	for _, f := range files {
		for _, sym := range f.Symbols {
			for _, ref := range sym.TypeRefs {
				target, ok := typeIndex[ref]
				if !ok {
					continue
				}
				g.AddReference(sym.ID, target)
			}
		}
	}

	return g
}

// AnalyzeFile runs every registered rule against one file: configuration
// gate first, then the rule's own ShouldAnalyze predicate, then the
// analysis itself. The configured severity for (rule, path) overwrites
// whatever the rule set; a faulting rule yields one synthesized
// diagnostic and the sweep continues.
func (e *Engine) AnalyzeFile(ctx context.Context, file *source.SourceFile, actx *lint.Context) []lint.Violation {
	var out []lint.Violation

	for _, rule := range e.rules.All() {
		if rule.Category() == lint.CategoryStructure && !e.cfg.EnhancedRules {
			continue
		}

		rc := e.cfg.For(rule.ID(), file.Path)
		if !rc.Enabled(rule.EnabledByDefault()) {
			continue
		}
		if !rule.ShouldAnalyze(file) {
			continue
		}

		violations, err := e.invoke(ctx, rule, file, actx)
		if err != nil {
			log.Printf("[engine] rule %s failed on %s: %v", rule.ID(), file.Path, err)
			out = append(out, lint.NewViolation(internalRuleID, rule.Category(), source.Location{File: file.Path, Line: 1}).
				Message(fmt.Sprintf("rule %s failed: %v", rule.ID(), err)).
				Severity(lint.SeverityError).
				Context("rule", rule.ID()).
				Build())
			continue
		}

		severity := lint.Severity(rc.Severity(string(rule.DefaultSeverity())))
		for i := range violations {
			violations[i].Severity = severity
		}
		out = append(out, violations...)
	}

	return out
}

// invoke calls a rule's Analyze, converting a panic into an error so one
// misbehaving rule cannot take down the run.
func (e *Engine) invoke(ctx context.Context, rule lint.Rule, file *source.SourceFile, actx *lint.Context) (violations []lint.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			violations = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return rule.Analyze(ctx, file, actx)
}

// AnalyzeFiles sweeps many files with bounded parallelism: fixed-size
// batches of at most maxJobs files, one goroutine per file within a
// batch, a join barrier between batches. Violation order across files is
// unspecified.
func (e *Engine) AnalyzeFiles(ctx context.Context, files []*source.SourceFile, actx *lint.Context) ([]lint.Violation, error) {
	jobs := e.jobs()
	var merged []lint.Violation

	for start := 0; start < len(files); start += jobs {
		end := min(start+jobs, len(files))
		batch := files[start:end]
		results := make([][]lint.Violation, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		for i, file := range batch {
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				results[i] = e.AnalyzeFile(gctx, file, actx)
				return nil
			})
		}
		// Join barrier: every file in the batch completes before merging.
		if err := g.Wait(); err != nil {
			return merged, err
		}
		for _, vs := range results {
			merged = append(merged, vs...)
		}
	}

	return merged, nil
}

func (e *Engine) jobs() int {
	if e.cfg.MaxJobs > 0 {
		return e.cfg.MaxJobs
	}
	return runtime.GOMAXPROCS(0)
}
