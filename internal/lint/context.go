package lint

import (
	"sync"

	"github.com/thomasaiwilcox/strictswift/internal/config"
	"github.com/thomasaiwilcox/strictswift/internal/graph"
)

// Context is the per-run shared state handed to every rule invocation:
// the configuration, the reference graph (frozen after the serial build
// phase, so concurrent reads need no locking), and the run-scoped cycle
// dedup set — the only object mutated during concurrent execution.
type Context struct {
	Config *config.Config
	Graph  *graph.Graph

	mu             sync.Mutex
	reportedCycles map[string]struct{}
}

// NewContext creates the shared context for one analysis run.
func NewContext(cfg *config.Config, g *graph.Graph) *Context {
	return &Context{
		Config:         cfg,
		Graph:          g,
		reportedCycles: make(map[string]struct{}),
	}
}

// MarkCycleReported performs an atomic "already reported?" check-and-
// insert for a canonical cycle key. It returns true for exactly one
// caller per key per run: the same cycle is independently discoverable
// once per participating symbol per file, and only the first reporter
// may emit a violation.
func (c *Context) MarkCycleReported(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, seen := c.reportedCycles[key]; seen {
		return false
	}
	c.reportedCycles[key] = struct{}{}
	return true
}
