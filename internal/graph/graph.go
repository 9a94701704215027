// Package graph implements the global symbol reference graph: forward and
// reverse adjacency over symbol IDs, bounded cycle detection, and coupling
// queries.
//
// The graph is built once per run during a serial phase (AddSymbol /
// AddReference) and is read-only for the remainder of the run. Concurrent
// reads after the build phase need no locking; callers must not interleave
// writes with rule execution.
package graph

import (
	"sort"
	"strings"

	"github.com/thomasaiwilcox/strictswift/internal/source"
)

type edgeKey struct {
	from, to source.SymbolID
}

// Graph holds directed reference edges between symbols. Edge multiplicity
// is irrelevant; only presence matters, and each adjacency list keeps
// insertion order so traversals are deterministic across runs.
type Graph struct {
	forward map[source.SymbolID][]source.SymbolID
	reverse map[source.SymbolID][]source.SymbolID
	seen    map[edgeKey]struct{}
	nodes   map[source.SymbolID]struct{}
}

// New creates an empty reference graph.
func New() *Graph {
	return &Graph{
		forward: make(map[source.SymbolID][]source.SymbolID),
		reverse: make(map[source.SymbolID][]source.SymbolID),
		seen:    make(map[edgeKey]struct{}),
		nodes:   make(map[source.SymbolID]struct{}),
	}
}

// AddSymbol registers a node so it is counted even when it has no edges.
// Build phase only.
func (g *Graph) AddSymbol(sym source.Symbol) {
	g.nodes[sym.ID] = struct{}{}
}

// AddReference records a directed "references/depends on" edge. Duplicate
// edges are ignored. Build phase only; not safe for concurrent use.
func (g *Graph) AddReference(from, to source.SymbolID) {
	if _, dup := g.seen[edgeKey{from, to}]; dup {
		return
	}
	g.seen[edgeKey{from, to}] = struct{}{}
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}
	g.forward[from] = append(g.forward[from], to)
	g.reverse[to] = append(g.reverse[to], from)
}

// References returns the distinct symbols id references (efferent edges)
// in insertion order. Unknown IDs yield an empty result, never an error:
// zero outgoing edges is a normal state.
func (g *Graph) References(id source.SymbolID) []source.SymbolID {
	return copyIDs(g.forward[id])
}

// ReferencedBy returns the distinct symbols referencing id (afferent
// edges) in insertion order. Unknown IDs yield an empty result.
func (g *Graph) ReferencedBy(id source.SymbolID) []source.SymbolID {
	return copyIDs(g.reverse[id])
}

// Afferent returns the number of distinct symbols referencing id.
func (g *Graph) Afferent(id source.SymbolID) int {
	return len(g.reverse[id])
}

// Efferent returns the number of distinct symbols id references.
func (g *Graph) Efferent(id source.SymbolID) int {
	return len(g.forward[id])
}

// Instability returns efferent/(afferent+efferent), the standard coupling
// instability metric: 0 = maximally stable, 1 = maximally unstable. A
// symbol with no edges at all reports 0.
func (g *Graph) Instability(id source.SymbolID) float64 {
	aff := g.Afferent(id)
	eff := g.Efferent(id)
	if aff+eff == 0 {
		return 0.0
	}
	return float64(eff) / float64(aff+eff)
}

// NodeCount returns the number of registered symbols.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.seen)
}

// DetectCycle performs a depth-first search from start following only
// edges whose target is also type-like, tracking an explicit recursion
// stack. Revisiting a node already on the stack yields a candidate cycle:
// the stack sub-path from that node's first occurrence through the
// current node, inclusive. A candidate is accepted only when it contains
// at least two distinct qualified names — a type referencing itself (a
// recursive node type) is normal and never reported.
//
// The first accepted cycle for this start node is returned; edge
// iteration follows insertion order, so the result is deterministic for
// identical input. Returns nil when no cycle is found.
func (g *Graph) DetectCycle(start source.SymbolID) []source.SymbolID {
	if !start.Kind.IsTypeLike() {
		return nil
	}

	onStack := make(map[source.SymbolID]int) // id -> index in path
	done := make(map[source.SymbolID]bool)   // fully explored, no accepted cycle
	var path []source.SymbolID

	var visit func(id source.SymbolID) []source.SymbolID
	visit = func(id source.SymbolID) []source.SymbolID {
		onStack[id] = len(path)
		path = append(path, id)

		for _, next := range g.forward[id] {
			if !next.Kind.IsTypeLike() {
				continue
			}
			if first, ok := onStack[next]; ok {
				candidate := path[first:]
				if distinctNames(candidate) >= 2 {
					cycle := make([]source.SymbolID, len(candidate))
					copy(cycle, candidate)
					return cycle
				}
				continue
			}
			if done[next] {
				continue
			}
			if cycle := visit(next); cycle != nil {
				return cycle
			}
		}

		delete(onStack, id)
		path = path[:len(path)-1]
		done[id] = true
		return nil
	}

	return visit(start)
}

// CycleKey returns the canonical deduplication key for a cycle: the
// sorted set of distinct qualified names. The same cycle discovered from
// any participant in any file produces the same key.
func CycleKey(cycle []source.SymbolID) string {
	set := make(map[string]struct{}, len(cycle))
	for _, id := range cycle {
		set[id.Qualified] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

func distinctNames(ids []source.SymbolID) int {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id.Qualified] = struct{}{}
	}
	return len(set)
}

func copyIDs(ids []source.SymbolID) []source.SymbolID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]source.SymbolID, len(ids))
	copy(out, ids)
	return out
}
