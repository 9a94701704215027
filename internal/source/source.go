// Package source defines the parsed-file and symbol value model shared by
// the frontend, the reference graph, and the rules.
package source

// SymbolKind classifies a declared symbol.
type SymbolKind string

// Symbol kind constants.
const (
	KindClass    SymbolKind = "class"
	KindStruct   SymbolKind = "struct"
	KindEnum     SymbolKind = "enum"
	KindProtocol SymbolKind = "protocol"
	KindActor    SymbolKind = "actor"
	KindFunction SymbolKind = "function"
	KindVariable SymbolKind = "variable"
)

// IsTypeLike reports whether the kind declares a nominal type. Only
// type-like symbols participate in dependency cycle detection.
func (k SymbolKind) IsTypeLike() bool {
	switch k {
	case KindClass, KindStruct, KindEnum, KindProtocol, KindActor:
		return true
	}
	return false
}

// SymbolID identifies a symbol by qualified name and kind. It is a plain
// comparable value so graph lookups are structural, not identity-based.
type SymbolID struct {
	Qualified string
	Kind      SymbolKind
}

// Location is a position in a source file. Line and Column are 1-based;
// Column 0 means "whole line".
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// Symbol is a named declaration extracted from a parsed file. Symbols are
// created once by a frontend and never mutated afterwards.
type Symbol struct {
	ID        SymbolID
	Name      string     // simple name, e.g. "OrderService"
	Qualified string     // e.g. "Sources/Orders.OrderService"
	Kind      SymbolKind
	Parent    *SymbolID  // enclosing type, ownership only (not a graph edge)
	Location  Location

	// TypeRefs holds unresolved simple type names referenced by this
	// symbol's declaration (supertypes, member annotations). They are
	// consumed once during the serial graph build and ignored afterwards.
	TypeRefs []string
}

// SourceFile is one parsed file: its path, raw lines, and the flat list
// of symbols declared in it. Lines is the opaque handle pattern rules
// scan; the engine and graph never interpret it.
type SourceFile struct {
	Path    string
	Lines   []string
	Symbols []Symbol
}

// TypeSymbols returns the file's type-like symbols in declaration order.
func (f *SourceFile) TypeSymbols() []Symbol {
	var out []Symbol
	for _, s := range f.Symbols {
		if s.Kind.IsTypeLike() {
			out = append(out, s)
		}
	}
	return out
}
