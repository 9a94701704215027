// Package swift is the Swift language frontend: a line-based declaration
// scanner producing symbols and unresolved type references. It is not a
// full parser; it recognizes the declaration grammar a linter needs and
// leaves everything else opaque.
package swift

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/thomasaiwilcox/strictswift/internal/source"
)

// Frontend parses Swift source files.
type Frontend struct{}

// New creates a Swift frontend.
func New() *Frontend {
	return &Frontend{}
}

func (f *Frontend) Name() string {
	return "swift"
}

// Matches returns true for .swift files.
func (f *Frontend) Matches(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".swift")
}

var (
	importRe = regexp.MustCompile(`^\s*import\s+(\w+)`)

	// Type declarations. Modifier prefixes cover access control,
	// attributes, final/indirect.
	protocolRe = regexp.MustCompile(
		`^\s*((?:(?:public|private|fileprivate|internal|open)\s+)*)protocol\s+(\w+)`)
	structRe = regexp.MustCompile(
		`^\s*((?:(?:@\w+\s+)*(?:public|private|fileprivate|internal|open)\s+)*)struct\s+(\w+)`)
	classRe = regexp.MustCompile(
		`^\s*((?:(?:@\w+\s+)*(?:public|private|fileprivate|internal|open|final)\s+)*)class\s+(\w+)`)
	enumRe = regexp.MustCompile(
		`^\s*((?:(?:public|private|fileprivate|internal|open|indirect)\s+)*)enum\s+(\w+)`)
	actorRe = regexp.MustCompile(
		`^\s*((?:(?:@\w+\s+)*(?:public|private|fileprivate|internal|open)\s+)*)actor\s+(\w+)`)

	funcRe = regexp.MustCompile(
		`^\s*(?:(?:public|private|fileprivate|internal|open|override|static|class|mutating|nonmutating|@\w+\s+)*\s*)func\s+(\w+)\s*[(<]`)
	propRe = regexp.MustCompile(
		`^\s*(?:(?:public|private|fileprivate|internal|open|static|class|override|lazy|weak|unowned|@\w+\s+)*\s*)(let|var)\s+(\w+)`)

	// Type annotations like "name: TypeName" in properties and parameters.
	typeAnnotationRe = regexp.MustCompile(`:\s*\[?([A-Z][A-Za-z0-9_]*)`)
)

type declKind struct {
	re   *regexp.Regexp
	kind source.SymbolKind
}

var typeDecls = []declKind{
	{protocolRe, source.KindProtocol},
	{structRe, source.KindStruct},
	{classRe, source.KindClass},
	{enumRe, source.KindEnum},
	{actorRe, source.KindActor},
}

// openType tracks a type declaration whose body is currently open.
type openType struct {
	symbolIdx int // index into file.Symbols
	depth     int // brace depth at which the body opened
}

// Parse scans a Swift file and returns its symbols: type declarations
// (including one level of nesting, with ownership recorded), top-level
// functions and properties, and the unresolved type names each symbol
// references. Qualification follows the "module is the directory"
// convention: Sources/Orders/Order.swift declares Sources/Orders.Order.
func (f *Frontend) Parse(path string, src []byte) (*source.SourceFile, error) {
	lines := strings.Split(string(src), "\n")
	module := filepath.ToSlash(filepath.Dir(path))

	file := &source.SourceFile{Path: path, Lines: lines}

	var (
		braceDepth int
		typeStack  []openType
	)

	addRef := func(symbolIdx int, name string) {
		if symbolIdx < 0 || isSystemType(name) {
			return
		}
		sym := &file.Symbols[symbolIdx]
		for _, existing := range sym.TypeRefs {
			if existing == name {
				return
			}
		}
		sym.TypeRefs = append(sym.TypeRefs, name)
	}

	currentType := func() int {
		if len(typeStack) == 0 {
			return -1
		}
		return typeStack[len(typeStack)-1].symbolIdx
	}

	for i, line := range lines {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		opens := strings.Count(line, "{")
		closes := strings.Count(line, "}")
		depthBefore := braceDepth
		braceDepth += opens - closes

		// Pop types whose bodies closed on this line.
		for len(typeStack) > 0 && braceDepth <= typeStack[len(typeStack)-1].depth {
			typeStack = typeStack[:len(typeStack)-1]
		}

		if trimmed == "" || isComment(trimmed) {
			continue
		}

		if importRe.MatchString(line) {
			continue
		}

		if matched := f.matchTypeDecl(line, lineNum, module, depthBefore, &typeStack, file); matched {
			continue
		}

		// Top-level functions and properties become symbols of their own;
		// member declarations contribute type references to the enclosing type.
		if m := funcRe.FindStringSubmatch(line); m != nil {
			if depthBefore == 0 {
				idx := f.addSymbol(file, m[1], source.KindFunction, module, lineNum, columnOf(line, m[1]), nil)
				harvestTypeRefs(line, idx, addRef)
			} else {
				harvestTypeRefs(line, currentType(), addRef)
			}
			continue
		}
		if m := propRe.FindStringSubmatch(line); m != nil && m[2] != "_" {
			if depthBefore == 0 {
				idx := f.addSymbol(file, m[2], source.KindVariable, module, lineNum, columnOf(line, m[2]), nil)
				harvestTypeRefs(line, idx, addRef)
			} else {
				harvestTypeRefs(line, currentType(), addRef)
			}
			continue
		}

		// Any other line inside a type body may still carry annotations
		// (enum case payloads, computed property bodies).
		if depthBefore > 0 {
			harvestTypeRefs(line, currentType(), addRef)
		}
	}

	return file, nil
}

// matchTypeDecl recognizes one type declaration line and records the
// symbol, its supertype references, and its open body.
func (f *Frontend) matchTypeDecl(line string, lineNum int, module string, depthBefore int, typeStack *[]openType, file *source.SourceFile) bool {
	for _, d := range typeDecls {
		m := d.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[2]

		var parent *source.SymbolID
		qualified := module + "." + name
		if len(*typeStack) > 0 {
			enclosing := file.Symbols[(*typeStack)[len(*typeStack)-1].symbolIdx]
			parent = &enclosing.ID
			qualified = enclosing.Qualified + "." + name
		}

		idx := len(file.Symbols)
		file.Symbols = append(file.Symbols, source.Symbol{
			ID:        source.SymbolID{Qualified: qualified, Kind: d.kind},
			Name:      name,
			Qualified: qualified,
			Kind:      d.kind,
			Parent:    parent,
			Location:  source.Location{File: file.Path, Line: lineNum, Column: columnOf(line, name)},
		})

		// Supertype clause: "struct Order: Codable, Payable {".
		rest := ""
		if nameIdx := strings.Index(line, name); nameIdx >= 0 {
			rest = line[nameIdx+len(name):]
		}
		for _, st := range supertypes(rest) {
			if !isSystemType(st) {
				file.Symbols[idx].TypeRefs = append(file.Symbols[idx].TypeRefs, st)
			}
		}

		if strings.Contains(line, "{") {
			*typeStack = append(*typeStack, openType{symbolIdx: idx, depth: depthBefore})
		}
		return true
	}
	return false
}

func (f *Frontend) addSymbol(file *source.SourceFile, name string, kind source.SymbolKind, module string, line, col int, parent *source.SymbolID) int {
	qualified := module + "." + name
	idx := len(file.Symbols)
	file.Symbols = append(file.Symbols, source.Symbol{
		ID:        source.SymbolID{Qualified: qualified, Kind: kind},
		Name:      name,
		Qualified: qualified,
		Kind:      kind,
		Parent:    parent,
		Location:  source.Location{File: file.Path, Line: line, Column: col},
	})
	return idx
}

// harvestTypeRefs extracts ": TypeName" annotations from a line and
// attributes them to the given symbol.
func harvestTypeRefs(line string, symbolIdx int, addRef func(int, string)) {
	for _, m := range typeAnnotationRe.FindAllStringSubmatch(line, -1) {
		addRef(symbolIdx, m[1])
	}
}

// supertypes extracts the type names after ":" in a declaration suffix
// like ": Codable, Repository<Order> where T: Equatable {".
func supertypes(rest string) []string {
	colon := -1
	depth := 0
	for i, ch := range rest {
		switch ch {
		case '(', '<':
			depth++
		case ')', '>':
			depth--
		case ':':
			if depth <= 0 {
				colon = i
			}
		}
		if colon >= 0 {
			break
		}
	}
	if colon < 0 {
		return nil
	}

	clause := rest[colon+1:]
	if idx := strings.Index(clause, "{"); idx >= 0 {
		clause = clause[:idx]
	}
	if idx := strings.Index(clause, " where "); idx >= 0 {
		clause = clause[:idx]
	}

	var out []string
	depth = 0
	start := 0
	flush := func(segment string) {
		name := simpleTypeName(segment)
		if name != "" {
			out = append(out, name)
		}
	}
	for i, ch := range clause {
		switch ch {
		case '<', '(':
			depth++
		case '>', ')':
			depth--
		case ',':
			if depth == 0 {
				flush(clause[start:i])
				start = i + 1
			}
		}
	}
	flush(clause[start:])
	return out
}

// simpleTypeName reduces "Foo<T>" / "Some.Foo" / " Foo " to "Foo".
func simpleTypeName(s string) string {
	s = strings.TrimSpace(s)
	for i, ch := range s {
		if ch == '<' || ch == '(' || ch == ' ' {
			s = s[:i]
			break
		}
	}
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		s = s[idx+1:]
	}
	return strings.TrimSpace(s)
}

func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*")
}

func columnOf(line, name string) int {
	if idx := strings.Index(line, name); idx >= 0 {
		return idx + 1
	}
	return 1
}

// isSystemType returns true for built-in Swift and framework types that
// should never become reference edges.
func isSystemType(name string) bool {
	switch name {
	case "String", "Int", "Int8", "Int16", "Int32", "Int64",
		"UInt", "UInt8", "UInt16", "UInt32", "UInt64",
		"Float", "Double", "Bool", "Void", "Any", "AnyObject",
		"Data", "Date", "URL", "UUID", "Error", "Result",
		"Array", "Dictionary", "Set", "Optional",
		"Published", "State", "Binding", "ObservedObject", "StateObject", "EnvironmentObject", "Environment",
		"View", "App", "Scene", "Body",
		"Color", "Image", "Text", "Button", "NavigationView", "NavigationLink", "NavigationStack",
		"VStack", "HStack", "ZStack", "List", "ScrollView", "LazyVStack", "LazyHStack",
		"CGFloat", "CGPoint", "CGSize", "CGRect",
		"NSObject", "NSLock", "NSError",
		"URLRequest", "URLResponse", "HTTPURLResponse", "URLSession", "URLComponents", "URLQueryItem",
		"JSONDecoder", "JSONEncoder", "CodingKey", "CodingKeys",
		"AnyPublisher", "CurrentValueSubject", "PassthroughSubject", "AnyCancellable",
		"Task", "MainActor",
		"ObservableObject", "Identifiable", "Equatable", "Hashable", "Comparable",
		"Codable", "Decodable", "Encodable", "Sendable",
		"LocalizedError", "CustomStringConvertible",
		"Never":
		return true
	}
	return false
}
