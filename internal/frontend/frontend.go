// Package frontend defines the parser interface the engine consumes and
// a registry of language frontends. The engine never inspects syntax
// itself; it sees only the SourceFile model a frontend produces.
package frontend

import "github.com/thomasaiwilcox/strictswift/internal/source"

// Frontend parses source files of one language into the shared model.
type Frontend interface {
	// Name returns the frontend identifier (e.g. "swift").
	Name() string
	// Matches returns true if this frontend handles the given path.
	Matches(path string) bool
	// Parse turns one file's contents into a SourceFile with its symbol list.
	Parse(path string, src []byte) (*source.SourceFile, error)
}

// Registry holds registered frontends.
type Registry struct {
	frontends []Frontend
}

// NewRegistry creates an empty frontend registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a frontend to the registry.
func (r *Registry) Register(f Frontend) {
	r.frontends = append(r.frontends, f)
}

// ForPath returns the first frontend claiming the path, or nil.
func (r *Registry) ForPath(path string) Frontend {
	for _, f := range r.frontends {
		if f.Matches(path) {
			return f
		}
	}
	return nil
}

// All returns all registered frontends.
func (r *Registry) All() []Frontend {
	return r.frontends
}
