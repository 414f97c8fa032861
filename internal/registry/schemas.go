package registry

import (
	"sort"
	"sync"

	"github.com/griffnb/core-apidoc/internal/domain"
)

// Entry is one registered component schema.
type Entry struct {
	Name    string
	PkgPath string
	Class   *domain.ClassSchema
	Enum    *domain.EnumSchema
}

// SchemaRegistry maps component schema names to compiled schemas for one
// run. It is safe for concurrent registration.
type SchemaRegistry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewSchemaRegistry creates an empty registry.
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{entries: make(map[string]Entry)}
}

// RegisterClass stores a compiled struct schema under its short name.
func (r *SchemaRegistry) RegisterClass(c *domain.ClassSchema) error {
	return r.register(Entry{Name: c.Name, PkgPath: c.PkgPath, Class: c})
}

// RegisterEnum stores an enum schema under its short name.
func (r *SchemaRegistry) RegisterEnum(e *domain.EnumSchema) error {
	return r.register(Entry{Name: e.Name, PkgPath: e.PkgPath, Enum: e})
}

// register fails with NameCollisionError when another package already owns
// the name. Registering the same type again replaces the entry.
func (r *SchemaRegistry) register(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[e.Name]; ok && existing.PkgPath != e.PkgPath {
		return &domain.NameCollisionError{
			Name:     e.Name,
			Existing: existing.PkgPath + "." + e.Name,
			Incoming: e.PkgPath + "." + e.Name,
		}
	}
	r.entries[e.Name] = e
	return nil
}

// Get returns the entry registered under name.
func (r *SchemaRegistry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	return e, ok
}

// Has reports whether name is registered.
func (r *SchemaRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns the registered names sorted.
func (r *SchemaRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered schemas.
func (r *SchemaRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
