// Package persona holds the interviewer persona catalog: the system-prompt
// text that gives the model its character for a chosen topic, plus the
// per-stage rule texts appended to it.
package persona

import "sort"

// Persona is one interviewer character, keyed by topic ID.
type Persona struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	Instructions string `yaml:"instructions"`
}

// Registry is an immutable persona catalog. Upsert returns a new Registry
// rather than mutating in place, so a running session's directive text can
// never change underneath it.
type Registry struct {
	personas map[string]Persona
}

// NewRegistry builds a registry from the given personas. Later entries
// with duplicate IDs win.
func NewRegistry(personas ...Persona) *Registry {
	m := make(map[string]Persona, len(personas))
	for _, p := range personas {
		m[p.ID] = p
	}
	return &Registry{personas: m}
}

// Lookup returns the persona with the given ID.
func (r *Registry) Lookup(id string) (Persona, bool) {
	p, ok := r.personas[id]
	return p, ok
}

// Resolve returns the persona for id, falling back to the default
// interviewer when the ID is unknown.
func (r *Registry) Resolve(id string) Persona {
	if p, ok := r.personas[id]; ok {
		return p
	}
	return r.personas[DefaultID]
}

// Upsert returns a new Registry containing p in addition to (or replacing)
// the receiver's entries. The receiver is unchanged.
func (r *Registry) Upsert(p Persona) *Registry {
	m := make(map[string]Persona, len(r.personas)+1)
	for id, existing := range r.personas {
		m[id] = existing
	}
	m[p.ID] = p
	return &Registry{personas: m}
}

// IDs returns all persona IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.personas))
	for id := range r.personas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of personas in the registry.
func (r *Registry) Len() int {
	return len(r.personas)
}
