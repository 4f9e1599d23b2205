package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm/schema"
)

// ErrDuplicateModel is returned when two model types share a lower-cased name
var ErrDuplicateModel = errors.New("registry: duplicate model name")

// Registry maps lower-cased model names to models
type Registry struct {
	models map[string]*Model
}

// New parses every model with GORM's schema parser and builds the lookup
// table. A nil namer falls back to GORM's default naming strategy.
func New(namer schema.Namer, models ...interface{}) (*Registry, error) {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}

	cache := &sync.Map{}
	r := &Registry{models: make(map[string]*Model, len(models))}
	for _, value := range models {
		m, err := newModel(value, cache, namer)
		if err != nil {
			return nil, err
		}

		if existing, ok := r.models[m.Key]; ok {
			if existing.Type == m.Type {
				continue
			}
			return nil, fmt.Errorf("%w: %s and %s both map to %q", ErrDuplicateModel, existing.Type, m.Type, m.Key)
		}
		r.models[m.Key] = m
	}
	return r, nil
}

// Models returns the full name to model mapping
func (r *Registry) Models() map[string]*Model {
	models := make(map[string]*Model, len(r.models))
	for k, m := range r.models {
		models[k] = m
	}
	return models
}

// Get looks a model up by its lower-cased name
func (r *Registry) Get(name string) (*Model, bool) {
	m, ok := r.models[name]
	return m, ok
}

// Names returns the registered keys in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.models))
	for k := range r.models {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered models
func (r *Registry) Len() int {
	return len(r.models)
}
