package resolver

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/store"
)

// Route variable names
const (
	ClassNameVar = "classname"
	IDVar        = "id"
)

// ErrNoMatch is returned when the route variables do not resolve
var ErrNoMatch = errors.New("resolver: no match")

// ResolveClass resolves vars["classname"] to a registered model. Variables
// are expected in their path-encoded form.
func ResolveClass(reg *registry.Registry, vars map[string]string) (*ClassContext, bool) {
	name, err := url.PathUnescape(vars[ClassNameVar])
	if err != nil || name == "" {
		return nil, false
	}
	model, ok := reg.Get(name)
	if !ok {
		return nil, false
	}
	return NewClassContext(model), true
}

// ResolveInstance resolves vars["classname"] and vars["id"] to a persisted
// row. Unresolvable variables yield ErrNoMatch; any other error comes from
// the store.
func ResolveInstance(reg *registry.Registry, rows store.RowsStore, vars map[string]string) (*InstanceContext, error) {
	token, err := url.PathUnescape(vars[IDVar])
	if err != nil || token == "" {
		return nil, ErrNoMatch
	}
	class, ok := ResolveClass(reg, vars)
	if !ok {
		return nil, ErrNoMatch
	}

	model := class.Model()
	id, err := model.ParseID(token)
	if err != nil {
		return nil, ErrNoMatch
	}

	row, err := rows.FetchRow(model, id)
	if err != nil {
		if errors.Is(err, store.ErrRowNotFound) {
			return nil, ErrNoMatch
		}
		return nil, fmt.Errorf("resolving %s %s: %w", model.Name, token, err)
	}
	return NewInstanceContext(model, row), nil
}

// Class is a middleware resolving the model of list and create routes
func Class(reg *registry.Registry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolved, ok := ResolveClass(reg, mux.Vars(r))
			if !ok {
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), resolved)))
		})
	}
}

// Instance is a middleware resolving the row of edit routes
func Instance(reg *registry.Registry, rows store.RowsStore) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolved, err := ResolveInstance(reg, rows, mux.Vars(r))
			if err != nil {
				if errors.Is(err, ErrNoMatch) {
					http.NotFound(w, r)
					return
				}
				log.Printf("Error: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), resolved)))
		})
	}
}
