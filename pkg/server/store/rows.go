package store

import (
	"errors"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
)

// ErrRowNotFound is returned when no row matches a primary key
var ErrRowNotFound = errors.New("row not found")

// RowsStore abstracts row persistence for registered models
type RowsStore interface {
	// FetchRow loads a single row by primary key
	FetchRow(model *registry.Model, id interface{}) (interface{}, error)

	// ListRows returns rows ordered by primary key; limit <= 0 means no limit
	ListRows(model *registry.Model, limit int) ([]interface{}, error)

	// CountRows returns the number of rows of a model
	CountRows(model *registry.Model) (int64, error)

	// UpsertRow updates the row whose primary key is present in values, or
	// creates a new one, and commits. It returns the row as reloaded after
	// the commit.
	UpsertRow(model *registry.Model, values map[string]interface{}) (interface{}, error)
}
