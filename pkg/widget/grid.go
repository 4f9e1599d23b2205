package widget

import (
	"reflect"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
)

// Grid lists rows of a model as a table
type Grid struct {
	Model   *registry.Model
	Columns []*Field
	Rows    []interface{}
	// EditURL returns the edit link of a row; nil renders no links
	EditURL func(row interface{}) string
}

// NewGrid returns a grid showing the primary key followed by every editable
// field.
func NewGrid(m *registry.Model, rows []interface{}, editURL func(row interface{}) string) *Grid {
	return &Grid{
		Model:   m,
		Columns: columns(m),
		Rows:    rows,
		EditURL: editURL,
	}
}

// Headers returns the column labels
func (g *Grid) Headers() []string {
	headers := make([]string, len(g.Columns))
	for i, c := range g.Columns {
		headers[i] = c.Label
	}
	return headers
}

// Cells returns the display values of a row, one per column
func (g *Grid) Cells(row interface{}) []string {
	rv := reflect.Indirect(reflect.ValueOf(row))
	cells := make([]string, len(g.Columns))
	for i, c := range g.Columns {
		cells[i] = formatValue(rv.FieldByIndex(c.schema.StructField.Index))
	}
	return cells
}
