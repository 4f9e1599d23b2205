package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"gorm.io/gorm/schema"
)

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

var (
	// ErrNotStruct is returned when a model is not a struct or a pointer to one
	ErrNotStruct = errors.New("registry: model must be a struct")
	// ErrNoPrimaryKey is returned for models without a primary key field
	ErrNoPrimaryKey = errors.New("registry: model has no primary key")
	// ErrInvalidID is returned when an identifier token does not fit the primary key type
	ErrInvalidID = errors.New("registry: invalid identifier")
	// ErrUnknownField is returned when assigning a value to a field the model does not have
	ErrUnknownField = errors.New("registry: unknown field")
)

// Describer is implemented by models that carry a Markdown description
// shown above their list and form pages.
type Describer interface {
	AdminDescription() string
}

// Model is a GORM model known to the admin
type Model struct {
	// Name is the Go type name, e.g. "Author"
	Name string
	// Key is the lower-cased name used in URLs
	Key string
	// Type is the struct type of the model
	Type reflect.Type
	// Schema is the parsed GORM schema
	Schema *schema.Schema
}

func newModel(value interface{}, cache *sync.Map, namer schema.Namer) (*Model, error) {
	if value == nil {
		return nil, ErrNotStruct
	}

	t := reflect.TypeOf(value)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t.Name() == "" {
		return nil, fmt.Errorf("%w: %T", ErrNotStruct, value)
	}

	s, err := schema.Parse(reflect.New(t).Interface(), cache, namer)
	if err != nil {
		return nil, fmt.Errorf("registry: parsing %s: %w", t.Name(), err)
	}
	if s.PrioritizedPrimaryField == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPrimaryKey, t.Name())
	}

	return &Model{
		Name:   t.Name(),
		Key:    strings.ToLower(t.Name()),
		Type:   t,
		Schema: s,
	}, nil
}

// Table returns the database table of the model
func (m *Model) Table() string {
	return m.Schema.Table
}

// PrimaryField returns the field used to look rows up by identifier
func (m *Model) PrimaryField() *schema.Field {
	return m.Schema.PrioritizedPrimaryField
}

// New returns a pointer to a new zero row
func (m *Model) New() interface{} {
	return reflect.New(m.Type).Interface()
}

// NewSlice returns a pointer to an empty slice of row pointers, suitable as a
// destination for gorm's Find.
func (m *Model) NewSlice() interface{} {
	return reflect.New(reflect.SliceOf(reflect.PtrTo(m.Type))).Interface()
}

// Rows flattens a slice produced by NewSlice
func (m *Model) Rows(slice interface{}) []interface{} {
	v := reflect.Indirect(reflect.ValueOf(slice))
	if v.Kind() != reflect.Slice {
		return nil
	}

	rows := make([]interface{}, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		rows = append(rows, v.Index(i).Interface())
	}
	return rows
}

// PrimaryKey returns the primary key value of a row
func (m *Model) PrimaryKey(row interface{}) interface{} {
	v := reflect.Indirect(reflect.ValueOf(row))
	return v.FieldByIndex(m.PrimaryField().StructField.Index).Interface()
}

// Description returns the Markdown description of the model, if it has one
func (m *Model) Description() string {
	if d, ok := m.New().(Describer); ok {
		return d.AdminDescription()
	}
	return ""
}

// ParseID converts an identifier token from a URL into a value of the
// primary key's type.
func (m *Model) ParseID(token string) (interface{}, error) {
	if token == "" {
		return nil, ErrInvalidID
	}

	t := m.PrimaryField().FieldType
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil || v.OverflowInt(n) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, token)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(token, 10, 64)
		if err != nil || v.OverflowUint(n) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, token)
		}
		v.SetUint(n)
	case reflect.String:
		v.SetString(token)
	default:
		// Keys with custom types (uuids etc) are handed to the driver as is
		return token, nil
	}
	return v.Interface(), nil
}

// Assign copies values keyed by Go field name onto row. Values are converted
// to the field's type when they are not directly assignable; a nil value
// resets the field to its zero value.
func (m *Model) Assign(row interface{}, values map[string]interface{}) error {
	rv := reflect.Indirect(reflect.ValueOf(row))
	if rv.Kind() != reflect.Struct || !rv.CanSet() {
		return fmt.Errorf("%w: %T", ErrNotStruct, row)
	}

	for name, value := range values {
		field := m.Schema.LookUpField(name)
		if field == nil {
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, m.Name, name)
		}
		if err := setValue(rv.FieldByIndex(field.StructField.Index), value); err != nil {
			return fmt.Errorf("registry: setting %s.%s: %w", m.Name, field.Name, err)
		}
	}
	return nil
}

func setValue(target reflect.Value, value interface{}) error {
	if value == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	v := reflect.ValueOf(value)
	if target.Kind() == reflect.Ptr && v.Kind() != reflect.Ptr {
		elem := reflect.New(target.Type().Elem())
		if err := setValue(elem.Elem(), value); err != nil {
			return err
		}
		target.Set(elem)
		return nil
	}

	switch {
	case v.Type().AssignableTo(target.Type()):
		target.Set(v)
	case target.CanAddr() && target.Addr().Type().Implements(scannerType):
		if err := target.Addr().Interface().(sql.Scanner).Scan(value); err != nil {
			return fmt.Errorf("scanning %T into %s: %w", value, target.Type(), err)
		}
	case v.Type().ConvertibleTo(target.Type()):
		target.Set(v.Convert(target.Type()))
	default:
		return fmt.Errorf("cannot use %T as %s", value, target.Type())
	}
	return nil
}
