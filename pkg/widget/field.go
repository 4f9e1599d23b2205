package widget

import (
	"database/sql"
	"reflect"
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
)

// Kind selects the HTML input used for a field
type Kind string

const (
	KindText     Kind = "text"
	KindTextArea Kind = "textarea"
	KindNumber   Kind = "number"
	KindDecimal  Kind = "decimal"
	KindCheckbox Kind = "checkbox"
	KindDateTime Kind = "datetime-local"
)

const tagName = "sqladmin"

// textAreaSize is the column size above which strings get a textarea
const textAreaSize = 255

var (
	deletedAtType = reflect.TypeOf(gorm.DeletedAt{})
	timeType      = reflect.TypeOf(time.Time{})
	scannerType   = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
)

// Field is a single form input derived from a schema field
type Field struct {
	// Name is the Go field name, also used as the input name
	Name      string
	Label     string
	Kind      Kind
	Required  bool
	MaxLength int

	schema *schema.Field
}

// Fields returns the editable fields of a model in declaration order
func Fields(m *registry.Model) []*Field {
	fields := make([]*Field, 0, len(m.Schema.Fields))
	for _, sf := range m.Schema.Fields {
		if f, ok := newField(sf); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// columns returns the primary key followed by the editable fields
func columns(m *registry.Model) []*Field {
	pk := m.PrimaryField()
	cols := []*Field{describe(pk, schema.ParseTagSetting(pk.Tag.Get(tagName), ";"))}
	for _, f := range Fields(m) {
		if f.Name != pk.Name {
			cols = append(cols, f)
		}
	}
	return cols
}

func newField(sf *schema.Field) (*Field, bool) {
	settings := schema.ParseTagSetting(sf.Tag.Get(tagName), ";")
	if _, skip := settings["-"]; skip {
		return nil, false
	}

	switch {
	case sf.DBName == "":
	case sf.PrimaryKey && (sf.AutoIncrement || sf.HasDefaultValue):
	case sf.AutoCreateTime > 0 || sf.AutoUpdateTime > 0:
	case sf.FieldType == deletedAtType:
	case !sf.Creatable && !sf.Updatable:
	default:
		return describe(sf, settings), true
	}
	return nil, false
}

func describe(sf *schema.Field, settings map[string]string) *Field {
	f := &Field{
		Name:   sf.Name,
		Label:  humanize(sf.Name),
		Kind:   kindOf(sf, settings),
		schema: sf,
	}
	if label, ok := settings["LABEL"]; ok && label != "LABEL" {
		f.Label = label
	}
	if f.Kind == KindText || f.Kind == KindTextArea {
		f.MaxLength = sf.Size
	}

	_, required := settings["REQUIRED"]
	f.Required = required || sf.PrimaryKey ||
		(sf.NotNull && !sf.HasDefaultValue && f.Kind != KindCheckbox)
	return f
}

func kindOf(sf *schema.Field, settings map[string]string) Kind {
	t := valueType(sf.FieldType)

	switch t.Kind() {
	case reflect.Bool:
		return KindCheckbox
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindNumber
	case reflect.Float32, reflect.Float64:
		return KindDecimal
	case reflect.String:
		if _, ok := settings["TEXTAREA"]; ok {
			return KindTextArea
		}
		if sf.Size > textAreaSize || strings.EqualFold(string(sf.DataType), "text") {
			return KindTextArea
		}
		return KindText
	}
	if t == timeType {
		return KindDateTime
	}
	return KindText
}

// valueType strips pointers and nullable wrappers such as sql.NullString
// or sql.Null[T], returning the type of the wrapped value.
func valueType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == timeType || !reflect.PtrTo(t).Implements(scannerType) || t.NumField() != 2 {
		return t
	}
	valid, ok := t.FieldByName("Valid")
	if !ok || valid.Type.Kind() != reflect.Bool {
		return t
	}
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.Name != "Valid" {
			return valueType(f.Type)
		}
	}
	return t
}

// humanize turns a Go field name into a label: "AuthorID" -> "Author ID",
// "CreatedAt" -> "Created at".
func humanize(name string) string {
	runes := []rune(name)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		if unicode.IsUpper(cur) && (unicode.IsLower(prev) || (unicode.IsUpper(prev) && unicode.IsLower(next))) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	words = append(words, string(runes[start:]))

	for i, w := range words {
		if i > 0 && !isAcronym(w) {
			words[i] = strings.ToLower(w)
		}
	}
	return strings.Join(words, " ")
}

func isAcronym(word string) bool {
	if len(word) < 2 {
		return false
	}
	for _, r := range word {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
