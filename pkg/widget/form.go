package widget

import (
	"database/sql/driver"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
)

// DateTimeLayout is the value format of datetime-local inputs
const DateTimeLayout = "2006-01-02T15:04"

const (
	msgRequired = "Value required"
	msgInvalid  = "Invalid value"
	msgTooLong  = "Value too long"
)

// ValidationError is returned by Validate when submitted data is rejected.
// The form carries the submitted values and per-field messages so it can be
// rendered again.
type ValidationError struct {
	Form *Form
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Form.Errors))
	for _, f := range e.Form.Fields {
		if _, ok := e.Form.Errors[f.Name]; ok {
			names = append(names, f.Name)
		}
	}
	return fmt.Sprintf("widget: invalid %s: %s", e.Form.Model.Name, strings.Join(names, ", "))
}

// Form edits one row of a model
type Form struct {
	Model  *registry.Model
	Fields []*Field
	// Action is the URL the form posts to; empty posts back to the current page
	Action string
	// Values holds the display value of each field, keyed by field name
	Values map[string]string
	// Errors holds validation messages, keyed by field name
	Errors map[string]string
}

// NewForm returns an empty form for the model
func NewForm(m *registry.Model) *Form {
	return &Form{
		Model:  m,
		Fields: Fields(m),
		Values: map[string]string{},
		Errors: map[string]string{},
	}
}

// Bind fills the form values from an existing row
func (f *Form) Bind(row interface{}) {
	rv := reflect.Indirect(reflect.ValueOf(row))
	for _, field := range f.Fields {
		f.Values[field.Name] = formatValue(rv.FieldByIndex(field.schema.StructField.Index))
	}
}

// Valid reports whether the last validation produced no errors
func (f *Form) Valid() bool {
	return len(f.Errors) == 0
}

// Validate converts submitted data into typed values keyed by field name.
// Submitted values are kept on the form either way.
func (f *Form) Validate(data url.Values) (map[string]interface{}, error) {
	f.Errors = map[string]string{}
	values := make(map[string]interface{}, len(f.Fields))
	for _, field := range f.Fields {
		raw := data.Get(field.Name)
		f.Values[field.Name] = raw

		v, msg := field.parse(raw)
		if msg != "" {
			f.Errors[field.Name] = msg
			continue
		}
		values[field.Name] = v
	}

	if !f.Valid() {
		return nil, &ValidationError{Form: f}
	}
	return values, nil
}

// parse converts a raw input value. A non-empty message means the value was
// rejected.
func (f *Field) parse(raw string) (interface{}, string) {
	if f.Kind == KindCheckbox {
		return checked(raw), ""
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if f.Required {
			return nil, msgRequired
		}
		return nil, ""
	}

	t := valueType(f.schema.FieldType)
	probe := reflect.New(t).Elem()

	switch f.Kind {
	case KindText, KindTextArea:
		if f.MaxLength > 0 && utf8.RuneCountInString(trimmed) > f.MaxLength {
			return nil, msgTooLong
		}
		return trimmed, ""
	case KindNumber:
		switch t.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(trimmed, 10, 64)
			if err != nil || probe.OverflowUint(n) {
				return nil, msgInvalid
			}
			return n, ""
		default:
			n, err := strconv.ParseInt(trimmed, 10, 64)
			if err != nil || (probe.Kind() >= reflect.Int && probe.Kind() <= reflect.Int64 && probe.OverflowInt(n)) {
				return nil, msgInvalid
			}
			return n, ""
		}
	case KindDecimal:
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, msgInvalid
		}
		return n, ""
	case KindDateTime:
		if ts, err := time.ParseInLocation(DateTimeLayout, trimmed, time.UTC); err == nil {
			return ts, ""
		}
		if ts, err := time.Parse(time.RFC3339, trimmed); err == nil {
			return ts, ""
		}
		return nil, msgInvalid
	}
	return trimmed, ""
}

func checked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "off":
		return false
	}
	return true
}

func formatValue(v reflect.Value) string {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	switch x := v.Interface().(type) {
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.UTC().Format(DateTimeLayout)
	case []byte:
		return string(x)
	case driver.Valuer:
		val, err := x.Value()
		if err != nil || val == nil {
			return ""
		}
		return formatValue(reflect.ValueOf(val))
	}
	return fmt.Sprint(v.Interface())
}
