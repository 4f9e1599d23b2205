package widget

import (
	"database/sql"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
)

type Test1 struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"size:50;not null"`
}

type Book struct {
	ID        uint
	Title     string `gorm:"size:200;not null"`
	Summary   string `gorm:"type:text"`
	AuthorID  uint
	Price     float64
	InPrint   bool `gorm:"not null"`
	Published *time.Time
	Secret    string `sqladmin:"-"`
	Notes     string `sqladmin:"textarea;label:Editor notes"`
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt
}

type Profile struct {
	ID      uint
	Name    string `gorm:"not null"`
	Note    sql.NullString
	Age     sql.NullInt64
	Score   sql.NullFloat64
	Active  sql.NullBool
	Updated sql.NullTime
}

func modelFor(t *testing.T, value interface{}) *registry.Model {
	t.Helper()
	reg, err := registry.New(nil, value)
	require.NoError(t, err)
	names := reg.Names()
	require.Len(t, names, 1)
	m, _ := reg.Get(names[0])
	return m
}

func fieldNames(fields []*Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func TestFields(t *testing.T) {
	fields := Fields(modelFor(t, &Book{}))
	require.Equal(t,
		[]string{"Title", "Summary", "AuthorID", "Price", "InPrint", "Published", "Notes"},
		fieldNames(fields),
	)

	byName := map[string]*Field{}
	for _, f := range fields {
		byName[f.Name] = f
	}

	assert.Equal(t, KindText, byName["Title"].Kind)
	assert.True(t, byName["Title"].Required)
	assert.Equal(t, 200, byName["Title"].MaxLength)

	assert.Equal(t, KindTextArea, byName["Summary"].Kind)
	assert.False(t, byName["Summary"].Required)

	assert.Equal(t, KindNumber, byName["AuthorID"].Kind)
	assert.Equal(t, "Author ID", byName["AuthorID"].Label)

	assert.Equal(t, KindDecimal, byName["Price"].Kind)

	assert.Equal(t, KindCheckbox, byName["InPrint"].Kind)
	assert.False(t, byName["InPrint"].Required)
	assert.Equal(t, "In print", byName["InPrint"].Label)

	assert.Equal(t, KindDateTime, byName["Published"].Kind)

	assert.Equal(t, KindTextArea, byName["Notes"].Kind)
	assert.Equal(t, "Editor notes", byName["Notes"].Label)
}

func TestHumanize(t *testing.T) {
	for name, want := range map[string]string{
		"Name":      "Name",
		"AuthorID":  "Author ID",
		"CreatedAt": "Created at",
		"IDTest":    "ID test",
		"HTTPCode":  "HTTP code",
		"X":         "X",
	} {
		assert.Equal(t, want, humanize(name), name)
	}
}

func TestValidate(t *testing.T) {
	m := modelFor(t, &Test1{})

	t.Run("valid", func(t *testing.T) {
		form := NewForm(m)
		values, err := form.Validate(url.Values{"Name": {" Fred "}})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"Name": "Fred"}, values)
		assert.True(t, form.Valid())
	})

	t.Run("missing value", func(t *testing.T) {
		form := NewForm(m)
		values, err := form.Validate(url.Values{})
		assert.Nil(t, values)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Same(t, form, verr.Form)
		assert.Equal(t, map[string]string{"Name": "Value required"}, form.Errors)
		assert.Contains(t, err.Error(), "Name")
	})

	t.Run("too long", func(t *testing.T) {
		form := NewForm(m)
		_, err := form.Validate(url.Values{"Name": {strings.Repeat("a", 51)}})
		require.Error(t, err)
		assert.Equal(t, "Value too long", form.Errors["Name"])
		assert.Equal(t, strings.Repeat("a", 51), form.Values["Name"])
	})
}

func TestValidateTypes(t *testing.T) {
	form := NewForm(modelFor(t, &Book{}))

	values, err := form.Validate(url.Values{
		"Title":     {"Dune"},
		"AuthorID":  {"3"},
		"Price":     {"9.5"},
		"InPrint":   {"true"},
		"Published": {"1965-08-01T10:30"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune", values["Title"])
	assert.Equal(t, uint64(3), values["AuthorID"])
	assert.Equal(t, 9.5, values["Price"])
	assert.Equal(t, true, values["InPrint"])
	assert.Equal(t, time.Date(1965, 8, 1, 10, 30, 0, 0, time.UTC), values["Published"])
	assert.Nil(t, values["Summary"])

	_, err = form.Validate(url.Values{
		"Title":     {"Dune"},
		"AuthorID":  {"-1"},
		"Price":     {"cheap"},
		"Published": {"yesterday"},
	})
	require.Error(t, err)
	assert.Equal(t, map[string]string{
		"AuthorID":  "Invalid value",
		"Price":     "Invalid value",
		"Published": "Invalid value",
	}, form.Errors)
}

func TestValidatedValuesAssign(t *testing.T) {
	m := modelFor(t, &Book{})
	form := NewForm(m)

	values, err := form.Validate(url.Values{
		"Title":     {"Dune"},
		"AuthorID":  {"3"},
		"Published": {"1965-08-01T10:30"},
	})
	require.NoError(t, err)

	book := m.New().(*Book)
	require.NoError(t, m.Assign(book, values))
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, uint(3), book.AuthorID)
	require.NotNil(t, book.Published)
	assert.Equal(t, 1965, book.Published.Year())
	assert.False(t, book.InPrint)
}

func TestNullableFields(t *testing.T) {
	m := modelFor(t, &Profile{})

	kinds := map[string]Kind{}
	for _, f := range Fields(m) {
		kinds[f.Name] = f.Kind
	}
	assert.Equal(t, map[string]Kind{
		"Name":    KindText,
		"Note":    KindText,
		"Age":     KindNumber,
		"Score":   KindDecimal,
		"Active":  KindCheckbox,
		"Updated": KindDateTime,
	}, kinds)

	t.Run("set values", func(t *testing.T) {
		form := NewForm(m)
		values, err := form.Validate(url.Values{
			"Name":    {"Ada"},
			"Note":    {"hello"},
			"Age":     {"42"},
			"Score":   {"1.5"},
			"Active":  {"on"},
			"Updated": {"2024-03-01T12:30"},
		})
		require.NoError(t, err)

		profile := m.New().(*Profile)
		require.NoError(t, m.Assign(profile, values))
		assert.Equal(t, sql.NullString{String: "hello", Valid: true}, profile.Note)
		assert.Equal(t, sql.NullInt64{Int64: 42, Valid: true}, profile.Age)
		assert.Equal(t, sql.NullFloat64{Float64: 1.5, Valid: true}, profile.Score)
		assert.Equal(t, sql.NullBool{Bool: true, Valid: true}, profile.Active)
		assert.True(t, profile.Updated.Valid)
		assert.Equal(t, 2024, profile.Updated.Time.Year())

		form.Bind(profile)
		assert.Equal(t, "hello", form.Values["Note"])
		assert.Equal(t, "42", form.Values["Age"])
	})

	t.Run("empty values are null", func(t *testing.T) {
		form := NewForm(m)
		values, err := form.Validate(url.Values{"Name": {"Ada"}})
		require.NoError(t, err)

		profile := &Profile{Note: sql.NullString{String: "old", Valid: true}}
		require.NoError(t, m.Assign(profile, values))
		assert.False(t, profile.Note.Valid)
		assert.False(t, profile.Age.Valid)
		assert.False(t, profile.Updated.Valid)
	})

	t.Run("invalid number", func(t *testing.T) {
		form := NewForm(m)
		_, err := form.Validate(url.Values{"Name": {"Ada"}, "Age": {"old"}})
		assert.Error(t, err)
		assert.Equal(t, "Invalid value", form.Errors["Age"])
	})
}

func TestBind(t *testing.T) {
	m := modelFor(t, &Book{})
	published := time.Date(1965, 8, 1, 10, 30, 0, 0, time.UTC)

	form := NewForm(m)
	form.Bind(&Book{
		ID:        1,
		Title:     "Dune",
		AuthorID:  3,
		Price:     9.5,
		InPrint:   true,
		Published: &published,
	})

	assert.Equal(t, "Dune", form.Values["Title"])
	assert.Equal(t, "3", form.Values["AuthorID"])
	assert.Equal(t, "9.5", form.Values["Price"])
	assert.Equal(t, "true", form.Values["InPrint"])
	assert.Equal(t, "1965-08-01T10:30", form.Values["Published"])
	assert.Equal(t, "", form.Values["Summary"])
}

func TestFormHTML(t *testing.T) {
	m := modelFor(t, &Test1{})

	form := NewForm(m)
	form.Action = "/admin/test1/new"
	_, err := form.Validate(url.Values{"Name": {"<b>x</b>" + strings.Repeat("a", 50)}})
	require.Error(t, err)

	html, err := form.HTML()
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, `action="/admin/test1/new"`)
	assert.Contains(t, out, `name="Name"`)
	assert.Contains(t, out, `maxlength="50"`)
	assert.Contains(t, out, "Value too long")
	assert.Contains(t, out, "&lt;b&gt;x&lt;/b&gt;")
	assert.NotContains(t, out, "<b>x</b>")
}

func TestFormHTMLCheckbox(t *testing.T) {
	form := NewForm(modelFor(t, &Book{}))
	form.Bind(&Book{Title: "Dune", InPrint: true})

	html, err := form.HTML()
	require.NoError(t, err)
	assert.Contains(t, string(html), `name="InPrint" value="true" checked`)
	assert.Contains(t, string(html), `<textarea id="book-summary" name="Summary">`)
}

func TestGrid(t *testing.T) {
	m := modelFor(t, &Test1{})
	rows := []interface{}{&Test1{ID: 1, Name: "Bob"}, &Test1{ID: 2, Name: "Fred"}}

	grid := NewGrid(m, rows, func(row interface{}) string {
		return "/admin/test1/" + m.Schema.PrioritizedPrimaryField.Name + "/edit"
	})
	assert.Equal(t, []string{"ID", "Name"}, grid.Headers())
	assert.Equal(t, []string{"2", "Fred"}, grid.Cells(rows[1]))

	html, err := grid.HTML()
	require.NoError(t, err)
	assert.Contains(t, string(html), `<th>Name</th>`)
	assert.Contains(t, string(html), `<a href="/admin/test1/ID/edit">1</a>`)
	assert.Contains(t, string(html), `<td>Fred</td>`)
}

func TestGridEmpty(t *testing.T) {
	grid := NewGrid(modelFor(t, &Test1{}), nil, nil)

	html, err := grid.HTML()
	require.NoError(t, err)
	assert.Contains(t, string(html), "No rows")
	assert.NotContains(t, string(html), "<a ")
}
