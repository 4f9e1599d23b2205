package widget

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

type inputView struct {
	ID        string
	Name      string
	Label     string
	Kind      Kind
	Value     string
	Checked   bool
	Required  bool
	MaxLength int
	Error     string
}

type rowView struct {
	URL   string
	Cells []string
}

// HTML renders the form
func (f *Form) HTML() (template.HTML, error) {
	inputs := make([]inputView, len(f.Fields))
	for i, field := range f.Fields {
		value := f.Values[field.Name]
		inputs[i] = inputView{
			ID:        strings.ToLower(f.Model.Key + "-" + field.Name),
			Name:      field.Name,
			Label:     field.Label,
			Kind:      field.Kind,
			Value:     value,
			Checked:   field.Kind == KindCheckbox && checked(value),
			Required:  field.Required,
			MaxLength: field.MaxLength,
			Error:     f.Errors[field.Name],
		}
	}

	return execute("form.html", struct {
		Action string
		Inputs []inputView
	}{f.Action, inputs})
}

// HTML renders the grid
func (g *Grid) HTML() (template.HTML, error) {
	rows := make([]rowView, len(g.Rows))
	for i, row := range g.Rows {
		rows[i].Cells = g.Cells(row)
		if g.EditURL != nil {
			rows[i].URL = g.EditURL(row)
		}
	}

	return execute("grid.html", struct {
		Headers []string
		Rows    []rowView
	}{g.Headers(), rows})
}

func execute(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
