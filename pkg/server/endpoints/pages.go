package endpoints

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var templateFiles embed.FS

var (
	homeTemplate    = parsePage("home.html")
	defaultTemplate = parsePage("default.html")
)

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFiles, "templates/layout.html", "templates/"+name))
}

// homeLink is a (display name, list URL) pair on the home page
type homeLink struct {
	Name string
	URL  string
}

// page is the data of every admin page
type page struct {
	SiteTitle   string
	HomeURL     string
	Heading     string
	Model       string
	Description template.HTML
	ListURL     string
	NewURL      string
	Notice      string
	Content     template.HTML
	Links       []homeLink
}

func render(w http.ResponseWriter, status int, tmpl *template.Template, data page) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("Error rendering %s: %v", tmpl.Name(), err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
