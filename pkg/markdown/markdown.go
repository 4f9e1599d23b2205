// Package markdown renders model descriptions to sanitized HTML.
package markdown

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md       goldmark.Markdown
	policy   *bluemonday.Policy
	initOnce sync.Once
)

func initRenderer() {
	initOnce.Do(func() {
		md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Table))

		// Formatting and links only; descriptions never carry scripts or forms
		policy = bluemonday.NewPolicy()
		policy.AllowStandardURLs()
		policy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
	})
}

// Render converts Markdown source to sanitized HTML. Empty source renders
// to an empty string.
func Render(source string) (template.HTML, error) {
	if source == "" {
		return "", nil
	}
	initRenderer()

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}
