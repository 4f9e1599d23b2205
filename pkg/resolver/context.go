package resolver

import (
	"context"
	"net/http"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/acl"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/widget"
)

// Context is the resolved target of an admin request. It is either a
// *ClassContext or an *InstanceContext.
type Context interface {
	acl.Resource

	// Model returns the resolved model
	Model() *registry.Model
	// BindForm fills a form with the values the page starts from
	BindForm(form *widget.Form)
	// Prepare returns validated values ready to be persisted
	Prepare(data map[string]interface{}) map[string]interface{}

	resolved()
}

// ClassContext targets a model as a whole: its list and create pages
type ClassContext struct {
	acl.Holder
	model *registry.Model
}

// NewClassContext returns a context for the model
func NewClassContext(model *registry.Model) *ClassContext {
	return &ClassContext{model: model}
}

func (c *ClassContext) Model() *registry.Model { return c.model }

// BindForm leaves the form empty
func (c *ClassContext) BindForm(*widget.Form) {}

// Prepare returns data unchanged
func (c *ClassContext) Prepare(data map[string]interface{}) map[string]interface{} {
	return data
}

func (c *ClassContext) resolved() {}

// InstanceContext targets a single persisted row: its edit page
type InstanceContext struct {
	acl.Holder
	model *registry.Model
	Row   interface{}
}

// NewInstanceContext returns a context for a loaded row
func NewInstanceContext(model *registry.Model, row interface{}) *InstanceContext {
	return &InstanceContext{model: model, Row: row}
}

func (c *InstanceContext) Model() *registry.Model { return c.model }

// PrimaryKey returns the primary key of the row
func (c *InstanceContext) PrimaryKey() interface{} {
	return c.model.PrimaryKey(c.Row)
}

// BindForm fills the form with the row's current values
func (c *InstanceContext) BindForm(form *widget.Form) {
	form.Bind(c.Row)
}

// Prepare returns a copy of data carrying the row's primary key, so the
// update targets this row whatever was submitted.
func (c *InstanceContext) Prepare(data map[string]interface{}) map[string]interface{} {
	prepared := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		prepared[k] = v
	}
	prepared[c.model.PrimaryField().Name] = c.PrimaryKey()
	return prepared
}

func (c *InstanceContext) resolved() {}

type contextKey struct{}

// WithContext returns a copy of ctx carrying the resolved context
func WithContext(ctx context.Context, resolved Context) context.Context {
	return context.WithValue(ctx, contextKey{}, resolved)
}

// FromContext returns the resolved context stored in ctx, if any
func FromContext(ctx context.Context) (Context, bool) {
	resolved, ok := ctx.Value(contextKey{}).(Context)
	return resolved, ok
}

// FromRequest returns the resolved context of a request, if any
func FromRequest(r *http.Request) (Context, bool) {
	return FromContext(r.Context())
}
