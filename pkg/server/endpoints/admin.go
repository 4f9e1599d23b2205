package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/audit"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/guard"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/markdown"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/resolver"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/widget"
)

// Route names, used to build URLs
const (
	RouteHome = "admin_home"
	RouteList = "admin_list"
	RouteNew  = "admin_new"
	RouteEdit = "admin_edit"
)

// RegisterAdminEndpoints registers the admin pages
func RegisterAdminEndpoints(s *server.Server) {
	r := s.Router
	classResolver := resolver.Class(s.Registry)
	instanceResolver := resolver.Instance(s.Registry, s.RowsStore)
	admin := requireAdmin(s)

	r.HandleFunc("/admin", handleHome(s)).
		Methods("GET").
		Name(RouteHome)

	r.Handle("/admin/{classname}", chain(handleList(s), classResolver, admin)).
		Methods("GET").
		Name(RouteList)

	r.Handle("/admin/{classname}/new", chain(handleAddOrUpdate(s), classResolver, admin)).
		Methods("GET", "POST").
		Name(RouteNew)

	r.Handle("/admin/{classname}/{id}/edit", chain(handleAddOrUpdate(s), instanceResolver, admin)).
		Methods("GET", "POST").
		Name(RouteEdit)
}

// chain wraps h so that middlewares run in the given order
func chain(h http.Handler, middlewares ...mux.MiddlewareFunc) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// requireAdmin checks the configured admin permission on the resolved
// context. The guard is built per request so configuration reloads apply.
func requireAdmin(s *server.Server) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg := s.Config()
			g := guard.Require(
				guard.AdminFactory(cfg.AdminPrincipal, cfg.AdminPermission),
				s.Authorizer,
				cfg.AdminPermission,
			).OnDenied(logDenied(cfg.AdminPermission))
			g.Middleware(next).ServeHTTP(w, r)
		})
	}
}

func logDenied(permission string) guard.DeniedFunc {
	return func(r *http.Request, ctx resolver.Context, principals []string) {
		event := audit.AccessDeniedEvent{
			UserID:     userID(r),
			ClientIP:   clientIP(r),
			RequestID:  middleware.GetRequestID(r.Context()),
			Path:       r.URL.Path,
			Permission: permission,
		}
		if ctx != nil {
			event.Model = ctx.Model().Key
		}
		audit.Log(event)
	}
}

func basePage(s *server.Server) page {
	return page{
		SiteTitle: s.Config().SiteTitle,
		HomeURL:   routeURL(s.Router, RouteHome),
	}
}

func handleHome(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := basePage(s)
		for _, name := range s.Registry.Names() {
			m, _ := s.Registry.Get(name)
			data.Links = append(data.Links, homeLink{
				Name: m.Name,
				URL:  routeURL(s.Router, RouteList, resolver.ClassNameVar, name),
			})
		}
		render(w, http.StatusOK, homeTemplate, data)
	}
}

func handleList(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := resolver.FromRequest(r)
		model := ctx.Model()
		limit := s.Config().ListLimitMax

		rows, err := s.RowsStore.ListRows(model, limit)
		if err != nil {
			internalError(w, fmt.Errorf("listing %s: %w", model.Key, err))
			return
		}
		total, err := s.RowsStore.CountRows(model)
		if err != nil {
			internalError(w, fmt.Errorf("counting %s: %w", model.Key, err))
			return
		}

		grid := widget.NewGrid(model, rows, func(row interface{}) string {
			return editURL(s, model.Key, model.PrimaryKey(row))
		})
		content, err := grid.HTML()
		if err != nil {
			internalError(w, err)
			return
		}
		description, err := markdown.Render(model.Description())
		if err != nil {
			internalError(w, fmt.Errorf("rendering %s description: %w", model.Key, err))
			return
		}

		data := basePage(s)
		data.Heading = model.Name
		data.Model = model.Name
		data.Description = description
		data.NewURL = routeURL(s.Router, RouteNew, resolver.ClassNameVar, model.Key)
		data.Content = content
		if total > int64(len(rows)) {
			data.Notice = fmt.Sprintf("Showing %d of %d rows", len(rows), total)
		}
		render(w, http.StatusOK, defaultTemplate, data)
	}
}

func handleAddOrUpdate(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := resolver.FromRequest(r)
		model := ctx.Model()
		form := widget.NewForm(model)

		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Bad request", http.StatusBadRequest)
				return
			}

			data, err := form.Validate(r.PostForm)
			var invalid *widget.ValidationError
			switch {
			case errors.As(err, &invalid):
				renderForm(w, s, ctx, invalid.Form)
				return
			case err != nil:
				internalError(w, err)
				return
			}

			operation := audit.OperationCreate
			if _, ok := ctx.(*resolver.InstanceContext); ok {
				operation = audit.OperationUpdate
			}
			event := audit.RecordEvent{
				UserID:    userID(r),
				ClientIP:  clientIP(r),
				RequestID: middleware.GetRequestID(r.Context()),
				Model:     model.Key,
				Operation: operation,
			}
			if ictx, ok := ctx.(*resolver.InstanceContext); ok {
				event.RecordID = formatID(ictx.PrimaryKey())
			}

			row, err := s.RowsStore.UpsertRow(model, ctx.Prepare(data))
			if err != nil {
				event.ErrorMessage = err.Error()
				audit.Log(event)
				internalError(w, fmt.Errorf("saving %s: %w", model.Key, err))
				return
			}

			id := model.PrimaryKey(row)
			event.Success = true
			event.RecordID = formatID(id)
			audit.Log(event)

			http.Redirect(w, r, editURL(s, model.Key, id), http.StatusSeeOther)
			return
		}

		ctx.BindForm(form)
		renderForm(w, s, ctx, form)
	}
}

func renderForm(w http.ResponseWriter, s *server.Server, ctx resolver.Context, form *widget.Form) {
	model := ctx.Model()
	content, err := form.HTML()
	if err != nil {
		internalError(w, err)
		return
	}

	data := basePage(s)
	data.Model = model.Name
	data.ListURL = routeURL(s.Router, RouteList, resolver.ClassNameVar, model.Key)
	data.Content = content
	switch c := ctx.(type) {
	case *resolver.InstanceContext:
		data.Heading = fmt.Sprintf("Edit %s %s", model.Name, formatID(c.PrimaryKey()))
	default:
		data.Heading = "New " + model.Name
	}
	render(w, http.StatusOK, defaultTemplate, data)
}

func editURL(s *server.Server, classname string, id interface{}) string {
	return routeURL(s.Router, RouteEdit,
		resolver.ClassNameVar, classname,
		resolver.IDVar, formatID(id),
	)
}
