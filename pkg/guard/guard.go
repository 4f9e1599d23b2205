package guard

import (
	"net/http"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/acl"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/resolver"
)

// Factory returns the object a request operates on, with its ACL attached.
// It returns nil when the request carries no resolved context.
type Factory func(r *http.Request) resolver.Context

// AdminFactory returns a factory that replaces the ACL of the resolved
// context with the single entry (Allow, principal, permission) and returns
// the same context.
func AdminFactory(principal, permission string) Factory {
	return func(r *http.Request) resolver.Context {
		ctx, ok := resolver.FromRequest(r)
		if !ok {
			return nil
		}
		Protect(ctx, principal, permission)
		return ctx
	}
}

// Protect replaces the ACL of a resource with a single allow entry
func Protect(resource acl.Resource, principal, permission string) {
	resource.SetACL(acl.ACL{{Action: acl.Allow, Principal: principal, Permission: permission}})
}

// DeniedFunc is called for every refused request
type DeniedFunc func(r *http.Request, ctx resolver.Context, principals []string)

// Guard checks a permission on the object built by its factory
type Guard struct {
	Factory    Factory
	Authorizer acl.Authorizer
	Permission string
	// Principals returns the principals of a request; nil reads them from
	// the request context.
	Principals func(r *http.Request) []string
	// Denied is optional
	Denied DeniedFunc
}

// Require returns a guard asking authorizer for permission on the objects
// built by factory.
func Require(factory Factory, authorizer acl.Authorizer, permission string) *Guard {
	return &Guard{
		Factory:    factory,
		Authorizer: authorizer,
		Permission: permission,
	}
}

// OnDenied sets the hook called for refused requests and returns the guard
func (g *Guard) OnDenied(fn DeniedFunc) *Guard {
	g.Denied = fn
	return g
}

func (g *Guard) principals(r *http.Request) []string {
	if g.Principals != nil {
		return g.Principals(r)
	}
	return acl.PrincipalsFrom(r.Context())
}

// Permits reports whether the request may proceed
func (g *Guard) Permits(r *http.Request) (resolver.Context, []string, bool) {
	ctx := g.Factory(r)
	principals := g.principals(r)
	if ctx == nil {
		return nil, principals, false
	}
	return ctx, principals, g.Authorizer.Permits(ctx, principals, g.Permission)
}

// Middleware answers 403 to requests the guard does not permit
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, principals, ok := g.Permits(r)
		if !ok {
			if g.Denied != nil {
				g.Denied(r, ctx, principals)
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
