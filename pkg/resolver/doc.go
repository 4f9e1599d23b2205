// Package resolver turns the classname and id route variables into the
// object a request operates on.
//
// A list or create request resolves to a *ClassContext, an edit request to
// an *InstanceContext holding the row loaded by primary key. Anything that
// does not resolve is treated as a route that does not match and answered
// with 404 before any handler runs.
//
//	r.Handle("/admin/{classname}", resolver.Class(reg)(handler))
//	r.Handle("/admin/{classname}/{id}/edit", resolver.Instance(reg, rows)(handler))
//
// Handlers read the resolved context back with FromRequest.
package resolver
