package acl

import "context"

type principalsKey struct{}

// WithPrincipals returns a copy of ctx carrying the caller's principals
func WithPrincipals(ctx context.Context, principals []string) context.Context {
	return context.WithValue(ctx, principalsKey{}, principals)
}

// PrincipalsFrom returns the principals stored in ctx. Callers nobody
// authenticated only hold Everyone.
func PrincipalsFrom(ctx context.Context) []string {
	if principals, ok := ctx.Value(principalsKey{}).([]string); ok {
		return principals
	}
	return []string{Everyone}
}
