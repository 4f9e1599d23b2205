package acl

// Authorizer decides whether a set of principals holds a permission on a resource
type Authorizer interface {
	Permits(resource Resource, principals []string, permission string) bool
}

// ACLAuthorizer evaluates the resource's ACL, first match wins
type ACLAuthorizer struct{}

var _ Authorizer = ACLAuthorizer{}

// Permits implements Authorizer
func (ACLAuthorizer) Permits(resource Resource, principals []string, permission string) bool {
	if resource == nil {
		return false
	}

	held := make(map[string]struct{}, len(principals))
	for _, p := range principals {
		held[p] = struct{}{}
	}

	for _, ace := range resource.ACL() {
		if ace.Permission != permission {
			continue
		}
		if _, ok := held[ace.Principal]; !ok {
			continue
		}
		return ace.Action == Allow
	}
	return false
}
