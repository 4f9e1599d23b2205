// Package acl implements access-control lists and the policy that evaluates
// them.
//
// An ACL is an ordered list of (Action, Principal, Permission) entries
// attached to the object a request operates on. The ACLAuthorizer walks the
// list in order and the first entry whose principal is held by the caller
// and whose permission matches decides. No match denies.
//
//	res.SetACL(acl.ACL{{Action: acl.Allow, Principal: "role:admin", Permission: "admin"}})
//	ok := acl.ACLAuthorizer{}.Permits(res, []string{acl.Everyone, "role:admin"}, "admin")
package acl
