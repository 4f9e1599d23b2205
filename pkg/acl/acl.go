package acl

// Action is the effect of an ACE
type Action int

const (
	// Deny is the zero value so that an uninitialised entry never grants
	Deny Action = iota
	Allow
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "Allow"
	case Deny:
		return "Deny"
	default:
		return "Action(?)"
	}
}

// System principals held by callers regardless of their credentials
const (
	Everyone      = "system.Everyone"
	Authenticated = "system.Authenticated"
)

// ACE is a single access-control entry
type ACE struct {
	Action     Action
	Principal  string
	Permission string
}

// ACL is an ordered list of entries
type ACL []ACE

// Resource is anything an ACL can be attached to
type Resource interface {
	ACL() ACL
	SetACL(ACL)
}

// Holder is embedded by types that carry a per-request ACL
type Holder struct {
	acl ACL
}

// ACL returns the attached list
func (h *Holder) ACL() ACL {
	return h.acl
}

// SetACL replaces the attached list
func (h *Holder) SetACL(acl ACL) {
	h.acl = acl
}
