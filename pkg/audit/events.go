package audit

import "fmt"

// Admin operations
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationView   = "view"
)

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RecordEvent is emitted when an admin creates or updates a row
type RecordEvent struct {
	UserID       string
	ClientIP     string
	RequestID    string
	Model        string
	RecordID     string
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e RecordEvent) MessageID() string {
	return "admin-" + e.Operation
}

func (e RecordEvent) resource() string {
	if e.RecordID == "" {
		return e.Model
	}
	return fmt.Sprintf("%s %s", e.Model, e.RecordID)
}

func (e RecordEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %sd %s", e.UserID, e.Operation, e.resource())
	}
	msg := fmt.Sprintf("%s tried to %s %s", e.UserID, e.Operation, e.resource())
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RecordEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e RecordEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RecordEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"model": e.Model,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
	if e.RecordID != "" {
		sd[SDIDSubject]["id"] = e.RecordID
	}
	if e.RequestID != "" {
		sd[SDIDRequest] = map[string]string{"id": e.RequestID}
	}
	return sd
}

// AccessDeniedEvent is emitted when the access guard refuses a request
type AccessDeniedEvent struct {
	UserID     string
	ClientIP   string
	RequestID  string
	Path       string
	Model      string
	Permission string
}

func (e AccessDeniedEvent) MessageID() string {
	return "admin-denied"
}

func (e AccessDeniedEvent) Message() string {
	return fmt.Sprintf("%s was denied %s on %s", e.UserID, e.Permission, e.Path)
}

func (e AccessDeniedEvent) Severity() Severity {
	return SeverityWarning
}

func (e AccessDeniedEvent) Facility() int {
	return FacilityAuth
}

func (e AccessDeniedEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"path": e.Path,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation":  OperationView,
			"permission": e.Permission,
			"result":     "denied",
		},
	}
	if e.Model != "" {
		sd[SDIDSubject]["model"] = e.Model
	}
	if e.RequestID != "" {
		sd[SDIDRequest] = map[string]string{"id": e.RequestID}
	}
	return sd
}
