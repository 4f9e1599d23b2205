// Package audit provides audit logging for admin operations.
//
// Records are written in RFC5424 syslog format to stdout and, when
// AUDIT_DATABASE_URL is set, persisted to its messages table.
//
// # Event Types
//
//   - RecordEvent: a row was created or updated (admin-create, admin-update)
//   - AccessDeniedEvent: the access guard refused a request (admin-denied)
//
// # Usage
//
//	audit.Log(audit.RecordEvent{
//	    UserID:    "user:alice",
//	    Model:     "book",
//	    RecordID:  "12",
//	    Operation: audit.OperationUpdate,
//	    Success:   true,
//	})
package audit
