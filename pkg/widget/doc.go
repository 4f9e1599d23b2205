// Package widget generates HTML forms and tables from GORM model metadata.
//
// Fields are derived from the model's parsed schema: the GORM data type picks
// the input kind, `not null` columns without a default become required, and
// auto-managed columns (auto-increment keys, timestamps, soft-delete markers)
// are left out. The `sqladmin` struct tag refines the defaults:
//
//	Bio   string `gorm:"type:text" sqladmin:"textarea"`
//	Email string `sqladmin:"label:E-mail;required"`
//	Token string `sqladmin:"-"`
//
// A Form validates submitted values and, on failure, carries the submitted
// values and per-field error messages so it can be rendered again.
package widget
