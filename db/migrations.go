// Package db embeds the SQL migrations of the demo schema and the audit
// messages table.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
