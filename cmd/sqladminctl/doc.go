// Command sqladminctl runs the sqladmin server and its maintenance tasks.
//
// sqladmin serves HTML list, create and edit pages for every registered
// GORM model under /admin. Access to every model page requires the
// configured admin permission, granted to the configured admin principal.
//
// # Quick Start
//
//	# Create the demo schema
//	sqladminctl db migrate
//
//	# Issue a bearer token for an administrator
//	sqladminctl token issue alice --role admin
//
//	# Start the server
//	sqladminctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - SQLADMIN_JWT_SECRET: HMAC secret for bearer tokens
//   - SQLADMIN_CONFIG_PATH: directory holding sqladmin.yml (default: /etc/sqladmin)
//   - SQLADMIN_LOG_LEVEL: "debug" logs every SQL statement
//   - AUDIT_DATABASE_URL: optional database for audit records
//   - PORT: Server port (default: 8000)
package main
