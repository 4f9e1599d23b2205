// Package config provides configuration management for sqladmin.
//
// Configuration is resolved from, in increasing precedence:
//
//   - Built-in defaults
//   - sqladmin.yml under SQLADMIN_CONFIG_PATH (default /etc/sqladmin)
//   - SQLADMIN_* environment variables
//
// Each attribute records which of these it came from; see
// "sqladminctl configuration show".
//
// # Key Configuration Options
//
//   - SQLADMIN_ADMIN_PRINCIPAL: Principal granted the admin permission
//   - SQLADMIN_LIST_LIMIT_MAX: Maximum number of rows on a list page
//   - SQLADMIN_TRUSTED_PROXIES: Proxies whose forwarding headers are honoured
//   - SQLADMIN_JWT_SECRET: Bearer token signing secret (environment only)
//   - DATABASE_URL: Database connection (environment only)
package config
