// Package guard attaches the admin access-control list to resolved contexts
// and refuses requests whose principals do not hold the admin permission.
package guard
