// Package server provides the HTTP server of the admin.
//
// The Server wires the model registry to the GORM stores, the bearer token
// middleware and the access-control policy. Routes are registered by the
// endpoints subpackage:
//
//	srv := server.NewServer(reg, database, cfg, jwt, "0.0.0.0", "8080")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
//   - Router: gorilla/mux router; every route gets a request ID and the
//     caller's principals from the bearer token
//   - RowsStore, HealthStore: persistence, GORM-backed by default
//   - Authorizer: evaluates the ACL attached to resolved pages
//   - Config: swapped atomically when the configuration file changes
package server
