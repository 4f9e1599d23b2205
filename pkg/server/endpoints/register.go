package endpoints

import (
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server"
)

// RegisterAll registers all endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterAdminEndpoints(srv)
	RegisterHealthEndpoint(srv)

	// Static files
	RegisterStaticFiles(srv)
}
