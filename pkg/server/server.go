package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/acl"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/audit"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/config"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/sqladmin-go/pkg/server/store/gorm"
)

type Server struct {
	Router        *mux.Router
	DB            *gorm.DB
	Registry      *registry.Registry
	RowsStore     store.RowsStore
	HealthStore   store.HealthStore
	Authorizer    acl.Authorizer
	JWTMiddleware *middleware.JWTAuthenticator

	config atomic.Pointer[config.Config]
	srv    *http.Server
}

func NewServer(
	reg *registry.Registry,
	db *gorm.DB,
	cfg *config.Config,
	jwt *middleware.JWTAuthenticator,
	host string,
	port string,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	router.Use(middleware.RequestID, jwt.Middleware)

	s := &Server{
		Router:        router,
		DB:            db,
		Registry:      reg,
		RowsStore:     gormstore.NewRowsStore(db),
		HealthStore:   gormstore.NewHealthStore(db),
		Authorizer:    acl.ACLAuthorizer{},
		JWTMiddleware: jwt,
	}
	s.SetConfig(cfg)

	s.srv = &http.Server{
		Handler:      s.Handler(),
		Addr:         net.JoinHostPort(host, port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	return s
}

// Config returns the current configuration
func (s *Server) Config() *config.Config {
	return s.config.Load()
}

// SetConfig swaps the configuration; requests already running keep the one
// they started with
func (s *Server) SetConfig(cfg *config.Config) {
	s.config.Store(cfg)
	audit.SetEnabled(cfg.AuditEnabled)
}

// Handler returns the router wrapped with the access log, panic recovery
// and forwarding headers from trusted proxies
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router
	h = s.trustedProxyHeaders(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return handlers.LoggingHandler(os.Stdout, h)
}

func (s *Server) trustedProxyHeaders(next http.Handler) http.Handler {
	proxied := handlers.ProxyHeaders(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if s.Config().IsTrustedProxy(ip) {
			proxied.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for running requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
