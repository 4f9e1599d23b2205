package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/acl"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/config"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/middleware"
)

type Test1 struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"size:50"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("SQLADMIN_CONFIG_PATH", t.TempDir())

	reg, err := registry.New(nil, &Test1{})
	require.NoError(t, err)
	cfg, err := config.Load()
	require.NoError(t, err)

	return NewServer(reg, nil, cfg, middleware.NewJWTAuthenticator([]byte("secret")), "127.0.0.1", "0")
}

func TestRouterMiddleware(t *testing.T) {
	s := newTestServer(t)

	var principals []string
	s.Router.HandleFunc("/probe", func(w http.ResponseWriter, r *http.Request) {
		principals = acl.PrincipalsFrom(r.Context())
		assert.NotEmpty(t, middleware.GetRequestID(r.Context()))
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{acl.Everyone}, principals)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	s := newTestServer(t)
	s.Router.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTrustedProxyHeaders(t *testing.T) {
	s := newTestServer(t)

	var remote string
	s.Router.HandleFunc("/remote", func(w http.ResponseWriter, r *http.Request) {
		remote = r.RemoteAddr
	})

	request := func() {
		req := httptest.NewRequest(http.MethodGet, "/remote", nil)
		req.RemoteAddr = "10.0.0.5:4321"
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		s.Handler().ServeHTTP(httptest.NewRecorder(), req)
	}

	request()
	assert.Equal(t, "10.0.0.5:4321", remote)

	cfg := *s.Config()
	cfg.TrustedProxies = []string{"10.0.0.0/8"}
	s.SetConfig(&cfg)

	request()
	assert.Equal(t, "203.0.113.7", remote)
}
