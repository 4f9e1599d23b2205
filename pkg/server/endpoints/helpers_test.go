package endpoints

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/audit"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/config"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/middleware"
)

type Test1 struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"size:50;not null"`
}

type Test2 struct {
	IDTest int    `gorm:"column:idtest;primaryKey"`
	Name   string `gorm:"size:50"`
}

func (Test2) AdminDescription() string {
	return "Second **test** model"
}

// Tag is keyed by a free-form string
type Tag struct {
	Code  string `gorm:"primaryKey;size:40"`
	Label string `gorm:"size:50"`
}

var testSecret = []byte("endpoints-test-secret")

type testServer struct {
	*server.Server
	Rows   *MockRowsStore
	Health *MockHealthStore
	Audit  *bytes.Buffer
}

// newTestServer builds a server over mocked stores with all endpoints
// registered. Test1 and Test2 are registered unless models are given.
func newTestServer(t *testing.T, models ...interface{}) *testServer {
	t.Helper()
	t.Setenv("SQLADMIN_CONFIG_PATH", t.TempDir())

	if len(models) == 0 {
		models = []interface{}{&Test1{}, &Test2{}}
	}
	reg, err := registry.New(nil, models...)
	require.NoError(t, err)
	cfg, err := config.Load()
	require.NoError(t, err)

	s := server.NewServer(reg, nil, cfg, middleware.NewJWTAuthenticator(testSecret), "127.0.0.1", "0")
	ts := &testServer{
		Server: s,
		Rows:   &MockRowsStore{},
		Health: &MockHealthStore{},
		Audit:  &bytes.Buffer{},
	}
	s.RowsStore = ts.Rows
	s.HealthStore = ts.Health
	RegisterAll(s)

	audit.DefaultLogger.SetWriter(ts.Audit)
	t.Cleanup(func() { audit.DefaultLogger.SetWriter(os.Stdout) })
	return ts
}

func (ts *testServer) model(t *testing.T, name string) *registry.Model {
	t.Helper()
	m, ok := ts.Registry.Get(name)
	require.True(t, ok)
	return m
}

// token returns a bearer token for subject carrying roles
func token(t *testing.T, subject string, roles ...string) string {
	t.Helper()
	tok, err := middleware.NewJWTAuthenticator(testSecret).Issue(subject, roles, time.Minute)
	require.NoError(t, err)
	return tok
}

func (ts *testServer) do(method, target, bearer string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) get(target, bearer string) *httptest.ResponseRecorder {
	return ts.do(http.MethodGet, target, bearer, nil)
}

func (ts *testServer) post(target, bearer string, form url.Values) *httptest.ResponseRecorder {
	return ts.do(http.MethodPost, target, bearer, strings.NewReader(form.Encode()))
}
