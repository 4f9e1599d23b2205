package endpoints

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/store"
)

func TestHomePage(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/admin", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, `<a href="/admin/test1">Test1</a>`)
	assert.Contains(t, body, `<a href="/admin/test2">Test2</a>`)
	assert.Less(t, strings.Index(body, "/admin/test1"), strings.Index(body, "/admin/test2"))
}

func TestListPage(t *testing.T) {
	admin := token(t, "alice", "admin")

	t.Run("renders rows with edit and create links", func(t *testing.T) {
		ts := newTestServer(t)
		m := ts.model(t, "test1")
		ts.Rows.On("ListRows", m, 1000).Return([]interface{}{&Test1{ID: 1, Name: "Bob"}}, nil)
		ts.Rows.On("CountRows", m).Return(int64(1), nil)

		rec := ts.get("/admin/test1", admin)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Bob")
		assert.Contains(t, body, `href="/admin/test1/1/edit"`)
		assert.Contains(t, body, `href="/admin/test1/new"`)
		assert.NotContains(t, body, "Showing")
		ts.Rows.AssertExpectations(t)
	})

	t.Run("notes truncated lists", func(t *testing.T) {
		ts := newTestServer(t)
		m := ts.model(t, "test1")
		ts.Rows.On("ListRows", m, 1000).Return([]interface{}{&Test1{ID: 1, Name: "Bob"}}, nil)
		ts.Rows.On("CountRows", m).Return(int64(1500), nil)

		rec := ts.get("/admin/test1", admin)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Showing 1 of 1500 rows")
	})

	t.Run("uses the configured limit", func(t *testing.T) {
		ts := newTestServer(t)
		cfg := *ts.Config()
		cfg.ListLimitMax = 5
		ts.SetConfig(&cfg)

		m := ts.model(t, "test1")
		ts.Rows.On("ListRows", m, 5).Return([]interface{}{}, nil)
		ts.Rows.On("CountRows", m).Return(int64(0), nil)

		rec := ts.get("/admin/test1", admin)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No rows")
		ts.Rows.AssertExpectations(t)
	})

	t.Run("renders the model description", func(t *testing.T) {
		ts := newTestServer(t)
		m := ts.model(t, "test2")
		ts.Rows.On("ListRows", m, 1000).Return([]interface{}{}, nil)
		ts.Rows.On("CountRows", m).Return(int64(0), nil)

		rec := ts.get("/admin/test2", admin)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<strong>test</strong>")
	})

	t.Run("store failure", func(t *testing.T) {
		ts := newTestServer(t)
		m := ts.model(t, "test1")
		ts.Rows.On("ListRows", m, 1000).Return(nil, errors.New("connection refused"))

		rec := ts.get("/admin/test1", admin)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("unknown class", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.get("/admin/unexisting", admin)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		ts.Rows.AssertNotCalled(t, "ListRows", mock.Anything, mock.Anything)
	})

	t.Run("wrong method", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.post("/admin/test1", admin, url.Values{})

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestAccessGuard(t *testing.T) {
	t.Run("anonymous requests are forbidden", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.get("/admin/test1", "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, ts.Audit.String(), "admin-denied")
		assert.Contains(t, ts.Audit.String(), `model="test1"`)
		ts.Rows.AssertNotCalled(t, "ListRows", mock.Anything, mock.Anything)
	})

	t.Run("users without the admin role are forbidden", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.get("/admin/test1/new", token(t, "bob", "editor"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, ts.Audit.String(), "user:bob was denied admin on /admin/test1/new")
	})

	t.Run("invalid tokens are rejected", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.get("/admin/test1", "not-a-token")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("reloaded principal applies to the next request", func(t *testing.T) {
		ts := newTestServer(t)
		bob := token(t, "bob")

		assert.Equal(t, http.StatusForbidden, ts.get("/admin/test1/new", bob).Code)

		cfg := *ts.Config()
		cfg.AdminPrincipal = "user:bob"
		ts.SetConfig(&cfg)

		assert.Equal(t, http.StatusOK, ts.get("/admin/test1/new", bob).Code)
	})
}

func TestCreate(t *testing.T) {
	admin := token(t, "alice", "admin")

	t.Run("empty form", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.get("/admin/test1/new", admin)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "New Test1")
		assert.Contains(t, body, `name="Name" value=""`)
		assert.NotContains(t, body, `name="ID"`)
	})

	t.Run("valid submission", func(t *testing.T) {
		ts := newTestServer(t)
		m := ts.model(t, "test1")
		ts.Rows.On("UpsertRow", m, map[string]interface{}{"Name": "Fred"}).
			Return(&Test1{ID: 2, Name: "Fred"}, nil)

		rec := ts.post("/admin/test1/new", admin, url.Values{"Name": {"Fred"}})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/test1/2/edit", rec.Header().Get("Location"))
		assert.Contains(t, ts.Audit.String(), "admin-create")
		assert.Contains(t, ts.Audit.String(), "user:alice created test1 2")
		ts.Rows.AssertExpectations(t)
	})

	t.Run("invalid submission", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.post("/admin/test1/new", admin, url.Values{"Name": {"  "}})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Value required")
		ts.Rows.AssertNotCalled(t, "UpsertRow", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		ts := newTestServer(t)
		m := ts.model(t, "test1")
		ts.Rows.On("UpsertRow", m, mock.Anything).Return(nil, errors.New("duplicate key"))

		rec := ts.post("/admin/test1/new", admin, url.Values{"Name": {"Fred"}})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, ts.Audit.String(), "user:alice tried to create test1: duplicate key")
	})
}

func TestEdit(t *testing.T) {
	admin := token(t, "alice", "admin")

	t.Run("bound form", func(t *testing.T) {
		ts := newTestServer(t)
		m := ts.model(t, "test1")
		ts.Rows.On("FetchRow", m, 1).Return(&Test1{ID: 1, Name: "Bob"}, nil)

		rec := ts.get("/admin/test1/1/edit", admin)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Edit Test1 1")
		assert.Contains(t, body, `name="Name" value="Bob"`)
		assert.Contains(t, body, `href="/admin/test1"`)
	})

	t.Run("valid submission", func(t *testing.T) {
		ts := newTestServer(t)
		m := ts.model(t, "test1")
		ts.Rows.On("FetchRow", m, 1).Return(&Test1{ID: 1, Name: "Bob"}, nil)
		ts.Rows.On("UpsertRow", m, map[string]interface{}{"ID": 1, "Name": "Alice"}).
			Return(&Test1{ID: 1, Name: "Alice"}, nil)

		rec := ts.post("/admin/test1/1/edit", admin, url.Values{"Name": {"Alice"}})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/test1/1/edit", rec.Header().Get("Location"))
		assert.Contains(t, ts.Audit.String(), "user:alice updated test1 1")
		ts.Rows.AssertExpectations(t)
	})

	t.Run("submitted primary key is ignored", func(t *testing.T) {
		ts := newTestServer(t)
		m := ts.model(t, "test1")
		ts.Rows.On("FetchRow", m, 1).Return(&Test1{ID: 1, Name: "Bob"}, nil)
		ts.Rows.On("UpsertRow", m, map[string]interface{}{"ID": 1, "Name": "Alice"}).
			Return(&Test1{ID: 1, Name: "Alice"}, nil)

		rec := ts.post("/admin/test1/1/edit", admin, url.Values{"ID": {"7"}, "Name": {"Alice"}})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		ts.Rows.AssertExpectations(t)
	})

	t.Run("invalid submission", func(t *testing.T) {
		ts := newTestServer(t)
		m := ts.model(t, "test1")
		ts.Rows.On("FetchRow", m, 1).Return(&Test1{ID: 1, Name: "Bob"}, nil)

		rec := ts.post("/admin/test1/1/edit", admin, url.Values{"Name": {""}})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Value required")
		ts.Rows.AssertNotCalled(t, "UpsertRow", mock.Anything, mock.Anything)
	})

	t.Run("missing row", func(t *testing.T) {
		ts := newTestServer(t)
		m := ts.model(t, "test1")
		ts.Rows.On("FetchRow", m, 10).Return(nil, store.ErrRowNotFound)

		rec := ts.get("/admin/test1/10/edit", admin)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed identifier", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.get("/admin/test1/abc/edit", admin)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		ts.Rows.AssertNotCalled(t, "FetchRow", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		ts := newTestServer(t)
		m := ts.model(t, "test1")
		ts.Rows.On("FetchRow", m, 1).Return(nil, errors.New("connection refused"))

		rec := ts.get("/admin/test1/1/edit", admin)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestStringKeys(t *testing.T) {
	admin := token(t, "alice", "admin")

	t.Run("list links resolve", func(t *testing.T) {
		ts := newTestServer(t, &Tag{})
		m := ts.model(t, "tag")
		ts.Rows.On("ListRows", m, 1000).Return([]interface{}{&Tag{Code: "a b", Label: "Spaced"}}, nil)
		ts.Rows.On("CountRows", m).Return(int64(1), nil)
		ts.Rows.On("FetchRow", m, "a b").Return(&Tag{Code: "a b", Label: "Spaced"}, nil)

		rec := ts.get("/admin/tag", admin)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `href="/admin/tag/a%20b/edit"`)

		rec = ts.get("/admin/tag/a%20b/edit", admin)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Edit Tag a b")
		ts.Rows.AssertExpectations(t)
	})

	t.Run("redirect escapes slashes", func(t *testing.T) {
		ts := newTestServer(t, &Tag{})
		m := ts.model(t, "tag")
		ts.Rows.On("UpsertRow", m, map[string]interface{}{"Code": "x/y", "Label": "Slashed"}).
			Return(&Tag{Code: "x/y", Label: "Slashed"}, nil)
		ts.Rows.On("FetchRow", m, "x/y").Return(&Tag{Code: "x/y", Label: "Slashed"}, nil)

		rec := ts.post("/admin/tag/new", admin, url.Values{"Code": {"x/y"}, "Label": {"Slashed"}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		location := rec.Header().Get("Location")
		assert.Equal(t, "/admin/tag/x%2Fy/edit", location)

		rec = ts.get(location, admin)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `name="Label" value="Slashed"`)
		ts.Rows.AssertExpectations(t)
	})
}
