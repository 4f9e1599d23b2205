package endpoints

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/config"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/middleware"
)

const (
	selectTest1 = `SELECT \* FROM "test1s" WHERE "test1s"\."id" = \$1`
	insertTest1 = `INSERT INTO "test1s"`
	updateTest1 = `UPDATE "test1s" SET "name"=\$1 WHERE "id" = \$2`
)

// MockDB wraps sqlmock for easier test setup
type MockDB struct {
	Mock   sqlmock.Sqlmock
	GormDB *gorm.DB
}

// NewMockTestServer creates a server backed by the GORM stores over a mocked
// database, with all endpoints registered
func NewMockTestServer(t *testing.T) (*server.Server, *MockDB) {
	t.Helper()
	t.Setenv("SQLADMIN_CONFIG_PATH", t.TempDir())

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	reg, err := registry.New(nil, &Test1{}, &Test2{})
	require.NoError(t, err)
	cfg, err := config.Load()
	require.NoError(t, err)

	s := server.NewServer(reg, gormDB, cfg, middleware.NewJWTAuthenticator(testSecret), "127.0.0.1", "0")
	RegisterAll(s)
	return s, &MockDB{Mock: mock, GormDB: gormDB}
}

// ExpectFetch expects the lookup of a Test1 row
func (m *MockDB) ExpectFetch(id int, name string) {
	m.Mock.ExpectQuery(selectTest1).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(id, name))
}

// ExpectFetchNotFound expects the lookup of a missing Test1 row
func (m *MockDB) ExpectFetchNotFound(id int) {
	m.Mock.ExpectQuery(selectTest1).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
}

// ExpectCreate expects a committed insert followed by the reload
func (m *MockDB) ExpectCreate(id int, name string) {
	m.Mock.ExpectBegin()
	m.Mock.ExpectQuery(insertTest1).
		WithArgs(name).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
	m.Mock.ExpectCommit()
	m.ExpectFetch(id, name)
}

// ExpectUpdate expects a committed update of a row currently named oldName,
// followed by the reload
func (m *MockDB) ExpectUpdate(id int, oldName, name string) {
	m.Mock.ExpectBegin()
	m.ExpectFetch(id, oldName)
	m.Mock.ExpectExec(updateTest1).
		WithArgs(name, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	m.Mock.ExpectCommit()
	m.ExpectFetch(id, name)
}

// VerifyExpectations checks that all expectations were met
func (m *MockDB) VerifyExpectations() error {
	return m.Mock.ExpectationsWereMet()
}
