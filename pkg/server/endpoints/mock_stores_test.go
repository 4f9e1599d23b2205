package endpoints

import (
	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
)

// MockRowsStore implements store.RowsStore for testing using testify/mock
type MockRowsStore struct {
	mock.Mock
}

func (m *MockRowsStore) FetchRow(model *registry.Model, id interface{}) (interface{}, error) {
	args := m.Called(model, id)
	return args.Get(0), args.Error(1)
}

func (m *MockRowsStore) ListRows(model *registry.Model, limit int) ([]interface{}, error) {
	args := m.Called(model, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interface{}), args.Error(1)
}

func (m *MockRowsStore) CountRows(model *registry.Model) (int64, error) {
	args := m.Called(model)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRowsStore) UpsertRow(model *registry.Model, values map[string]interface{}) (interface{}, error) {
	args := m.Called(model, values)
	return args.Get(0), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
