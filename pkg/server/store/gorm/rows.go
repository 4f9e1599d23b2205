package gorm

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/registry"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/store"
)

// Ensure RowsStore implements store.RowsStore
var _ store.RowsStore = (*RowsStore)(nil)

// RowsStore implements store.RowsStore using GORM
type RowsStore struct {
	db *gorm.DB
}

// NewRowsStore creates a new RowsStore
func NewRowsStore(db *gorm.DB) *RowsStore {
	return &RowsStore{db: db}
}

func primaryKeyColumn(model *registry.Model) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: model.PrimaryField().DBName}
}

func byPrimaryKey(model *registry.Model, id interface{}) clause.Eq {
	return clause.Eq{Column: primaryKeyColumn(model), Value: id}
}

// FetchRow loads a single row by primary key
func (s *RowsStore) FetchRow(model *registry.Model, id interface{}) (interface{}, error) {
	return fetchRow(s.db, model, id)
}

func fetchRow(db *gorm.DB, model *registry.Model, id interface{}) (interface{}, error) {
	row := model.New()
	err := db.Where(byPrimaryKey(model, id)).Take(row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrRowNotFound
		}
		return nil, fmt.Errorf("fetching %s %v: %w", model.Name, id, err)
	}
	return row, nil
}

// ListRows returns rows ordered by primary key
func (s *RowsStore) ListRows(model *registry.Model, limit int) ([]interface{}, error) {
	rows := model.NewSlice()

	query := s.db.Order(clause.OrderByColumn{Column: primaryKeyColumn(model)})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(rows).Error; err != nil {
		return nil, fmt.Errorf("listing %s: %w", model.Name, err)
	}
	return model.Rows(rows), nil
}

// CountRows returns the number of rows of a model
func (s *RowsStore) CountRows(model *registry.Model) (int64, error) {
	var count int64
	if err := s.db.Model(model.New()).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting %s: %w", model.Name, err)
	}
	return count, nil
}

// UpsertRow updates or creates a row inside a transaction, then reloads it
func (s *RowsStore) UpsertRow(model *registry.Model, values map[string]interface{}) (interface{}, error) {
	pk := model.PrimaryField()

	var row interface{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing := false
		if id, ok := values[pk.Name]; ok && id != nil {
			found, err := fetchRow(tx, model, id)
			switch {
			case err == nil:
				row, existing = found, true
			case !errors.Is(err, store.ErrRowNotFound):
				return err
			}
		}
		if row == nil {
			row = model.New()
		}

		if err := model.Assign(row, values); err != nil {
			return err
		}
		if existing {
			return tx.Save(row).Error
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", model.Name, err)
	}

	// Reload outside the committed transaction so the returned row reflects
	// column defaults and triggers.
	return fetchRow(s.db, model, model.PrimaryKey(row))
}
