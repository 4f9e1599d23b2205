// Package store provides storage abstractions for the admin server.
//
// This package defines interfaces for database operations, allowing the
// admin endpoints to be decoupled from the specific database implementation.
// This enables easier testing with mocks.
//
// # Available Stores
//
//   - RowsStore: fetch, list, count and upsert rows of a registered model
//   - HealthStore: database connectivity
//
// # Usage
//
//	rows := gorm.NewRowsStore(db)
//	row, err := rows.FetchRow(model, id)
//	if err != nil {
//	    if errors.Is(err, store.ErrRowNotFound) {
//	        // Handle not found
//	    }
//	}
package store
