// Package db provides database connection utilities for sqladmin.
//
// This package handles PostgreSQL database connections using GORM. The
// naming strategy passed here must be the one the model registry was built
// with, so that both agree on table and column names.
//
// # Connection
//
//	database, err := db.Connect(db.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
package db
