// Package registry holds the table of GORM models exposed by the admin.
//
// The table is built once at startup from the model values handed to New and
// is read-only afterwards, so it can be shared by every request handler
// without locking.
//
// # Usage
//
//	reg, err := registry.New(db.NamingStrategy, &Author{}, &Book{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	model, ok := reg.Get("author")
//
// Models are keyed by their lower-cased Go type name. Two distinct types that
// lower-case to the same key are rejected with ErrDuplicateModel.
package registry
