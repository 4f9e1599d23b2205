package store

// HealthStore reports on the database backing the admin
type HealthStore interface {
	// CheckConnectivity verifies database connectivity
	CheckConnectivity() error
}
