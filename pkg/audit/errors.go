package audit

import "errors"

var (
	// ErrNilPool is returned when a PostgreSQL store is created without a
	// connection pool.
	ErrNilPool = errors.New("audit: nil connection pool")

	// ErrNilDatabase is returned when a MongoDB store is created without a
	// database handle.
	ErrNilDatabase = errors.New("audit: nil database handle")
)
