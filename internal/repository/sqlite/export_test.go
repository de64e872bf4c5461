package sqlite

import "database/sql"

// Conn exposes the connection pool to external tests.
func Conn(db *DB) *sql.DB { return db.sqlDB }
