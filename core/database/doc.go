// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL (production) or SQLite (local runs and tests)
// connections from the application's configuration.
//
// # Connect
//
// Connect establishes the connection and pings it. The sync engine holds one
// write transaction per pass, so the MySQL DSN carries an explicit
// innodb_lock_wait_timeout sized by LockWaitSeconds.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns for either dialect. The migrate
// command uses it to report the resulting swatch schema.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "swatches")
package database
