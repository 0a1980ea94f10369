// Package database handles database connections.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection with sane pool settings and DSN-level
// timeouts. Driver error translation is enabled so callers can rely on
// gorm.ErrDuplicatedKey instead of inspecting MySQL error numbers, and the default
// per-statement transaction wrapping is disabled so conditional updates execute as
// single statements.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
