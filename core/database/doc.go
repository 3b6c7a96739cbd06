// Package database handles the connection to the asset catalog database and
// schema inspection.
//
// It wraps GORM and configures either a MySQL server or a SQLite file (or
// ":memory:") based on Config.Driver.
//
// # Connect
//
// Connect opens the database, tunes the connection pool and pings it within
// Config.TimeoutSeconds. SQLite connections are limited to one open
// connection so an in-memory database survives between queries.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table on both dialects. The catalog
// integrity check uses MissingColumns to verify that the asset_records table
// matches what the catalog expects.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "asset_records", []string{"handle", "path"})
package database
