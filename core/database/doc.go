// Package database opens GORM connections for the SQL cache backend.
//
// Connect supports mysql (the production default) and sqlite, which also
// backs the tests through ":memory:" databases.
//
// # Schema Inspection
//
// GetTableColumns and RequireColumns read a table's live column set so the
// cache backend can verify an existing table before using it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	err = database.RequireColumns(db, "entity_cache", "key", "value")
package database
