// Package database provides the SQLite database of the target platform
// service.
//
// The database holds two things:
//   - config_records: engine config records when the config store runs on
//     the sqlite backend (package configstore)
//   - device_events: the history of device discovered/lost events
//     (package relay)
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Schema migrations embedded by the migrations package
//   - STRICT tables for type safety
//
// Usage:
//
//	db, err := database.Open(ctx, cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql, and are applied in version order.
package database
