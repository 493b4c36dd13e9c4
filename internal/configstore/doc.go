// Package configstore is the (section, key) -> value store that target
// settings and device records are persisted in.
//
// Three backends implement Store:
//   - Ini: layered ini files in the engine's format. Arrays are repeated keys.
//   - SQLite: the config_records table, one row per array element.
//   - Memory: process-local, for tests and dry runs.
//
// Every backend keeps an in-memory view. Setters never fail and never
// block on I/O; Flush is the only call that touches the backing medium.
//
// Usage:
//
//	store, err := configstore.Open(ctx, configstore.Options{
//	    Backend: configstore.BackendIni,
//	    Path:    "Saved/Config/Linux/Engine.ini",
//	})
//	if err != nil {
//	    return err
//	}
//	store.SetBool(section, "bCookETC2Textures", true)
//	if err := store.Flush(); err != nil {
//	    return err
//	}
package configstore
