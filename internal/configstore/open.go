package configstore

import (
	"context"
	"database/sql"
	"fmt"
)

// Options selects and configures a Store backend.
type Options struct {
	// Backend is one of BackendIni, BackendSQLite or BackendMemory.
	Backend string

	// Path is the writable ini file (ini backend only).
	Path string

	// BaseLayers are read-only ini files beneath Path, lowest priority first.
	BaseLayers []string

	// DB is the open database (sqlite backend only).
	DB *sql.DB
}

// Open creates the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendIni, "":
		return OpenIni(opts.Path, opts.BaseLayers...)
	case BackendSQLite:
		if opts.DB == nil {
			return nil, fmt.Errorf("configstore: sqlite backend needs a database")
		}
		return OpenSQLite(ctx, opts.DB)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
