package configstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// flushTimeout bounds a single Flush transaction.
const flushTimeout = 10 * time.Second

// SQLite is a Store backed by the config_records table.
//
// All records are read into memory by OpenSQLite. Setters only touch the
// in-memory view; Flush rewrites the changed keys in one transaction.
// The table is created by the embedded migrations.
type SQLite struct {
	db *sql.DB
	t  *table

	// flushMu serialises Flush so two flushes cannot interleave their
	// delete/insert pairs for the same key.
	flushMu sync.Mutex
}

// OpenSQLite loads every config record from db.
func OpenSQLite(ctx context.Context, db *sql.DB) (*SQLite, error) {
	s := &SQLite{db: db, t: newTable()}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLite) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT section, key, value
		FROM config_records
		ORDER BY section, key, position`)
	if err != nil {
		return fmt.Errorf("querying config records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k recordKey
		var value string
		if err := rows.Scan(&k.section, &k.key, &value); err != nil {
			return fmt.Errorf("scanning config record: %w", err)
		}
		s.t.records[k] = append(s.t.records[k], value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating config records: %w", err)
	}
	return nil
}

// GetString returns the first value stored under the key.
func (s *SQLite) GetString(section, key string) (string, bool) {
	return firstValue(s.t.get(section, key))
}

// GetBool parses the stored value as a boolean.
func (s *SQLite) GetBool(section, key string) (bool, bool) {
	v, ok := s.GetString(section, key)
	if !ok {
		return false, false
	}
	return parseBool(v)
}

// GetArray returns every value stored under the key, in position order.
func (s *SQLite) GetArray(section, key string) ([]string, bool) {
	return s.t.get(section, key)
}

// SetString stores a single value.
func (s *SQLite) SetString(section, key, value string) {
	s.t.set(section, key, []string{value})
}

// SetBool stores a boolean.
func (s *SQLite) SetBool(section, key string, value bool) {
	s.t.set(section, key, []string{formatBool(value)})
}

// SetArray stores a list of values. An empty list removes the key.
func (s *SQLite) SetArray(section, key string, values []string) {
	s.t.set(section, key, values)
}

// Remove deletes a key.
func (s *SQLite) Remove(section, key string) {
	s.t.remove(section, key)
}

// Flush writes every changed key to the database.
// On failure the changes stay pending and the next Flush retries them.
func (s *SQLite) Flush() error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	changes := s.t.takeDirty()
	if len(changes) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := s.write(ctx, changes); err != nil {
		s.t.restoreDirty(changes)
		return err
	}
	return nil
}

func (s *SQLite) write(ctx context.Context, changes map[recordKey][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	for k, values := range changes {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM config_records WHERE section = ? AND key = ?",
			k.section, k.key,
		); err != nil {
			return fmt.Errorf("deleting %s/%s: %w", k.section, k.key, err)
		}

		for i, v := range values {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO config_records (section, key, position, value) VALUES (?, ?, ?, ?)",
				k.section, k.key, i, v,
			); err != nil {
				return fmt.Errorf("inserting %s/%s: %w", k.section, k.key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing config records: %w", err)
	}
	return nil
}
