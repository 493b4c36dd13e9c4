package relay

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Record is a stored event.
type Record struct {
	ID int64 `json:"id"`
	Event
}

// Filter selects recorded events. Zero fields match everything.
type Filter struct {
	Variant string
	Device  string
	Kind    Kind
	Since   time.Time
	Limit   int // default 50, max 500
}

// Recorder keeps device event history in the device_events table.
type Recorder struct {
	db *sql.DB
}

// NewRecorder creates a recorder over db. The schema comes from the
// migrations package.
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// Deliver records ev.
func (r *Recorder) Deliver(ctx context.Context, ev Event) error {
	_, err := r.Record(ctx, ev)
	return err
}

// Record inserts ev and returns its row ID.
func (r *Recorder) Record(ctx context.Context, ev Event) (int64, error) {
	if !ev.Kind.Valid() {
		return 0, fmt.Errorf("relay: unknown event kind %q", ev.Kind)
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO device_events (platform, device_name, display_name, is_local, kind, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Variant, ev.Device, ev.DisplayName, boolToInt(ev.Local), string(ev.Kind),
		at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting device event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading device event id: %w", err)
	}
	return id, nil
}

// List returns matching events, newest first.
func (r *Recorder) List(ctx context.Context, filter Filter) ([]Record, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	var conditions []string
	var args []any
	if filter.Variant != "" {
		conditions = append(conditions, "platform = ?")
		args = append(args, filter.Variant)
	}
	if filter.Device != "" {
		conditions = append(conditions, "device_name = ?")
		args = append(args, filter.Device)
	}
	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "occurred_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339Nano))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf( //nolint:gosec // WHERE built from parameterised conditions, not user input
		`SELECT id, platform, device_name, display_name, is_local, kind, occurred_at
		 FROM device_events %s ORDER BY occurred_at DESC, id DESC LIMIT ?`,
		where,
	)
	args = append(args, filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying device events: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		var local int
		var kind, occurredAt string
		if err := rows.Scan(&rec.ID, &rec.Variant, &rec.Device, &rec.DisplayName,
			&local, &kind, &occurredAt); err != nil {
			return nil, fmt.Errorf("scanning device event: %w", err)
		}
		rec.Local = local != 0
		rec.Kind = Kind(kind)
		rec.At, err = time.Parse(time.RFC3339Nano, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parsing device event timestamp %q: %w", occurredAt, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device events: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
