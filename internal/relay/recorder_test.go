package relay

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/targetplatform/internal/infrastructure/config"
	"github.com/nerrad567/targetplatform/internal/infrastructure/database"
	_ "github.com/nerrad567/targetplatform/migrations"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "events.db"),
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewRecorder(db.DB)
}

func TestRecorder_RecordAndList(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	events := []Event{
		{Variant: "LinuxServer", Device: "build-01", DisplayName: "Build 01", Kind: KindDiscovered, At: fixedTime},
		{Variant: "LinuxServer", Device: "build-02", Kind: KindDiscovered, At: fixedTime.Add(time.Minute)},
		{Variant: "LinuxClient", Device: "workstation", Local: true, Kind: KindDiscovered, At: fixedTime.Add(2 * time.Minute)},
		{Variant: "LinuxServer", Device: "build-01", Kind: KindLost, At: fixedTime.Add(3 * time.Minute)},
	}
	for _, ev := range events {
		if err := rec.Deliver(ctx, ev); err != nil {
			t.Fatalf("Deliver(%+v) error = %v", ev, err)
		}
	}

	all, err := rec.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != len(events) {
		t.Fatalf("List() returned %d records, want %d", len(all), len(events))
	}
	if all[0].Kind != KindLost || all[0].Device != "build-01" {
		t.Errorf("newest record = %+v, want the lost event", all[0])
	}
	if !all[0].At.Equal(fixedTime.Add(3 * time.Minute)) {
		t.Errorf("At = %v", all[0].At)
	}
	last := all[len(all)-1]
	if last.DisplayName != "Build 01" || last.ID == 0 {
		t.Errorf("oldest record = %+v", last)
	}
	if !all[1].Local {
		t.Errorf("local flag lost: %+v", all[1])
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"by variant", Filter{Variant: "LinuxServer"}, 3},
		{"by device", Filter{Variant: "LinuxServer", Device: "build-01"}, 2},
		{"by kind", Filter{Kind: KindLost}, 1},
		{"since", Filter{Since: fixedTime.Add(2 * time.Minute)}, 2},
		{"limit", Filter{Limit: 1}, 1},
		{"no match", Filter{Variant: "LinuxAArch64Server"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rec.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("List(%+v) returned %d records, want %d", tt.filter, len(got), tt.want)
			}
			if got == nil {
				t.Error("List() should return an empty slice, not nil")
			}
		})
	}
}

func TestRecorder_RejectsUnknownKind(t *testing.T) {
	rec := newTestRecorder(t)
	if _, err := rec.Record(context.Background(), Event{Variant: "LinuxServer", Device: "a", Kind: "renamed"}); err == nil {
		t.Error("Record() should reject an unknown kind")
	}
}

func TestRecorder_DefaultsTimestamp(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	if _, err := rec.Record(ctx, Event{Variant: "LinuxServer", Device: "a", Kind: KindDiscovered}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	got, err := rec.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].At.Before(before) {
		t.Errorf("records = %+v, want one stamped now", got)
	}
}
