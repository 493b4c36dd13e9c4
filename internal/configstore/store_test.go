package configstore

import (
	"context"
	"errors"
	"testing"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		in     string
		want   bool
		wantOK bool
	}{
		{"True", true, true},
		{"false", false, true},
		{" yes ", true, true},
		{"off", false, true},
		{"1", true, true},
		{"0", false, true},
		{"maybe", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseBool(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("parseBool(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatBool(t *testing.T) {
	if formatBool(true) != "True" || formatBool(false) != "False" {
		t.Errorf("formatBool() = %q/%q, want True/False", formatBool(true), formatBool(false))
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "etcd"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open() error = %v, want ErrUnknownBackend", err)
	}
}

func TestOpen_SQLiteNeedsDB(t *testing.T) {
	if _, err := Open(context.Background(), Options{Backend: BackendSQLite}); err == nil {
		t.Error("Open() with sqlite backend and no DB should fail")
	}
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), Options{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("Open() returned %T, want *Memory", s)
	}
}

// storeContract runs the behaviour every backend must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()

	const sec = "/Script/LinuxTargetPlatform.LinuxTargetSettings"

	if _, ok := s.GetString(sec, "missing"); ok {
		t.Error("GetString() found a key that was never set")
	}

	s.SetString(sec, "Name", "build-box")
	if v, ok := s.GetString(sec, "Name"); !ok || v != "build-box" {
		t.Errorf("GetString() = (%q, %v), want (build-box, true)", v, ok)
	}

	s.SetBool(sec, "bCookDXTTextures", false)
	if v, ok := s.GetBool(sec, "bCookDXTTextures"); !ok || v {
		t.Errorf("GetBool() = (%v, %v), want (false, true)", v, ok)
	}

	s.SetArray(sec, "TargetedRHIs", []string{"SF_VULKAN_SM5", "SF_VULKAN_ES31"})
	got, ok := s.GetArray(sec, "TargetedRHIs")
	if !ok || len(got) != 2 || got[0] != "SF_VULKAN_SM5" || got[1] != "SF_VULKAN_ES31" {
		t.Errorf("GetArray() = (%v, %v), want ([SF_VULKAN_SM5 SF_VULKAN_ES31], true)", got, ok)
	}

	s.SetArray(sec, "TargetedRHIs", nil)
	if _, ok := s.GetArray(sec, "TargetedRHIs"); ok {
		t.Error("SetArray(nil) should remove the key")
	}

	s.Remove(sec, "Name")
	if _, ok := s.GetString(sec, "Name"); ok {
		t.Error("Remove() left the key in place")
	}

	if err := s.Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
}
