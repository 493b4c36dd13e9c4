package configstore

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

const testSection = "/Script/LinuxTargetPlatform.LinuxTargetSettings"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestIni_Contract(t *testing.T) {
	s, err := OpenIni(filepath.Join(t.TempDir(), "Engine.ini"))
	if err != nil {
		t.Fatalf("OpenIni() error = %v", err)
	}
	storeContract(t, s)
}

func TestIni_InMemoryFlushIsNoop(t *testing.T) {
	s, err := OpenIni("")
	if err != nil {
		t.Fatalf("OpenIni() error = %v", err)
	}
	s.SetString(testSection, "k", "v")
	if err := s.Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
}

func TestIni_MissingBaseLayer(t *testing.T) {
	_, err := OpenIni("", filepath.Join(t.TempDir(), "absent.ini"))
	if err == nil {
		t.Error("OpenIni() with a missing base layer should fail")
	}
}

func TestIni_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Config", "Linux", "Engine.ini")

	s, err := OpenIni(path)
	if err != nil {
		t.Fatalf("OpenIni() error = %v", err)
	}
	s.SetString(testSection, "LinuxTargetPlatfrom_Linux_Device_0_Name", "render-01")
	s.SetBool(testSection, "bCookETC2Textures", true)
	s.SetArray(testSection, "TargetedRHIs", []string{"SF_VULKAN_SM5", "SF_VULKAN_ES31"})

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading flushed file: %v", err)
	}
	if !strings.Contains(string(raw), "["+testSection+"]") {
		t.Errorf("flushed file has no section header:\n%s", raw)
	}

	reopened, err := OpenIni(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}

	if v, ok := reopened.GetString(testSection, "LinuxTargetPlatfrom_Linux_Device_0_Name"); !ok || v != "render-01" {
		t.Errorf("device name = (%q, %v), want (render-01, true)", v, ok)
	}
	if v, ok := reopened.GetBool(testSection, "bCookETC2Textures"); !ok || !v {
		t.Errorf("bCookETC2Textures = (%v, %v), want (true, true)", v, ok)
	}
	got, _ := reopened.GetArray(testSection, "TargetedRHIs")
	if !reflect.DeepEqual(got, []string{"SF_VULKAN_SM5", "SF_VULKAN_ES31"}) {
		t.Errorf("TargetedRHIs = %v", got)
	}
}

func TestIni_Layering(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "BaseEngine.ini")
	writeFile(t, base, `[`+testSection+`]
bCookDXTTextures=True
bCookBCTextures=True
TargetedRHIs=SF_VULKAN_SM5
`)

	top := filepath.Join(dir, "Engine.ini")
	writeFile(t, top, `[`+testSection+`]
bCookDXTTextures=False
`)

	s, err := OpenIni(top, base)
	if err != nil {
		t.Fatalf("OpenIni() error = %v", err)
	}

	if got := s.Layers(); !reflect.DeepEqual(got, []string{base, top}) {
		t.Errorf("Layers() = %v", got)
	}

	if v, _ := s.GetBool(testSection, "bCookDXTTextures"); v {
		t.Error("writable layer should override the base layer")
	}
	if v, ok := s.GetBool(testSection, "bCookBCTextures"); !ok || !v {
		t.Error("key only in the base layer should be visible")
	}

	s.Remove(testSection, "bCookDXTTextures")
	if v, ok := s.GetBool(testSection, "bCookDXTTextures"); !ok || !v {
		t.Error("removing from the writable layer should expose the base value")
	}
}

func TestIni_NoParentSectionFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Engine.ini")
	writeFile(t, path, `[/Script/LinuxTargetPlatform]
Shared=parent
`)

	s, err := OpenIni(path)
	if err != nil {
		t.Fatalf("OpenIni() error = %v", err)
	}
	if _, ok := s.GetString(testSection, "Shared"); ok {
		t.Error("key from a parent section leaked into the child section")
	}
}

func TestIni_ValuesSurviveFlush(t *testing.T) {
	values := []string{
		`share\`,
		`C:\builds\`,
		"render#01",
		"semi;colon",
		"back`tick",
		" padded ",
		`say "hi"`,
		`it's`,
		`a"""b`,
	}

	path := filepath.Join(t.TempDir(), "Engine.ini")
	s, err := OpenIni(path)
	if err != nil {
		t.Fatalf("OpenIni() error = %v", err)
	}
	for i, v := range values {
		s.SetString(testSection, "Value_"+strconv.Itoa(i), v)
	}
	s.SetString(testSection, "Sentinel", "last")
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	reopened, err := OpenIni(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	for i, want := range values {
		if got, ok := reopened.GetString(testSection, "Value_"+strconv.Itoa(i)); !ok || got != want {
			t.Errorf("value %d = (%q, %v), want %q", i, got, ok, want)
		}
	}
	if got, _ := reopened.GetString(testSection, "Sentinel"); got != "last" {
		t.Errorf("Sentinel = %q; a preceding value swallowed it", got)
	}
}
