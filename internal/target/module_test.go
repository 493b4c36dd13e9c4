package target

import (
	"errors"
	"sync"
	"testing"

	"github.com/nerrad567/targetplatform/internal/configstore"
)

func newModule(store configstore.Store) *Module {
	return NewModule(ModuleOptions{
		Platform: "Linux",
		OS:       "linux",
		Store:    store,
		Host:     linuxHost,
	})
}

func TestModule_LazyAndCached(t *testing.T) {
	m := newModule(configstore.NewMemory())

	var created []string
	m.OnTargetCreated().Subscribe(func(t *Target) { created = append(created, t.Name()) })

	first, err := m.Target("linuxnoeditor")
	if err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	second, err := m.Target("LinuxNoEditor")
	if err != nil {
		t.Fatalf("Target() error = %v", err)
	}

	if first != second {
		t.Error("Target() should return the cached instance")
	}
	if len(created) != 1 || created[0] != "LinuxNoEditor" {
		t.Errorf("created events = %v, want [LinuxNoEditor]", created)
	}
	if len(m.Targets()) != 1 {
		t.Errorf("Targets() has %d entries, want 1", len(m.Targets()))
	}
}

func TestModule_UnknownVariant(t *testing.T) {
	m := newModule(configstore.NewMemory())
	if _, err := m.Target("Win64"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("Target(Win64) error = %v, want ErrUnknownVariant", err)
	}
}

func TestModule_CreateAll(t *testing.T) {
	m := newModule(configstore.NewMemory())

	targets, err := m.CreateAll()
	if err != nil {
		t.Fatalf("CreateAll() error = %v", err)
	}
	if len(targets) != len(m.Variants()) {
		t.Fatalf("CreateAll() = %d targets, want %d", len(targets), len(m.Variants()))
	}
	for i, v := range m.Variants() {
		if targets[i].Name() != v.Name() {
			t.Errorf("targets[%d] = %s, want %s", i, targets[i].Name(), v.Name())
		}
	}
}

func TestModule_ConcurrentTarget(t *testing.T) {
	m := newModule(configstore.NewMemory())

	var wg sync.WaitGroup
	results := make([]*Target, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = m.Target("LinuxServer")
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r == nil || r != results[0] {
			t.Fatalf("results[%d] = %p, want the single shared target %p", i, r, results[0])
		}
	}
}

func TestModule_Shutdown(t *testing.T) {
	store := configstore.NewMemory()
	m := newModule(store)
	if _, err := m.Target("Linux"); err != nil {
		t.Fatal(err)
	}

	if err := m.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if store.Flushes() != 1 {
		t.Errorf("Flushes() = %d, want 1", store.Flushes())
	}
	if _, err := m.Target("Linux"); !errors.Is(err, ErrShutdown) {
		t.Errorf("Target() after Shutdown error = %v, want ErrShutdown", err)
	}
	if err := m.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}
