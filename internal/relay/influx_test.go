package relay

import (
	"context"
	"sync"
	"testing"
	"time"
)

type deviceEventPoint struct {
	variant, device, kind string
	local                 bool
	at                    time.Time
}

type fakePointWriter struct {
	mu     sync.Mutex
	events []deviceEventPoint
	sizes  map[string]int
}

func (w *fakePointWriter) WriteDeviceEvent(variant, device, kind string, local bool, at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, deviceEventPoint{variant, device, kind, local, at})
}

func (w *fakePointWriter) WriteRegistrySize(variant string, devices int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sizes == nil {
		w.sizes = make(map[string]int)
	}
	w.sizes[variant] = devices
}

func (w *fakePointWriter) sizeOf(variant string) (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, ok := w.sizes[variant]
	return n, ok
}

func TestInfluxSink_Deliver(t *testing.T) {
	w := &fakePointWriter{}
	ev := Event{Variant: "LinuxServer", Device: "build-01", Kind: KindLost, Local: true, At: fixedTime}

	if err := NewInfluxSink(w).Deliver(context.Background(), ev); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	want := deviceEventPoint{"LinuxServer", "build-01", "lost", true, fixedTime}
	if len(w.events) != 1 || w.events[0] != want {
		t.Errorf("points = %+v, want [%+v]", w.events, want)
	}
}

func TestSampleOnce(t *testing.T) {
	m := newTestModule()
	server, err := m.Target("LinuxServer")
	if err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	server.AddDevice("a", "", "", "", false)
	server.AddDevice("b", "", "", "", false)
	if _, err := m.Target("LinuxClient"); err != nil {
		t.Fatalf("Target() error = %v", err)
	}

	w := &fakePointWriter{}
	sampleOnce(m, w)

	if n, _ := w.sizeOf("LinuxServer"); n != 2 {
		t.Errorf("LinuxServer size = %d, want 2", n)
	}
	if n, ok := w.sizeOf("LinuxClient"); !ok || n != 0 {
		t.Errorf("LinuxClient size = %d (sampled %v), want 0", n, ok)
	}
}

func TestSampleRegistrySizes_StopsOnCancel(t *testing.T) {
	m := newTestModule()
	if _, err := m.Target("LinuxServer"); err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	w := &fakePointWriter{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		SampleRegistrySizes(ctx, m, w, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := w.sizeOf("LinuxServer"); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no sample written")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SampleRegistrySizes did not return after cancel")
	}
}
