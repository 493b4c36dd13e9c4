package relay

import (
	"context"
	"time"

	"github.com/nerrad567/targetplatform/internal/target"
)

// PointWriter is the part of the InfluxDB client the relay needs.
// Writes are batched and non-blocking.
type PointWriter interface {
	WriteDeviceEvent(variant, device, kind string, local bool, at time.Time)
	WriteRegistrySize(variant string, devices int)
}

// InfluxSink writes each event as a device_events point.
type InfluxSink struct {
	w PointWriter
}

// NewInfluxSink creates a sink writing through w.
func NewInfluxSink(w PointWriter) *InfluxSink {
	return &InfluxSink{w: w}
}

// Deliver writes ev. It never fails; the client reports write errors
// asynchronously.
func (s *InfluxSink) Deliver(_ context.Context, ev Event) error {
	s.w.WriteDeviceEvent(ev.Variant, ev.Device, string(ev.Kind), ev.Local, ev.At)
	return nil
}

// SampleRegistrySizes writes each created target's device count every
// interval until ctx is cancelled.
func SampleRegistrySizes(ctx context.Context, m *target.Module, w PointWriter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sampleOnce(m, w)
		}
	}
}

func sampleOnce(m *target.Module, w PointWriter) {
	for _, t := range m.Targets() {
		w.WriteRegistrySize(t.Name(), t.Registry().Count())
	}
}
