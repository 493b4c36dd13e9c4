package relay

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/targetplatform/internal/device"
	"github.com/nerrad567/targetplatform/internal/target"
)

const (
	// defaultQueueSize bounds the events waiting for Run.
	defaultQueueSize = 256

	// deliverTimeout bounds one sink delivery.
	deliverTimeout = 5 * time.Second
)

// Logger defines the logging interface used by the relay.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Kind is what happened to a device.
type Kind string

const (
	KindDiscovered Kind = "discovered"
	KindLost       Kind = "lost"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindDiscovered || k == KindLost
}

// Event is a device registry change as it leaves the process.
type Event struct {
	Variant     string    `json:"variant"`
	Device      string    `json:"device"`
	DisplayName string    `json:"display_name"`
	Local       bool      `json:"local"`
	Kind        Kind      `json:"kind"`
	At          time.Time `json:"at"`
}

// NewEvent builds the event for a device. Credentials never leave the
// registry.
func NewEvent(kind Kind, d device.Device, at time.Time) Event {
	return Event{
		Variant:     d.ID.Platform,
		Device:      d.ID.Name,
		DisplayName: d.DisplayName,
		Local:       d.IsLocal,
		Kind:        kind,
		At:          at.UTC(),
	}
}

// Sink receives relayed events.
type Sink interface {
	Deliver(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev Event) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

type namedSink struct {
	name string
	sink Sink
}

// Relay forwards device events from targets to sinks.
type Relay struct {
	mu       sync.Mutex
	sinks    []namedSink
	attached map[string]struct{}

	queue  chan Event
	now    func() time.Time
	logger Logger
}

// New creates a relay with no sinks. A nil logger discards output.
func New(logger Logger) *Relay {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Relay{
		attached: make(map[string]struct{}),
		queue:    make(chan Event, defaultQueueSize),
		now:      time.Now,
		logger:   logger,
	}
}

// AddSink registers a sink. Sinks receive events in registration order.
func (r *Relay) AddSink(name string, s Sink) {
	r.mu.Lock()
	r.sinks = append(r.sinks, namedSink{name: name, sink: s})
	r.mu.Unlock()
}

// Attach follows every target the module has created and every target it
// creates later. Devices loaded from the config store while a target is
// being created are not relayed.
func (r *Relay) Attach(m *target.Module) {
	// Subscribe before walking the existing targets so none slips between.
	m.OnTargetCreated().Subscribe(r.AttachTarget)
	for _, t := range m.Targets() {
		r.AttachTarget(t)
	}
}

// AttachTarget follows one target's device hubs. Attaching the same
// variant twice is a no-op.
func (r *Relay) AttachTarget(t *target.Target) {
	r.mu.Lock()
	if _, ok := r.attached[t.Name()]; ok {
		r.mu.Unlock()
		return
	}
	r.attached[t.Name()] = struct{}{}
	r.mu.Unlock()

	t.OnDeviceDiscovered().Subscribe(func(d device.Device) {
		r.enqueue(NewEvent(KindDiscovered, d, r.now()))
	})
	t.OnDeviceLost().Subscribe(func(d device.Device) {
		r.enqueue(NewEvent(KindLost, d, r.now()))
	})
	r.logger.Debug("relay attached", "target", t.Name())
}

// Attached returns the number of targets being followed.
func (r *Relay) Attached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attached)
}

func (r *Relay) enqueue(ev Event) {
	select {
	case r.queue <- ev:
	default:
		r.logger.Warn("relay queue full, dropping event",
			"variant", ev.Variant,
			"device", ev.Device,
			"kind", ev.Kind,
		)
	}
}

// Run delivers queued events until ctx is cancelled, then drains what is
// already queued.
func (r *Relay) Run(ctx context.Context) {
	for {
		select {
		case ev := <-r.queue:
			r.deliver(ctx, ev)
		case <-ctx.Done():
			r.drain()
			return
		}
	}
}

func (r *Relay) drain() {
	for {
		select {
		case ev := <-r.queue:
			r.deliver(context.Background(), ev)
		default:
			return
		}
	}
}

// deliver hands ev to every sink. A failing sink does not stop the others.
func (r *Relay) deliver(ctx context.Context, ev Event) {
	r.mu.Lock()
	sinks := make([]namedSink, len(r.sinks))
	copy(sinks, r.sinks)
	r.mu.Unlock()

	for _, s := range sinks {
		sctx, cancel := context.WithTimeout(ctx, deliverTimeout)
		err := s.sink.Deliver(sctx, ev)
		cancel()
		if err != nil {
			r.logger.Error("relay sink failed",
				"sink", s.name,
				"variant", ev.Variant,
				"device", ev.Device,
				"kind", ev.Kind,
				"error", err,
			)
		}
	}
}
