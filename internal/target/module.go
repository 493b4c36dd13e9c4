package target

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/nerrad567/targetplatform/internal/configstore"
	"github.com/nerrad567/targetplatform/internal/events"
	"github.com/nerrad567/targetplatform/internal/formats"
	"github.com/nerrad567/targetplatform/internal/hostinfo"
	"github.com/nerrad567/targetplatform/internal/platform"
	"github.com/nerrad567/targetplatform/internal/toolchain"
)

// Module errors.
var (
	// ErrUnknownVariant is returned for a variant name not in the table.
	ErrUnknownVariant = errors.New("target: unknown variant")

	// ErrShutdown is returned after Shutdown.
	ErrShutdown = errors.New("target: module shut down")
)

// ModuleOptions configures a Module. Every target it creates shares the
// store, host and resolver.
type ModuleOptions struct {
	// Platform and OS name the family, e.g. "Linux" and "linux".
	Platform string
	OS       string

	Store     configstore.Store
	Section   string
	KeyPrefix string

	Host        hostinfo.Info
	EditorBuild bool
	Probe       *toolchain.Probe
	Resolver    formats.Resolver
	Logger      Logger
}

// Module owns one lazily created Target per variant for the process
// lifetime.
type Module struct {
	opts     ModuleOptions
	variants []platform.Properties

	mu      sync.Mutex
	targets map[string]*Target
	closed  bool

	created *events.Hub[*Target]
}

// NewModule creates a module over the standard variant table.
func NewModule(opts ModuleOptions) *Module {
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	m := &Module{
		opts:     opts,
		variants: platform.Variants(opts.Platform, opts.OS),
		targets:  make(map[string]*Target),
		created:  events.NewHub[*Target]("target.created"),
	}
	m.created.SetLogger(opts.Logger)
	return m
}

// Variants returns the variant table.
func (m *Module) Variants() []platform.Properties {
	out := make([]platform.Properties, len(m.variants))
	copy(out, m.variants)
	return out
}

// OnTargetCreated is the hub announcing each newly created target.
func (m *Module) OnTargetCreated() *events.Hub[*Target] {
	return m.created
}

// Target returns the target for a variant, creating it on first use.
// Variant names match case-insensitively.
func (m *Module) Target(name string) (*Target, error) {
	props, ok := platform.Lookup(m.variants, name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrShutdown
	}
	if t, ok := m.targets[props.Name()]; ok {
		m.mu.Unlock()
		return t, nil
	}

	t, err := New(Options{
		Properties:  props,
		Store:       m.opts.Store,
		Section:     m.opts.Section,
		KeyPrefix:   m.opts.KeyPrefix,
		Host:        m.opts.Host,
		EditorBuild: m.opts.EditorBuild,
		Probe:       m.opts.Probe,
		Resolver:    m.opts.Resolver,
		Logger:      m.opts.Logger,
	})
	if err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("creating target %s: %w", props.Name(), err)
	}
	m.targets[props.Name()] = t
	m.mu.Unlock()

	m.opts.Logger.Info("target created", "target", t.Name())
	m.created.Publish(t)
	return t, nil
}

// CreateAll creates every variant's target and returns them in table order.
func (m *Module) CreateAll() ([]*Target, error) {
	out := make([]*Target, 0, len(m.variants))
	for _, v := range m.variants {
		t, err := m.Target(v.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Targets returns the targets created so far, sorted by name.
func (m *Module) Targets() []*Target {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Target, 0, len(m.targets))
	for _, t := range m.targets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Shutdown releases every target and flushes the store.
func (m *Module) Shutdown() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.targets = make(map[string]*Target)
	m.mu.Unlock()

	if m.opts.Store == nil {
		return nil
	}
	if err := m.opts.Store.Flush(); err != nil {
		return fmt.Errorf("flushing config store: %w", err)
	}
	return nil
}
