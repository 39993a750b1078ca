package metrics

import (
	"sync"
	"time"
)

// DefaultEWMAInterval is used by Registry.EWMA when no interval is given,
// matching the original repository's 5-second default sampling interval.
const DefaultEWMAInterval = 5 * time.Second

// registryConfig holds construction-time options applied via RegistryOption.
type registryConfig struct {
	logger        logger
	clock         Clock
	containerOpts []ContainerOption
}

// RegistryOption configures a Registry constructed by NewRegistry.
type RegistryOption func(*registryConfig)

// WithRegistryLogger routes the registry's internal diagnostics (invariant
// violations found while resolving a container) to l instead of discarding
// them. Instruments and the skiplist do not log.
func WithRegistryLogger(l logger) RegistryOption {
	return func(cfg *registryConfig) { cfg.logger = l }
}

// WithRegistryClock overrides the monotonic clock new EWMA instruments are
// constructed with. Intended for tests.
func WithRegistryClock(c Clock) RegistryOption {
	return func(cfg *registryConfig) { cfg.clock = c }
}

// WithRegistryContainerOptions applies opts to every container the registry
// creates, e.g. to disable per-tag-set init-mutex cleanup registry-wide via
// WithContainerInitCleanupDisabled, matching the teacher's provider-level
// WithInitCleanupDisabled.
func WithRegistryContainerOptions(opts ...ContainerOption) RegistryOption {
	return func(cfg *registryConfig) { cfg.containerOpts = append(cfg.containerOpts, opts...) }
}

// Registry owns the path -> container mapping. A single mutex guards the
// mapping itself and is taken briefly by every lookup to resolve the
// container; each container guards its own tag map independently, so
// tag-set work on different paths does not contend beyond that.
type Registry struct {
	cfg    registryConfig
	logger logger
	clock  Clock

	mu         sync.Mutex
	containers map[Path]RegisteredMetric
}

// NewRegistry constructs an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := registryConfig{}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = newNoopLogger()
	}
	if cfg.clock == nil {
		cfg.clock = SystemClock{}
	}
	return &Registry{
		cfg:        cfg,
		logger:     cfg.logger,
		clock:      cfg.clock,
		containers: make(map[Path]RegisteredMetric),
	}
}

// getOrCreateContainer returns the container of kind (I, S) registered at
// path, creating it (with typeName) if absent. If a container already
// exists at path under a different type name, it returns
// ErrMetricTypeMismatch and leaves the registry unchanged.
//
// This can't be a method on *Registry: Go methods may only use their
// receiver's type parameters, and Registry itself isn't generic (it holds
// heterogeneous RegisteredMetric values, one per path). A free function
// parameterized over (I, S) is the idiomatic way to recover type safety at
// each call site while keeping the registry's own map non-generic.
func getOrCreateContainer[I Instrument[S], S Mergeable[S]](r *Registry, path Path, typeName string) (*Container[I, S], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.containers[path]; ok {
		if existing.TypeName() != typeName {
			return nil, newMetricTypeMismatch(path, existing.TypeName(), typeName)
		}
		typed, ok := existing.(*Container[I, S])
		if !ok {
			// Same type name but a different Go instantiation: can't happen
			// through the public API, since TypeName is derived from (I, S)
			// itself, but report it as a mismatch rather than panicking.
			r.logger.Errorf("metrics: container at %q reports type %q but failed a same-name type assertion", path, typeName)
			return nil, newMetricTypeMismatch(path, existing.TypeName(), typeName)
		}
		return typed, nil
	}

	c := NewContainer[I, S](typeName, r.cfg.containerOpts...)
	r.containers[path] = c
	return c, nil
}

// CounterT resolves (creating if absent) the counter container at path, then
// resolves (creating with initial if absent) the counter for tags. initial
// is ignored if the counter already exists. Go methods can't introduce a new
// type parameter, so the generic form is a free function; Registry.Counter
// below is the common int64 case as an ordinary method.
func CounterT[T Numeric](r *Registry, path Path, initial T, tags TagSet) (*Counter[T], error) {
	container, err := getOrCreateContainer[*Counter[T], CounterSnapshot[T]](r, path, counterTypeName[T]())
	if err != nil {
		return nil, err
	}
	return container.FindOrCreate(tags, func() *Counter[T] {
		return newCounter(initial)
	}), nil
}

// Counter resolves (creating with initial value 0 if absent) the int64
// counter at path for tags. Use CounterT for other integer types.
func (r *Registry) Counter(path Path, tags TagSet) (*Counter[int64], error) {
	return CounterT[int64](r, path, 0, tags)
}

// EWMA resolves (creating if absent) the EWMA container at path, then
// resolves (creating with window/interval if absent) the EWMA for tags.
// window and interval are ignored if the instrument already exists. interval
// defaults to DefaultEWMAInterval when zero.
func (r *Registry) EWMA(path Path, window, interval time.Duration, tags TagSet) (*EWMA, error) {
	if interval == 0 {
		interval = DefaultEWMAInterval
	}

	container, err := getOrCreateContainer[*EWMA, EWMASnapshot](r, path, ewmaTypeName)
	if err != nil {
		return nil, err
	}

	// window/interval are validated inside the builder, which only runs if
	// the instrument doesn't already exist: if it does, a bad window or
	// interval is simply ignored, per the spec. A failed builder leaves the
	// container exactly as it was (see FindOrCreateErr).
	return container.FindOrCreateErr(tags, func() (*EWMA, error) {
		return NewEWMA(r.clock, window, interval)
	})
}

// VisitRegisteredMetrics calls fn(path, container) for every registered
// path. The registry's mutex is held only long enough to snapshot the set of
// containers to visit; fn runs outside it, so publisher callbacks never
// block new registrations.
func (r *Registry) VisitRegisteredMetrics(fn func(Path, RegisteredMetric)) {
	r.mu.Lock()
	snapshot := make(map[Path]RegisteredMetric, len(r.containers))
	for path, c := range r.containers {
		snapshot[path] = c
	}
	r.mu.Unlock()

	for path, c := range snapshot {
		fn(path, c)
	}
}
