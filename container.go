package metrics

import "sync"

// Container owns, for one metric path, the mapping from tag set to
// instrument of one specific kind I (producing snapshots of kind S). It is
// created lazily by the registry on first registration at a path and lives
// until the registry itself is destroyed; tag sets are only ever added, not
// removed, matching the spec's "never deletions of tag sets" invariant.
type Container[I Instrument[S], S Mergeable[S]] struct {
	typeName string

	mu       sync.Mutex
	byTags   map[TagSet]I
	initOnce map[TagSet]*sync.Mutex // per-tag-set init lock, deduplicates concurrent builders
	disableInitCleanup bool
}

// NewContainer constructs an empty container fixed to typeName.
func NewContainer[I Instrument[S], S Mergeable[S]](typeName string, opts ...ContainerOption) *Container[I, S] {
	c := &Container[I, S]{
		typeName: typeName,
		byTags:   make(map[TagSet]I),
		initOnce: make(map[TagSet]*sync.Mutex),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// configurableContainer is satisfied by every Container[I, S] instantiation,
// letting ContainerOption stay non-generic.
type configurableContainer interface {
	disableInitCleanupOnce()
}

// ContainerOption configures a Container at construction.
type ContainerOption func(configurableContainer)

func (c *Container[I, S]) disableInitCleanupOnce() { c.disableInitCleanup = true }

// WithContainerInitCleanupDisabled controls whether a container's ephemeral
// per-tag-set init-mutex entries (used exactly like the teacher's inits
// sync.Map, to deduplicate concurrent FindOrCreate calls for the same tag
// set) are deleted after first use. Cleanup is enabled by default.
func WithContainerInitCleanupDisabled() ContainerOption {
	return func(c configurableContainer) { c.disableInitCleanupOnce() }
}

// TypeName returns the kind's type name, fixed at construction.
func (c *Container[I, S]) TypeName() string { return c.typeName }

// FindOrCreate returns the existing instrument for tags, or constructs one
// via builder, inserts it, and returns it. builder is invoked at most once
// per (container, tag set): a fast read path checks for an existing
// instrument first, then a per-tag-set mutex serializes first-time
// construction so concurrent callers racing to create the same tag set's
// instrument all observe the same one.
func (c *Container[I, S]) FindOrCreate(tags TagSet, builder func() I) I {
	inst, _ := c.FindOrCreateErr(tags, func() (I, error) { return builder(), nil })
	return inst
}

// FindOrCreateErr is FindOrCreate for a builder that can fail parameter
// validation. If builder returns an error, the container is left exactly as
// it was: the failed construction is never inserted, and a later call with
// valid parameters can still create the instrument.
func (c *Container[I, S]) FindOrCreateErr(tags TagSet, builder func() (I, error)) (I, error) {
	c.mu.Lock()
	if inst, ok := c.byTags[tags]; ok {
		c.mu.Unlock()
		return inst, nil
	}
	initMu, ok := c.initOnce[tags]
	if !ok {
		initMu = &sync.Mutex{}
		c.initOnce[tags] = initMu
	}
	c.mu.Unlock()

	initMu.Lock()
	defer initMu.Unlock()

	c.mu.Lock()
	if inst, ok := c.byTags[tags]; ok {
		c.mu.Unlock()
		return inst, nil
	}
	c.mu.Unlock()

	inst, err := builder()
	if err != nil {
		var zero I
		return zero, err
	}

	c.mu.Lock()
	c.byTags[tags] = inst
	if !c.disableInitCleanup {
		delete(c.initOnce, tags)
	}
	c.mu.Unlock()

	return inst, nil
}

// Visit invokes fn(tags, snapshot) for every contained instrument. Each
// snapshot is taken under the container's lock; fn is called outside it.
// Visit order is unspecified.
func (c *Container[I, S]) Visit(fn func(TagSet, S)) {
	type entry struct {
		tags TagSet
		snap S
	}

	c.mu.Lock()
	entries := make([]entry, 0, len(c.byTags))
	for tags, inst := range c.byTags {
		entries = append(entries, entry{tags: tags, snap: inst.Snapshot()})
	}
	c.mu.Unlock()

	for _, e := range entries {
		fn(e.tags, e.snap)
	}
}

// Aggregate snapshots every instrument, folds them by Merge, and invokes fn
// once with the folded snapshot. If the container is empty, fn is not
// invoked.
func (c *Container[I, S]) Aggregate(fn func(S)) {
	c.mu.Lock()
	snapshots := make([]S, 0, len(c.byTags))
	for _, inst := range c.byTags {
		snapshots = append(snapshots, inst.Snapshot())
	}
	c.mu.Unlock()

	if len(snapshots) == 0 {
		return
	}
	result := snapshots[0]
	for _, s := range snapshots[1:] {
		result = result.Merge(s)
	}
	fn(result)
}

// Count reports how many distinct tag sets are currently registered.
func (c *Container[I, S]) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byTags)
}

// VisitAny implements RegisteredMetric by boxing each snapshot as any.
func (c *Container[I, S]) VisitAny(fn func(TagSet, any)) {
	c.Visit(func(tags TagSet, snap S) { fn(tags, snap) })
}

// AggregateAny implements RegisteredMetric by boxing the merged snapshot as any.
func (c *Container[I, S]) AggregateAny(fn func(any)) {
	c.Aggregate(func(snap S) { fn(snap) })
}
