package metrics

// Instrument is the structural constraint every instrument kind satisfies: a
// live metric object that can be snapshotted and that knows its own kind
// name. Counter[T] and EWMA both satisfy it.
type Instrument[S any] interface {
	Snapshot() S
	TypeName() string
}

// Mergeable is the structural constraint every snapshot kind satisfies:
// combining two snapshots of the same kind into one. CounterSnapshot[T] and
// EWMASnapshot both satisfy it.
type Mergeable[S any] interface {
	Merge(S) S
}

// RegisteredMetric is the capability every per-path container exposes to the
// registry and to publishers, regardless of which concrete instrument kind
// it holds. This is the generalization the spec's design notes call for in
// place of a non-generic base class with a templated derived container:
// Go's generics can't express a heterogeneous collection of
// Container[I, S] for different (I, S) directly, so the registry keeps
// *RegisteredMetric* values and each Container[I, S] implements it by boxing
// its snapshots as any for the duration of a single Visit/Aggregate call.
type RegisteredMetric interface {
	// TypeName is the kind's type name, fixed at construction.
	TypeName() string

	// VisitAny invokes fn(tags, snapshot) for every contained instrument.
	// Each snapshot is taken under the container's lock; fn itself is
	// called outside the lock. Visit order is unspecified.
	VisitAny(fn func(TagSet, any))

	// AggregateAny snapshots every instrument, folds them by Merge, and
	// invokes fn once with the folded snapshot boxed as any. If the
	// container is empty, fn is not invoked.
	AggregateAny(fn func(any))

	// Count reports how many distinct tag sets are currently registered.
	Count() int
}
