/*
Package metrics provides a small, concurrency-safe in-memory metrics library for Go.

# Overview

Metrics are addressed by a dotted Path (e.g. "http.server.requests") and
distinguished further by a TagSet (an unordered set of key=value pairs, e.g.
{"method":"GET","route":"/users"}). Every (path, tag set) pair identifies at
most one live instrument of exactly one kind: Counter[T], EWMA or
SamplingHistogram. Registering the same path a second time under a different
kind is an error (ErrMetricTypeMismatch); registering the same (path, tags)
pair again returns the existing instrument, ignoring any construction
parameters the second call supplied.

# Registry

Registry owns the path -> container mapping:

	r := metrics.NewRegistry()
	c, _ := r.Counter(metrics.NewPath("requests.total"), metrics.NoTags)
	c.Add(1)

	e, _ := r.EWMA(metrics.NewPath("requests.rate"), time.Minute, 5*time.Second, metrics.NoTags)
	e.Mark(1)

	h, _ := r.Sampling(metrics.NewPath("requests.latency"), metrics.NoTags)
	h.Record(12.5)

Every registered path's container can be visited or aggregated across all of
its tag sets via the registry, without the caller needing to know the
instrument kind ahead of time:

	r.VisitRegisteredMetrics(func(path metrics.Path, m metrics.RegisteredMetric) {
		m.VisitAny(func(tags metrics.TagSet, snap any) {
			// one callback per distinct tag set
		})
		m.AggregateAny(func(snap any) {
			// snap is every tag set's value folded together via Merge
		})
	})

Registry.ListRegistered provides a point-in-time, admin/debug-style
enumeration of every registered path, its instrument kind, and its current
tag-set count.

# Reference implementation

internal/skiplist implements the lock-free, ordered, concurrent set
SamplingHistogram uses as its sample reservoir: Fraser/Harris/Michael-style
marked-pointer deletion with help-on-traverse unlinking, backed by
epoch-based node reclamation (internal/reclaim) so an iterator parked on a
node stays valid even after another goroutine erases that node.

How a container resolves a lookup (high level)

 1. Fast path: look up the instrument for the requested tag set under the
    container's mutex and return it if present.
 2. Slow path: acquire (creating if absent) a per-tag-set init mutex,
    re-check for the instrument, then run the caller's builder. If the
    builder fails validation (e.g. an EWMA's window shorter than its
    interval), the container is left exactly as it was: nothing is inserted,
    and a later call with valid parameters can still succeed.
 3. Once a builder succeeds, its result is stored under the container's
    mutex and the init-mutex entry is removed (unless cleanup has been
    disabled via WithContainerInitCleanupDisabled), matching the teacher's
    init-mutex cleanup behavior.

# Build and test

  - Run unit tests:

    go test ./...

  - Run with the race detector, required for the concurrent skiplist and
    registry scenarios:

    go test -race ./...

# Notes

  - No panics escape the public API. Internal invariant violations that
    should be structurally impossible (e.g. a container reporting a type
    name inconsistent with its own Go instantiation) are reported through
    the logger and returned to the caller as ErrMetricTypeMismatch rather
    than raised as panics.

  - Per-tag-set init mutex entries are removed by default after
    initialization to allow GC of many ephemeral tag sets. Disable this with
    metrics.WithContainerInitCleanupDisabled().
*/
package metrics
