// Package reclaim implements epoch-based memory reclamation for the lock-free
// skiplist in internal/skiplist.
//
// Go's garbage collector already guarantees that a node an iterator holds a
// live reference to is never collected out from under it, so the mechanism
// here is not load-bearing for memory safety the way it would be in a
// non-garbage-collected language. It exists so the skiplist can honor spec
// §4.1 point 4 ("no node is freed while any iterator can dereference it") in
// spirit: retired node storage is only returned to a sync.Pool for reuse once
// every iterator that was active at retirement time has moved on, which is
// exactly the deferred-reclamation property the spec describes, applied to
// pooled allocation reuse rather than to manual free().
package reclaim
