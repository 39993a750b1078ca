package skiplist

import (
	"cmp"

	"github.com/ygrebnov/cxxmetrics/internal/reclaim"
)

// Iterator walks a List's live keys in ascending order. A zero Iterator is
// not usable; obtain one from (*List[K]).Begin or (*List[K]).Find.
//
// An Iterator holds a reclamation guard for its entire lifetime, which is
// what makes it safe to keep using even after the node it is parked on has
// been erased by another goroutine: the node (and any pooled storage it
// occupies) cannot be handed back out for reuse while the guard is still
// active. Close releases the guard; iterators that are walked to the end
// release it automatically.
type Iterator[K cmp.Ordered] struct {
	list    *List[K]
	cur     *node[K]
	last    K
	hasLast bool
	guard   *reclaim.Guard
}

func (l *List[K]) newIterator() *Iterator[K] {
	return &Iterator[K]{list: l, guard: l.reclaim.Enter()}
}

func (l *List[K]) endIterator() *Iterator[K] {
	it := l.newIterator()
	it.release()
	return it
}

func (l *List[K]) iteratorAt(n *node[K]) *Iterator[K] {
	it := l.newIterator()
	it.cur = n
	it.last = n.key
	it.hasLast = true
	return it
}

func (it *Iterator[K]) release() {
	if it.guard != nil {
		it.guard.Exit()
		it.guard = nil
	}
}

// Close releases the iterator's reclamation guard. It is safe to call
// multiple times and safe to omit if the iterator was walked to its end
// (an iterator for which Valid reports false has already released its
// guard).
func (it *Iterator[K]) Close() { it.release() }

// Valid reports whether the iterator refers to a live node. An iterator
// returned by Find for a missing key, or advanced past the last key, is not
// valid; this is the equivalent of comparing against end().
func (it *Iterator[K]) Valid() bool { return it.cur != nil }

// Key returns the key the iterator currently refers to. Calling it on an
// invalid iterator panics, matching dereferencing end() being undefined.
func (it *Iterator[K]) Key() K {
	if it.cur == nil {
		panic("skiplist: Key called on an invalid iterator")
	}
	return it.cur.key
}

// Next advances the iterator to the next live key strictly greater than the
// last one it yielded, skipping nodes erased since the iterator was
// positioned (including the node it was previously parked on, if that node
// has since been erased). It returns whether the iterator is still valid
// after advancing.
func (it *Iterator[K]) Next() bool {
	// An erased node's level-0 link is frozen when it is marked, so walking
	// it could skip keys inserted after the erase; restart from the live
	// level-0 predecessor of key instead.
	restartBefore := func(key K) *node[K] {
		preds := make([]*node[K], it.list.maxHeight)
		succs := make([]*node[K], it.list.maxHeight)
		it.list.search(key, preds, succs)
		return preds[0]
	}
	n := it.cur
	if n == nil {
		n = it.list.head
	} else if n.deleted() {
		n = restartBefore(it.last)
	}
	for {
		nxt := n.loadNext(0)
		if nxt == nil || nxt.to == nil {
			it.cur = nil
			it.release()
			return false
		}
		cand := nxt.to
		if cand.deleted() {
			n = restartBefore(cand.key)
			continue
		}
		if it.hasLast && !cmp.Less(it.last, cand.key) {
			n = cand
			continue
		}
		it.cur = cand
		it.last = cand.key
		it.hasLast = true
		return true
	}
}

// Begin returns an iterator positioned at the smallest live key, or an
// invalid iterator if the list is empty.
func (l *List[K]) Begin() *Iterator[K] {
	it := l.newIterator()
	it.Next()
	return it
}

// End returns an invalid iterator, equivalent to one that has been advanced
// past the last live key.
func (l *List[K]) End() *Iterator[K] {
	return l.endIterator()
}

// Values collects every live key in ascending order. It is a convenience for
// tests and callers that want a snapshot rather than streaming iteration.
func (l *List[K]) Values() []K {
	var out []K
	for it := l.Begin(); it.Valid(); it.Next() {
		out = append(out, it.Key())
	}
	return out
}
