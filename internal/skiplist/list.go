package skiplist

import (
	"cmp"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/ygrebnov/cxxmetrics/internal/reclaim"
)

// MaxHeight is the default maximum tower height (H in the spec), truncating
// the geometric(p=1/2) height distribution used at insert.
const MaxHeight = 16

// link is a marked pointer word: a forward reference paired with a one-bit
// logical-deletion flag. Both fields are read together by loading the link
// itself, so the mark is always observed atomically with the pointer it
// tags, as required. A link value is never mutated in place; every state
// change allocates a new link and CASes it into place.
type link[K any] struct {
	to     *node[K]
	marked bool
}

// node is a skiplist tower entry. next has length == height; next[0] is the
// bottom-level (logical-list) link. A node's next[level] is filled in when the
// node is built for insert; after that it changes only by CAS, either to
// splice a successor in or out or to set the deletion mark. Once marked it is
// never written again until the node is recycled through a pool, so any
// goroutine holding a *node[K] may read its next slice without
// synchronization beyond the atomic loads below.
type node[K any] struct {
	key  K
	next []atomic.Pointer[link[K]]
}

func newNode[K any](key K, height int) *node[K] {
	n := &node[K]{key: key, next: make([]atomic.Pointer[link[K]], height)}
	return n
}

// reset clears a retired node's tower so it can be safely handed back out by
// a pool: every link slot is dropped so a reused node starts with no stale
// forward references.
func (n *node[K]) reset(key K) {
	n.key = key
	for i := range n.next {
		n.next[i].Store(nil)
	}
}

func (n *node[K]) loadNext(level int) *link[K] {
	return n.next[level].Load()
}

// deleted reports whether n is logically removed, i.e. whether n's own
// level-0 forward link carries the deletion mark.
func (n *node[K]) deleted() bool {
	l := n.loadNext(0)
	return l != nil && l.marked
}

// List is a lock-free ordered set of keys of type K.
//
// All operations are safe for concurrent use by multiple goroutines without
// external locking. Insert and Erase are lock-free (individual goroutines may
// retry under contention, but the set as a whole always makes progress).
type List[K cmp.Ordered] struct {
	head      *node[K]
	height    atomic.Int32 // highest level currently in use, for search/insert bounds
	maxHeight int
	reclaim   *reclaim.Manager
	pools     []sync.Pool // pools[h-1] recycles retired nodes of height h
}

// New constructs an empty list with the default maximum height.
func New[K cmp.Ordered]() *List[K] {
	return NewWithHeight[K](MaxHeight)
}

// NewWithHeight constructs an empty list with the given maximum tower
// height. maxHeight must be >= 1.
func NewWithHeight[K cmp.Ordered](maxHeight int) *List[K] {
	if maxHeight < 1 {
		maxHeight = 1
	}
	l := &List[K]{
		head:      newNode[K](*new(K), maxHeight),
		maxHeight: maxHeight,
		reclaim:   reclaim.NewManager(),
		pools:     make([]sync.Pool, maxHeight),
	}
	for level := 0; level < maxHeight; level++ {
		l.head.next[level].Store(&link[K]{})
	}
	l.height.Store(1)
	return l
}

// allocNode returns a node of the given height, reused from the retired-node
// pool for that height if one is available.
func (l *List[K]) allocNode(key K, height int) *node[K] {
	if v := l.pools[height-1].Get(); v != nil {
		n := v.(*node[K])
		n.reset(key)
		return n
	}
	return newNode(key, height)
}

// releaseNode schedules n's storage for reuse once no iterator active at
// retirement time can still observe it (see internal/reclaim).
func (l *List[K]) releaseNode(n *node[K]) {
	height := len(n.next)
	l.reclaim.Retire(func() {
		l.pools[height-1].Put(n)
	})
}

func (l *List[K]) topLevel() int {
	h := int(l.height.Load())
	if h > l.maxHeight {
		h = l.maxHeight
	}
	if h < 1 {
		h = 1
	}
	return h - 1
}

// randomHeight draws a height in [1, max] from a geometric(p=1/2)
// distribution truncated at max, using math/rand's global source, which
// is itself safe for concurrent use without a caller-visible lock.
func randomHeight(max int) int {
	h := 1
	for h < max && rand.Uint64()&1 == 0 {
		h++
	}
	return h
}

// search locates, for key, the predecessor and successor at every level from
// topLevel() down to 0, physically unlinking any marked node it encounters
// along the way (help-on-traverse). preds and succs must have length
// l.maxHeight; indices above the searched top level get the head as
// predecessor and no successor.
//
// It returns the live (unmarked) node with key == key at level 0, if any.
func (l *List[K]) search(key K, preds, succs []*node[K]) *node[K] {
top:
	pred := l.head
	topLvl := l.topLevel()
	for level := len(preds) - 1; level > topLvl; level-- {
		preds[level] = l.head
		succs[level] = nil
	}
	for level := topLvl; level >= 0; level-- {
		curLink := pred.loadNext(level)
		for {
			cur := curLink.to
			if cur == nil {
				break
			}
			curNext := cur.loadNext(level)
			if curNext != nil && curNext.marked {
				// cur is logically deleted at this level; help unlink it.
				unlinked := &link[K]{to: curNext.to}
				if !pred.next[level].CompareAndSwap(curLink, unlinked) {
					goto top
				}
				curLink = unlinked
				continue
			}
			if cmp.Less(cur.key, key) {
				pred = cur
				curLink = curNext
				continue
			}
			break
		}
		preds[level] = pred
		succs[level] = curLink.to
	}
	if succs[0] != nil && succs[0].key == key && !succs[0].deleted() {
		return succs[0]
	}
	return nil
}

// raiseHeight bumps the list's recorded in-use height to at least h.
func (l *List[K]) raiseHeight(h int) {
	for {
		cur := int(l.height.Load())
		if h <= cur {
			return
		}
		if l.height.CompareAndSwap(int32(cur), int32(h)) {
			return
		}
	}
}

// Insert adds key to the set. It returns true if this call performed the
// insertion, false if key was already present (in which case the set is
// unchanged).
func (l *List[K]) Insert(key K) bool {
	preds := make([]*node[K], l.maxHeight)
	succs := make([]*node[K], l.maxHeight)
	for {
		if existing := l.search(key, preds, succs); existing != nil {
			return false
		}

		height := randomHeight(l.maxHeight)
		n := l.allocNode(key, height)
		for level := 0; level < height; level++ {
			n.next[level].Store(&link[K]{to: succs[level]})
		}

		pred0 := preds[0]
		old0 := pred0.loadNext(0)
		if old0.to != succs[0] || old0.marked {
			continue // predecessor changed since search; retry
		}
		if !pred0.next[0].CompareAndSwap(old0, &link[K]{to: n}) {
			continue
		}

		// Bottom level is linked: n is now logically present. Link the
		// remaining levels best-effort; a reader will never observe n at an
		// unlinked upper level, it will simply find it one level lower.
		for level := 1; level < height; level++ {
			for {
				pred := preds[level]
				old := pred.loadNext(level)
				if old.to == n {
					break
				}
				want := &link[K]{to: n}
				if !old.marked && pred.next[level].CompareAndSwap(old, want) {
					break
				}
				// predecessor's pointer moved or the predecessor is being
				// erased; re-search just this level.
				var p2, s2 []*node[K]
				p2 = make([]*node[K], l.maxHeight)
				s2 = make([]*node[K], l.maxHeight)
				l.search(key, p2, s2)
				preds[level] = p2[level]
			}
		}
		l.raiseHeight(height)
		return true
	}
}

// Find returns an iterator positioned at the live node with the given key,
// or an end iterator (see (*Iterator[K]).Valid) if no such node exists.
func (l *List[K]) Find(key K) *Iterator[K] {
	preds := make([]*node[K], l.maxHeight)
	succs := make([]*node[K], l.maxHeight)
	n := l.search(key, preds, succs)
	if n == nil {
		return l.endIterator()
	}
	return l.iteratorAt(n)
}

// eraseNode marks n for deletion from its highest level down to level 0; the
// CAS that marks level 0 is the linearization point. It returns true if this
// call performed the logical removal, false if n was already marked.
func (l *List[K]) eraseNode(n *node[K]) bool {
	height := len(n.next)
	for level := height - 1; level >= 1; level-- {
		for {
			cur := n.loadNext(level)
			if cur.marked {
				break
			}
			marked := &link[K]{to: cur.to, marked: true}
			if n.next[level].CompareAndSwap(cur, marked) {
				break
			}
		}
	}
	for {
		cur := n.loadNext(0)
		if cur.marked {
			return false
		}
		marked := &link[K]{to: cur.to, marked: true}
		if n.next[0].CompareAndSwap(cur, marked) {
			// Physically unlink from every predecessor via a normal search,
			// which helps-on-traverse past any marked node it meets,
			// including this one. Reclaim the node's storage once no live
			// iterator can still be standing on it.
			preds := make([]*node[K], l.maxHeight)
			succs := make([]*node[K], l.maxHeight)
			l.search(n.key, preds, succs)
			l.releaseNode(n)
			return true
		}
	}
}

// Erase removes the node the iterator refers to. It returns true if this
// call performed the removal, false if the node was already removed by
// another goroutine or the iterator does not refer to a live node (e.g. it
// is an end iterator).
func (l *List[K]) Erase(it *Iterator[K]) bool {
	if it == nil || it.cur == nil {
		return false
	}
	ok := l.eraseNode(it.cur)
	return ok
}
