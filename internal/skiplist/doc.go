// Package skiplist implements a lock-free, ordered set over a cmp.Ordered key
// type: a forward-linked tower of nodes, each carrying a probabilistically
// chosen height and one forward link per level. The bottom level is the
// logical list; upper levels are search shortcuts.
//
// Deletion marks a node's own forward pointers from the top level down to
// level 0 using a pointer-plus-flag word (the marked link); the CAS that
// marks level 0 is the linearization point of removal. Any goroutine that
// encounters a marked node while searching physically unlinks it from its
// predecessor before continuing (help-on-traverse), so no single goroutine
// is responsible for cleaning up after another's deletion.
//
// Iterators are not invalidated by concurrent mutation: an iterator remembers
// the last key it yielded, and when the node it is parked on (or the next one
// it meets) has been erased, it searches afresh for the live level-0
// predecessor of that key and continues from there, so an iterator parked on
// a node that gets erased out from under it still lands on the next live key
// greater than the last one it returned.
package skiplist
