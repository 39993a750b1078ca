package metrics

import (
	"fmt"
	"sync/atomic"
)

// Counter is a thread-safe monotonic (or signed, if Add is called with
// negative deltas) accumulator over T.
type Counter[T Numeric] struct {
	typeName string
	val      atomic.Int64
}

func newCounter[T Numeric](initial T) *Counter[T] {
	c := &Counter[T]{typeName: counterTypeName[T]()}
	c.val.Store(int64(initial))
	return c
}

// counterTypeName composes the spec's "counter" literal with the numeric
// type identifier, e.g. "counter<int64>".
func counterTypeName[T Numeric]() string {
	var zero T
	return fmt.Sprintf("counter<%T>", zero)
}

// Add increments the counter by delta.
func (c *Counter[T]) Add(delta T) { c.val.Add(int64(delta)) }

// Value returns the current value.
func (c *Counter[T]) Value() T { return T(c.val.Load()) }

// CounterSnapshot is an immutable scalar snapshot of a Counter.
type CounterSnapshot[T Numeric] struct {
	Value T
}

// Snapshot returns a coherent read of the counter's current value.
func (c *Counter[T]) Snapshot() CounterSnapshot[T] {
	return CounterSnapshot[T]{Value: c.Value()}
}

// TypeName identifies the instrument kind, fixed at construction.
func (c *Counter[T]) TypeName() string { return c.typeName }

// Merge combines two counter snapshots by arithmetic addition. Addition over
// T is commutative and associative, so repeated Merge calls fold correctly
// regardless of order.
func (s CounterSnapshot[T]) Merge(other CounterSnapshot[T]) CounterSnapshot[T] {
	return CounterSnapshot[T]{Value: s.Value + other.Value}
}
