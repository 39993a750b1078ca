package metrics

import "golang.org/x/exp/constraints"

// Numeric bounds the scalar types a Counter may accumulate. Go has no atomic
// float add primitive without a CAS-bit-cast loop, so counters are
// integer-only; fractional, time-decayed values live in EWMA instead.
type Numeric interface {
	constraints.Integer
}
