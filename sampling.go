package metrics

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ygrebnov/cxxmetrics/internal/skiplist"
)

// samplingTypeName is the fixed type name for the sampling histogram
// instrument kind.
const samplingTypeName = "sampling_histogram"

// DefaultReservoirCapacity bounds a SamplingHistogram's retained sample count
// when no explicit capacity is configured.
const DefaultReservoirCapacity = 1000

// sample is the skiplist key for one retained observation: a fixed-width hex
// string encoding (value, sequence) such that Go's ordinary string ordering
// (which is what internal/skiplist.List[string] uses) matches (value,
// sequence) ordered lexicographically. sequence breaks ties between equal
// values so the skiplist's no-duplicate-keys invariant never collapses
// distinct observations of the same value into one entry.
type sample = string

// encodeSample packs value and sequence into a sortable key. value is mapped
// to a bit pattern that preserves IEEE-754 total order under unsigned integer
// comparison (flip the sign bit for non-negatives, invert every bit for
// negatives), the same trick used to sort floats as unsigned integers.
func encodeSample(value float64, sequence uint64) sample {
	bits := math.Float64bits(value)
	if bits&(1<<63) != 0 {
		bits = ^bits
	} else {
		bits |= 1 << 63
	}
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], bits)
	binary.BigEndian.PutUint64(buf[8:16], sequence)
	return hex.EncodeToString(buf[:])
}

// decodeSampleValue recovers the float64 value encoded in key by encodeSample.
func decodeSampleValue(key sample) float64 {
	raw, err := hex.DecodeString(key)
	if err != nil || len(raw) < 8 {
		return 0
	}
	bits := binary.BigEndian.Uint64(raw[0:8])
	if bits&(1<<63) != 0 {
		bits &^= 1 << 63
	} else {
		bits = ^bits
	}
	return math.Float64frombits(bits)
}

// SamplingHistogram is an exact-quantile instrument backed directly by the
// ordered skiplist: every retained observation is a live entry, so quantiles
// are computed by ranked position rather than bucket interpolation. The
// reservoir is bounded; once full, the oldest retained sample is evicted via
// the skiplist's erase-by-iterator path.
type SamplingHistogram struct {
	capacity int

	mu       sync.Mutex
	list     *skiplist.List[sample]
	fifo     []sample // oldest-first, for eviction
	sequence atomic.Uint64
}

// SamplingOption configures a SamplingHistogram at construction.
type SamplingOption func(*SamplingHistogram)

// WithReservoirCapacity overrides DefaultReservoirCapacity.
func WithReservoirCapacity(capacity int) SamplingOption {
	return func(h *SamplingHistogram) {
		if capacity > 0 {
			h.capacity = capacity
		}
	}
}

// NewSamplingHistogram constructs an empty sampling histogram.
func NewSamplingHistogram(opts ...SamplingOption) *SamplingHistogram {
	h := &SamplingHistogram{
		capacity: DefaultReservoirCapacity,
		list:     skiplist.New[sample](),
	}
	for _, o := range opts {
		if o != nil {
			o(h)
		}
	}
	return h
}

// TypeName identifies the instrument kind.
func (h *SamplingHistogram) TypeName() string { return samplingTypeName }

// Record inserts v into the reservoir, evicting the oldest retained sample
// first if the reservoir is already at capacity.
func (h *SamplingHistogram) Record(v float64) {
	key := encodeSample(v, h.sequence.Add(1))

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.fifo) >= h.capacity && h.capacity > 0 {
		oldest := h.fifo[0]
		h.fifo = h.fifo[1:]
		if it := h.list.Find(oldest); it.Valid() {
			h.list.Erase(it)
		}
	}

	h.list.Insert(key)
	h.fifo = append(h.fifo, key)
}

// SamplingSnapshot is an immutable statistical summary of a sampling
// histogram's retained reservoir at the time Snapshot was called.
type SamplingSnapshot struct {
	Count int
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
	P50   float64
	P90   float64
	P99   float64
}

// quantile returns the value at the given rank fraction (0..1) of a
// non-empty, ascending-sorted slice.
func quantile(sorted []float64, frac float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := int(frac * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Snapshot walks the reservoir once, in ascending order, to compute count,
// sum, min, max, mean and the p50/p90/p99 values at their ranked positions.
func (h *SamplingHistogram) Snapshot() SamplingSnapshot {
	h.mu.Lock()
	values := make([]float64, 0, len(h.fifo))
	for it := h.list.Begin(); it.Valid(); it.Next() {
		values = append(values, decodeSampleValue(it.Key()))
	}
	h.mu.Unlock()

	if len(values) == 0 {
		return SamplingSnapshot{}
	}
	// values is already ascending: the skiplist walk visits keys in order,
	// and encodeSample's bit encoding preserves float64 order as key order.

	var sum float64
	for _, v := range values {
		sum += v
	}

	return SamplingSnapshot{
		Count: len(values),
		Sum:   sum,
		Min:   values[0],
		Max:   values[len(values)-1],
		Mean:  sum / float64(len(values)),
		P50:   quantile(values, 0.50),
		P90:   quantile(values, 0.90),
		P99:   quantile(values, 0.99),
	}
}

// Merge combines count/sum/min/max exactly, associatively and commutatively,
// as for the counter. Merged quantiles have no exact cross-reservoir
// definition (spec §9 explicitly declines to define one), so they are
// approximated as the sample-count-weighted average of the two inputs'
// quantiles; see DESIGN.md for the rationale.
func (s SamplingSnapshot) Merge(other SamplingSnapshot) SamplingSnapshot {
	if s.Count == 0 {
		return other
	}
	if other.Count == 0 {
		return s
	}

	total := s.Count + other.Count
	wa := float64(s.Count) / float64(total)
	wb := float64(other.Count) / float64(total)

	min := s.Min
	if other.Min < min {
		min = other.Min
	}
	max := s.Max
	if other.Max > max {
		max = other.Max
	}
	sum := s.Sum + other.Sum

	return SamplingSnapshot{
		Count: total,
		Sum:   sum,
		Min:   min,
		Max:   max,
		Mean:  sum / float64(total),
		P50:   wa*s.P50 + wb*other.P50,
		P90:   wa*s.P90 + wb*other.P90,
		P99:   wa*s.P99 + wb*other.P99,
	}
}

// Sampling resolves (creating if absent) the sampling histogram container at
// path, then resolves (creating if absent) the sampling histogram for tags.
// opts are ignored if the instrument already exists.
func (r *Registry) Sampling(path Path, tags TagSet, opts ...SamplingOption) (*SamplingHistogram, error) {
	container, err := getOrCreateContainer[*SamplingHistogram, SamplingSnapshot](r, path, samplingTypeName)
	if err != nil {
		return nil, err
	}
	return container.FindOrCreate(tags, func() *SamplingHistogram {
		return NewSamplingHistogram(opts...)
	}), nil
}
