package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplingHistogram_EncodeDecodeRoundTrips(t *testing.T) {
	for _, v := range []float64{0, 1, -1, 3.14159, -3.14159, 1e300, -1e300} {
		key := encodeSample(v, 42)
		assert.Equal(t, v, decodeSampleValue(key))
	}
}

func TestSamplingHistogram_EncodePreservesOrder(t *testing.T) {
	values := []float64{-5, -1, 0, 0.5, 1, 100}
	keys := make([]sample, len(values))
	for i, v := range values {
		keys[i] = encodeSample(v, uint64(i))
	}
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
}

func TestSamplingHistogram_SnapshotComputesStats(t *testing.T) {
	h := NewSamplingHistogram()
	for _, v := range []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10} {
		h.Record(v)
	}

	snap := h.Snapshot()
	assert.Equal(t, 10, snap.Count)
	assert.Equal(t, 55.0, snap.Sum)
	assert.Equal(t, 1.0, snap.Min)
	assert.Equal(t, 10.0, snap.Max)
	assert.Equal(t, 5.5, snap.Mean)
}

func TestSamplingHistogram_EmptySnapshot(t *testing.T) {
	h := NewSamplingHistogram()
	assert.Equal(t, SamplingSnapshot{}, h.Snapshot())
}

func TestSamplingHistogram_EvictsOldestOnceAtCapacity(t *testing.T) {
	h := NewSamplingHistogram(WithReservoirCapacity(3))
	h.Record(1)
	h.Record(2)
	h.Record(3)
	h.Record(4) // evicts 1

	snap := h.Snapshot()
	assert.Equal(t, 3, snap.Count)
	assert.Equal(t, 2.0, snap.Min)
	assert.Equal(t, 4.0, snap.Max)
}

func TestSamplingHistogram_DuplicateValuesAreAllRetained(t *testing.T) {
	h := NewSamplingHistogram()
	h.Record(5)
	h.Record(5)
	h.Record(5)

	snap := h.Snapshot()
	assert.Equal(t, 3, snap.Count)
	assert.Equal(t, 15.0, snap.Sum)
}

func TestSamplingSnapshot_MergeCombinesCountsExactly(t *testing.T) {
	a := SamplingSnapshot{Count: 2, Sum: 10, Min: 1, Max: 9, Mean: 5, P50: 5, P90: 9, P99: 9}
	b := SamplingSnapshot{Count: 3, Sum: 30, Min: 5, Max: 15, Mean: 10, P50: 10, P90: 15, P99: 15}

	merged := a.Merge(b)
	assert.Equal(t, 5, merged.Count)
	assert.Equal(t, 40.0, merged.Sum)
	assert.Equal(t, 1.0, merged.Min)
	assert.Equal(t, 15.0, merged.Max)
	assert.Equal(t, 8.0, merged.Mean)
}

func TestSamplingSnapshot_MergeWithEmptyReturnsOther(t *testing.T) {
	a := SamplingSnapshot{}
	b := SamplingSnapshot{Count: 1, Sum: 5, Min: 5, Max: 5, Mean: 5}
	assert.Equal(t, b, a.Merge(b))
	assert.Equal(t, b, b.Merge(a))
}

func TestRegistry_Sampling(t *testing.T) {
	r := NewRegistry()
	h, err := r.Sampling(ParsePath("latency"), NoTags)
	require.NoError(t, err)
	h.Record(1)
	h.Record(2)

	again, err := r.Sampling(ParsePath("latency"), NoTags)
	require.NoError(t, err)
	assert.Same(t, h, again)
	assert.Equal(t, 2, again.Snapshot().Count)
}
