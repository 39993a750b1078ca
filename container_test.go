package metrics

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainer_FindOrCreateBuildsOnce(t *testing.T) {
	c := NewContainer[*Counter[int64], CounterSnapshot[int64]]("counter<int64>")
	var builds int32

	build := func() *Counter[int64] {
		atomic.AddInt32(&builds, 1)
		return newCounter[int64](1)
	}

	a := c.FindOrCreate(NoTags, build)
	b := c.FindOrCreate(NoTags, build)
	assert.Same(t, a, b)
	assert.Equal(t, int32(1), builds)
}

func TestContainer_FindOrCreateErrLeavesNoPartialState(t *testing.T) {
	c := NewContainer[*EWMA, EWMASnapshot]("ewma")
	clk := &fakeClock{}

	_, err := c.FindOrCreateErr(NoTags, func() (*EWMA, error) {
		return NewEWMA(clk, 0, 0) // invalid: interval must be > 0
	})
	require.Error(t, err)
	assert.Equal(t, 0, c.Count())

	inst, err := c.FindOrCreateErr(NoTags, func() (*EWMA, error) {
		return NewEWMA(clk, time.Minute, time.Second)
	})
	require.NoError(t, err)
	assert.NotNil(t, inst)
	assert.Equal(t, 1, c.Count())
}

func TestContainer_DistinctTagSetsGetDistinctInstruments(t *testing.T) {
	c := NewContainer[*Counter[int64], CounterSnapshot[int64]]("counter<int64>")
	a := c.FindOrCreate(NewTagSet(map[string]string{"region": "us"}), func() *Counter[int64] { return newCounter[int64](0) })
	b := c.FindOrCreate(NewTagSet(map[string]string{"region": "eu"}), func() *Counter[int64] { return newCounter[int64](0) })
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, c.Count())
}

func TestContainer_VisitAndAggregate(t *testing.T) {
	c := NewContainer[*Counter[int64], CounterSnapshot[int64]]("counter<int64>")
	c.FindOrCreate(NewTagSet(map[string]string{"region": "us"}), func() *Counter[int64] { return newCounter[int64](3) })
	c.FindOrCreate(NewTagSet(map[string]string{"region": "eu"}), func() *Counter[int64] { return newCounter[int64](4) })

	seen := map[string]int64{}
	c.Visit(func(tags TagSet, snap CounterSnapshot[int64]) {
		seen[tags.String()] = snap.Value
	})
	assert.Len(t, seen, 2)

	var aggregated CounterSnapshot[int64]
	c.Aggregate(func(snap CounterSnapshot[int64]) { aggregated = snap })
	assert.Equal(t, int64(7), aggregated.Value)
}

func TestContainer_AggregateOnEmptyDoesNotInvokeCallback(t *testing.T) {
	c := NewContainer[*Counter[int64], CounterSnapshot[int64]]("counter<int64>")
	called := false
	c.Aggregate(func(CounterSnapshot[int64]) { called = true })
	assert.False(t, called)
}

func TestContainer_ConcurrentFindOrCreateSameTagsConverges(t *testing.T) {
	c := NewContainer[*Counter[int64], CounterSnapshot[int64]]("counter<int64>")
	var wg sync.WaitGroup
	results := make([]*Counter[int64], 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.FindOrCreate(NoTags, func() *Counter[int64] { return newCounter[int64](0) })
		}(i)
	}
	wg.Wait()
	for _, r := range results[1:] {
		assert.Same(t, results[0], r)
	}
}
