package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_AddAndValue(t *testing.T) {
	c := newCounter[int64](0)
	c.Add(5)
	c.Add(-2)
	assert.Equal(t, int64(3), c.Value())
}

func TestCounter_InitialValue(t *testing.T) {
	c := newCounter[int64](42)
	assert.Equal(t, int64(42), c.Value())
}

func TestCounter_TypeNameIncludesType(t *testing.T) {
	c := newCounter[int64](0)
	assert.Equal(t, "counter<int64>", c.TypeName())
}

func TestCounter_Snapshot(t *testing.T) {
	c := newCounter[int64](7)
	snap := c.Snapshot()
	assert.Equal(t, int64(7), snap.Value)
}

func TestCounterSnapshot_MergeAdds(t *testing.T) {
	a := CounterSnapshot[int64]{Value: 3}
	b := CounterSnapshot[int64]{Value: 4}
	assert.Equal(t, CounterSnapshot[int64]{Value: 7}, a.Merge(b))
}

func TestCounter_ConcurrentAddIsRaceFree(t *testing.T) {
	c := newCounter[int64](0)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(1)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(100), c.Value())
}
