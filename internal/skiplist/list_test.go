package skiplist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_InsertHead(t *testing.T) {
	l := New[float64]()
	require.True(t, l.Insert(8.9988))

	assert.Equal(t, []float64{8.9988}, l.Values())
	assert.True(t, l.Find(8.9988).Valid())
}

func TestList_InsertAdditional(t *testing.T) {
	l := New[float64]()
	for _, v := range []float64{8.9988, 15.6788, 8000, 1000.4050001, 5233.05} {
		l.Insert(v)
	}

	assert.Equal(t, []float64{8.9988, 15.6788, 1000.4050001, 5233.05, 8000}, l.Values())
	assert.True(t, l.Find(8.9988).Valid())
	assert.True(t, l.Find(1000.4050001).Valid())
	assert.True(t, l.Find(8000).Valid())
}

func TestList_InsertDuplicate(t *testing.T) {
	l := New[float64]()
	require.True(t, l.Insert(8.9988))
	require.True(t, l.Insert(15.6788))
	require.False(t, l.Insert(8.9988)) // duplicate: no-op
	require.True(t, l.Insert(5233.05))

	assert.Equal(t, []float64{8.9988, 15.6788, 5233.05}, l.Values())
}

func TestList_InsertLower(t *testing.T) {
	l := New[float64]()
	for _, v := range []float64{8000, 1000.4050001, 5233.05, 8.9988, 15.6788} {
		l.Insert(v)
	}

	assert.Equal(t, []float64{8.9988, 15.6788, 1000.4050001, 5233.05, 8000}, l.Values())
}

func TestList_EraseHeadOnAFew(t *testing.T) {
	l := New[float64]()
	for _, v := range []float64{8000, 1000.4050001, 5233.05, 8.9988, 15.6788} {
		l.Insert(v)
	}

	require.True(t, l.Erase(l.Begin()))

	assert.Equal(t, []float64{15.6788, 1000.4050001, 5233.05, 8000}, l.Values())
}

func TestList_EraseTailOnAFew(t *testing.T) {
	l := New[float64]()
	for _, v := range []float64{8000, 1000.4050001, 5233.05, 8.9988, 15.6788} {
		l.Insert(v)
	}

	require.True(t, l.Erase(l.Find(8000)))

	assert.Equal(t, []float64{8.9988, 15.6788, 1000.4050001, 5233.05}, l.Values())
}

func TestList_EraseMidOnAFew(t *testing.T) {
	l := New[float64]()
	for _, v := range []float64{8000, 1000.4050001, 5233.05, 8.9988, 15.6788} {
		l.Insert(v)
	}

	require.True(t, l.Erase(l.Find(5233.05)))

	assert.Equal(t, []float64{8.9988, 15.6788, 1000.4050001, 8000}, l.Values())
}

func TestList_EmptyList(t *testing.T) {
	l := New[float64]()

	assert.False(t, l.Begin().Valid())
	assert.False(t, l.End().Valid())
	assert.False(t, l.Find(1).Valid())
	assert.False(t, l.Erase(l.Begin()))
}

// TestList_IteratorSurvivesMutation reproduces the literal end-to-end scenario
// from the specification: an iterator keeps advancing to the next live key
// even when the node it was parked on is concurrently erased.
func TestList_IteratorSurvivesMutation(t *testing.T) {
	l := New[float64]()
	l.Insert(8000)
	l.Insert(5233.05)
	l.Insert(8.9988)

	begin := l.Begin()
	require.True(t, begin.Valid())
	assert.Equal(t, 8.9988, begin.Key())

	l.Insert(15.6788)
	require.True(t, begin.Next())
	assert.Equal(t, 15.6788, begin.Key())

	require.True(t, begin.Next())
	assert.Equal(t, 5233.05, begin.Key())

	l.Insert(10000.4050001)
	require.True(t, begin.Next())
	assert.Equal(t, 8000.0, begin.Key())

	require.True(t, l.Erase(l.Find(8000)))
	require.True(t, begin.Next())
	assert.Equal(t, 10000.4050001, begin.Key())

	require.False(t, begin.Next())
}

func TestList_FindIgnoresErased(t *testing.T) {
	l := New[float64]()
	l.Insert(1)
	l.Insert(2)
	require.True(t, l.Erase(l.Find(1)))

	assert.False(t, l.Find(1).Valid())
	assert.True(t, l.Find(2).Valid())
}

func TestList_EraseAlreadyErasedReturnsFalse(t *testing.T) {
	l := New[float64]()
	l.Insert(1)
	it := l.Find(1)
	require.True(t, l.Erase(it))
	assert.False(t, l.Erase(it))
}
