package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_NewPath(t *testing.T) {
	p := NewPath("http", "server", "requests")
	assert.Equal(t, "http.server.requests", p.String())
	assert.Equal(t, []string{"http", "server", "requests"}, p.Segments())
}

func TestPath_NewPathDropsEmptySegments(t *testing.T) {
	p := NewPath("http", "", "requests")
	assert.Equal(t, "http.requests", p.String())
}

func TestPath_ParsePath(t *testing.T) {
	p := ParsePath("http.server.requests")
	assert.True(t, p.Equal(NewPath("http", "server", "requests")))
}

func TestPath_ParsePathIgnoresStrayDots(t *testing.T) {
	p := ParsePath(".http..server.requests.")
	assert.Equal(t, "http.server.requests", p.String())
}

func TestPath_EqualIsStructural(t *testing.T) {
	a := NewPath("a", "b")
	b := ParsePath("a.b")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NewPath("a", "c")))
}

func TestPath_ComparableAsMapKey(t *testing.T) {
	m := map[Path]int{}
	m[NewPath("a", "b")] = 1
	m[ParsePath("a.b")] = 2
	assert.Len(t, m, 1)
	assert.Equal(t, 2, m[NewPath("a", "b")])
}

func TestPath_EmptySegments(t *testing.T) {
	p := NewPath()
	assert.Equal(t, "", p.String())
	assert.Nil(t, p.Segments())
}
