package metrics

import "strings"

// Path is an immutable, dotted metric name: an ordered sequence of non-empty
// segments. Equality and hashing are structural (segment-by-segment), so two
// Paths built from the same segments always compare equal regardless of how
// they were constructed. Paths are created at registration time and never
// mutated.
type Path struct {
	segments string // pre-joined, canonical "a.b.c" form; segments are never empty
}

// NewPath builds a Path from its segments. Empty segments are rejected by
// being dropped, matching the spec's "non-empty name segments" invariant.
func NewPath(segments ...string) Path {
	nonEmpty := segments[:0:0]
	for _, s := range segments {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return Path{segments: strings.Join(nonEmpty, ".")}
}

// ParsePath splits a dotted string such as "http.server.requests" into a
// Path. Consecutive or leading/trailing dots are ignored, so ParsePath never
// produces empty segments.
func ParsePath(dotted string) Path {
	return NewPath(strings.Split(dotted, ".")...)
}

// String returns the canonical dotted representation.
func (p Path) String() string { return p.segments }

// Segments returns the ordered segment list. The returned slice is owned by
// the caller.
func (p Path) Segments() []string {
	if p.segments == "" {
		return nil
	}
	return strings.Split(p.segments, ".")
}

// Equal reports structural equality with other.
func (p Path) Equal(other Path) bool { return p.segments == other.segments }
