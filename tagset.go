package metrics

import (
	"sort"
	"strings"

	"github.com/spaolacci/murmur3"
)

// TagSet is an unordered, canonicalized bag of (name, value) string pairs,
// with names unique within the set. Two TagSets built from the same
// name->value mapping compare equal and hash equal regardless of the order
// their pairs were supplied in.
//
// TagSet is a value type safe to use as a map key and to pass and compare by
// value; its only field is the pre-sorted canonical encoding, which is what
// makes two equivalent tag sets compare == to each other.
type TagSet struct {
	canonical string
}

// NoTags is the empty tag set.
var NoTags = TagSet{}

// NewTagSet builds a TagSet from a name->value map. A nil or empty map
// yields NoTags.
func NewTagSet(tags map[string]string) TagSet {
	if len(tags) == 0 {
		return NoTags
	}
	names := make([]string, 0, len(tags))
	for k := range tags {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(tags[name])
	}
	return TagSet{canonical: b.String()}
}

// Pairs decodes the TagSet back into a fresh name->value map. The returned
// map is owned by the caller.
func (t TagSet) Pairs() map[string]string {
	if t.canonical == "" {
		return map[string]string{}
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(t.canonical, ",") {
		name, value, _ := strings.Cut(pair, "=")
		out[name] = value
	}
	return out
}

// String returns the canonical "name=value,name=value" encoding, with pairs
// ordered by name.
func (t TagSet) String() string { return t.canonical }

// Equal reports whether t and other carry the same name->value mapping.
func (t TagSet) Equal(other TagSet) bool { return t.canonical == other.canonical }

// Hash64 returns a 64-bit hash of the canonical encoding, stable across
// process runs (murmur3 is not seeded from process randomness). Useful to
// publishers that want to shard or bucket by tag set without holding onto
// the TagSet itself.
func (t TagSet) Hash64() uint64 {
	return murmur3.Sum64([]byte(t.canonical))
}
