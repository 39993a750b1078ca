package metrics

// RegisteredMetricEntry is a point-in-time description of one registered
// path, adapted from the teacher's InstrumentEntry to this module's
// (path, tags) keyed model: there is no per-instrument description/unit
// metadata here, since the original spec's instruments don't carry any, so
// only the parts of the teacher's pattern that have a home in this data
// model (path, type name, tag-set count) are kept.
type RegisteredMetricEntry struct {
	Path     Path
	TypeName string
	TagCount int
}

// ListRegistered enumerates every registered path, its instrument kind, and
// (best effort, since other goroutines may be concurrently registering tag
// sets) its current tag-set count. The registry's mutex is held only long
// enough to snapshot the set of containers; each container's own Count is
// read outside it, mirroring the teacher's BasicProvider.ListMetadata.
func (r *Registry) ListRegistered() []RegisteredMetricEntry {
	r.mu.Lock()
	snapshot := make(map[Path]RegisteredMetric, len(r.containers))
	for path, c := range r.containers {
		snapshot[path] = c
	}
	r.mu.Unlock()

	entries := make([]RegisteredMetricEntry, 0, len(snapshot))
	for path, c := range snapshot {
		entries = append(entries, RegisteredMetricEntry{
			Path:     path,
			TypeName: c.TypeName(),
			TagCount: c.Count(),
		})
	}
	return entries
}
