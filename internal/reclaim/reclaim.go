package reclaim

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// Manager tracks the epoch each live participant (iterator) last observed and
// defers running retired cleanup funcs until no participant could still be
// looking at the epoch in which the retirement happened.
type Manager struct {
	epoch  atomic.Uint64
	active *xsync.MapOf[uuid.UUID, uint64]

	mu      sync.Mutex
	retired []retirement
}

type retirement struct {
	epoch uint64
	free  func()
}

// NewManager constructs an empty reclamation manager.
func NewManager() *Manager {
	return &Manager{active: xsync.NewMapOf[uuid.UUID, uint64]()}
}

// Guard represents one participant's registration with the manager. Enter
// must be paired with a call to Exit once the participant is done touching
// skiplist nodes (typically: for the duration of a single search/iteration
// step).
type Guard struct {
	m  *Manager
	id uuid.UUID
}

// Enter registers the caller as an active participant as of the current
// epoch and returns a guard that must be released with Exit.
func (m *Manager) Enter() *Guard {
	id := uuid.New()
	m.active.Store(id, m.epoch.Load())
	return &Guard{m: m, id: id}
}

// Exit deregisters the participant. It is safe to call at most once per
// Guard; calling it more than once is a no-op beyond the first call.
func (g *Guard) Exit() {
	if g == nil {
		return
	}
	g.m.active.Delete(g.id)
}

// Retire schedules free to run once every participant that was active at the
// moment of the call has exited. free must be
// idempotent-safe to skip: it is only ever invoked once, but Retire itself
// may be invoked concurrently with other Retire calls.
func (m *Manager) Retire(free func()) {
	e := m.epoch.Add(1) - 1
	m.mu.Lock()
	m.retired = append(m.retired, retirement{epoch: e, free: free})
	m.mu.Unlock()
	m.reclaim()
}

// reclaim runs any retirements whose epoch predates every currently active
// participant's observed epoch.
func (m *Manager) reclaim() {
	min := m.minActiveEpoch()

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.retired[:0]
	for _, r := range m.retired {
		if r.epoch < min {
			r.free()
			continue
		}
		kept = append(kept, r)
	}
	m.retired = kept
}

func (m *Manager) minActiveEpoch() uint64 {
	min := m.epoch.Load()
	m.active.Range(func(_ uuid.UUID, e uint64) bool {
		if e < min {
			min = e
		}
		return true
	})
	return min
}

// Pending reports how many retirements are still awaiting reclamation.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.retired)
}
