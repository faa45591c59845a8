package session

import (
    "context"
    "sync"
    "time"

    "github.com/iliyamo/cinema-seat-picker/internal/model"
)

type memEntry struct {
    seats     map[model.SeatID]struct{}
    ttl       time.Duration
    expiresAt time.Time
}

// MemoryStore is the single-process Store used when Redis is not configured.
type MemoryStore struct {
    mu      sync.Mutex
    entries map[string]*memEntry
    now     func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
    return &MemoryStore{entries: make(map[string]*memEntry), now: time.Now}
}

// live returns the entry for id, evicting it when expired.  Callers hold mu.
func (m *MemoryStore) live(id string) (*memEntry, bool) {
    e, ok := m.entries[id]
    if !ok {
        return nil, false
    }
    if !m.now().Before(e.expiresAt) {
        delete(m.entries, id)
        return nil, false
    }
    return e, true
}

func (m *MemoryStore) Create(_ context.Context, id string, ttl time.Duration) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.entries[id] = &memEntry{
        seats:     make(map[model.SeatID]struct{}),
        ttl:       ttl,
        expiresAt: m.now().Add(ttl),
    }
    return nil
}

func (m *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    _, ok := m.live(id)
    return ok, nil
}

func (m *MemoryStore) Selected(_ context.Context, id string) ([]model.SeatID, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    e, ok := m.live(id)
    if !ok {
        return nil, ErrNotFound
    }
    return e.members(), nil
}

func (m *MemoryStore) Toggle(_ context.Context, id string, seat model.SeatID) (bool, []model.SeatID, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    e, ok := m.live(id)
    if !ok {
        return false, nil, ErrNotFound
    }
    _, was := e.seats[seat]
    if was {
        delete(e.seats, seat)
    } else {
        e.seats[seat] = struct{}{}
    }
    e.expiresAt = m.now().Add(e.ttl)
    return !was, e.members(), nil
}

func (e *memEntry) members() []model.SeatID {
    out := make([]model.SeatID, 0, len(e.seats))
    for s := range e.seats {
        out = append(out, s)
    }
    return out
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
    m.mu.Lock()
    delete(m.entries, id)
    m.mu.Unlock()
    return nil
}
