package page

import (
    "context"
    "log"
    "sync"
    "time"

    "github.com/oklog/ulid/v2"

    "github.com/iliyamo/cinema-seat-picker/internal/model"
    "github.com/iliyamo/cinema-seat-picker/internal/session"
)

// Manager tracks the pages mounted in this process.
type Manager struct {
    mu        sync.Mutex
    pages     map[string]*Page
    screening *model.Screening
    opts      Options
    newID     func() string
}

// NewManager serves pages for one screening.
func NewManager(s *model.Screening, opts Options) *Manager {
    return &Manager{
        pages:     make(map[string]*Page),
        screening: s,
        opts:      opts,
        newID:     func() string { return ulid.Make().String() },
    }
}

// Screening returns the catalog record pages are built from.
func (m *Manager) Screening() *model.Screening { return m.screening }

// Mount starts a new page with an empty selection.
func (m *Manager) Mount(ctx context.Context, prefersDark bool) (*Page, error) {
    p, err := Mount(ctx, m.newID(), m.screening, m.opts, prefersDark)
    if err != nil {
        return nil, err
    }
    m.mu.Lock()
    m.pages[p.ID] = p
    m.mu.Unlock()
    return p, nil
}

// Get returns the page for id.  A session that lives in the store but was
// mounted by another process is attached here with a light preference until
// the client reports its own.
func (m *Manager) Get(ctx context.Context, id string) (*Page, error) {
    ok, err := m.opts.Store.Exists(ctx, id)
    if err != nil {
        return nil, err
    }
    m.mu.Lock()
    defer m.mu.Unlock()
    p, local := m.pages[id]
    if !ok {
        if local {
            p.release()
            delete(m.pages, id)
        }
        return nil, session.ErrNotFound
    }
    if !local {
        p = attach(id, m.screening, m.opts, false)
        m.pages[id] = p
    }
    return p, nil
}

// Teardown unmounts id.  Unknown ids are not an error.
func (m *Manager) Teardown(ctx context.Context, id string) error {
    m.mu.Lock()
    p, ok := m.pages[id]
    delete(m.pages, id)
    m.mu.Unlock()
    if ok {
        return p.Teardown(ctx)
    }
    return m.opts.Store.Delete(ctx, id)
}

// Len is the number of pages attached to this process.
func (m *Manager) Len() int {
    m.mu.Lock()
    defer m.mu.Unlock()
    return len(m.pages)
}

// Sweep releases local pages whose session expired in the store and returns
// how many were dropped.
func (m *Manager) Sweep(ctx context.Context) int {
    m.mu.Lock()
    ids := make([]string, 0, len(m.pages))
    for id := range m.pages {
        ids = append(ids, id)
    }
    m.mu.Unlock()

    dropped := 0
    for _, id := range ids {
        ok, err := m.opts.Store.Exists(ctx, id)
        if err != nil {
            log.Printf("page-sweeper: check %s: %v", id, err)
            continue
        }
        if ok {
            continue
        }
        m.mu.Lock()
        if p, still := m.pages[id]; still {
            p.release()
            delete(m.pages, id)
            dropped++
        }
        m.mu.Unlock()
    }
    return dropped
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (m *Manager) RunSweeper(ctx context.Context, every time.Duration) {
    t := time.NewTicker(every)
    defer t.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-t.C:
            if n := m.Sweep(ctx); n > 0 {
                log.Printf("page-sweeper: released %d expired pages", n)
            }
        }
    }
}
