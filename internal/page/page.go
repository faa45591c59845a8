// Package page is the server-side state of one mounted seat-selection page:
// the selection set held in a session store, the document root classes and
// the appearance subscription that keeps them in sync with the host.
package page

import (
    "context"
    "fmt"
    "log"
    "sync"
    "time"

    "github.com/iliyamo/cinema-seat-picker/internal/appearance"
    "github.com/iliyamo/cinema-seat-picker/internal/model"
    "github.com/iliyamo/cinema-seat-picker/internal/purchase"
    "github.com/iliyamo/cinema-seat-picker/internal/queue"
    "github.com/iliyamo/cinema-seat-picker/internal/seating"
    "github.com/iliyamo/cinema-seat-picker/internal/session"
)

// Publisher receives confirmed purchases.
type Publisher interface {
    PublishPurchaseConfirmed(ctx context.Context, event queue.PurchaseConfirmedEvent) error
}

// DefaultPublishTimeout bounds a purchase publish when Options leaves it unset.
const DefaultPublishTimeout = 5 * time.Second

// Options carries the collaborators shared by every page.
type Options struct {
    Store          session.Store
    Publisher      Publisher // optional
    PublishTimeout time.Duration
    TTL            time.Duration
    Now            func() time.Time
}

func (o Options) publishTimeout() time.Duration {
    if o.PublishTimeout > 0 {
        return o.PublishTimeout
    }
    return DefaultPublishTimeout
}

func (o Options) now() time.Time {
    if o.Now != nil {
        return o.Now()
    }
    return time.Now()
}

// Page serialises all operations on one session.
type Page struct {
    ID string

    mu        sync.Mutex
    screening *model.Screening
    opts      Options

    pref  *appearance.Preference
    root  *appearance.Document
    theme *appearance.ThemeToggle

    unsubscribe func()
    closed      bool
}

// SeatResult is the response to a seat click.
type SeatResult struct {
    SeatID     model.SeatID    `json:"seat_id"`
    Variant    seating.Variant `json:"variant"`
    Selected   bool            `json:"selected"`
    Changed    bool            `json:"changed"`
    TotalCents int64           `json:"total_cents"`
    TotalLabel string          `json:"total"`
}

// View is everything needed to render the page.
type View struct {
    SessionID     string             `json:"session_id"`
    Title         string             `json:"title"`
    Showtime      string             `json:"showtime"`
    Synopsis      string             `json:"synopsis"`
    ReleaseDate   string             `json:"release_date"`
    Director      string             `json:"director"`
    PriceLabel    string             `json:"price_per_seat"`
    Seats         []seating.SeatView `json:"seats"`
    SelectedCount int                `json:"selected_count"`
    TotalCents    int64              `json:"total_cents"`
    TotalLabel    string             `json:"total"`
    RootClasses   []string           `json:"root_classes"`
    Dark          bool               `json:"dark"`
    Button        purchase.Button    `json:"-"`
}

// Mount creates a fresh session in the store and wires the appearance
// subscription for it.
func Mount(ctx context.Context, id string, s *model.Screening, opts Options, prefersDark bool) (*Page, error) {
    if err := opts.Store.Create(ctx, id, opts.TTL); err != nil {
        return nil, fmt.Errorf("mount page: %w", err)
    }
    return attach(id, s, opts, prefersDark), nil
}

// attach builds the in-process half of a page whose session already exists.
func attach(id string, s *model.Screening, opts Options, prefersDark bool) *Page {
    p := &Page{
        ID:        id,
        screening: s,
        opts:      opts,
        pref:      appearance.NewPreference(prefersDark),
        root:      appearance.NewDocument(),
    }
    p.theme = appearance.NewThemeToggle(p.root)
    p.applyPreference(prefersDark)
    p.unsubscribe = p.pref.Subscribe(p.applyPreference)
    return p
}

func (p *Page) applyPreference(dark bool) {
    p.root.Toggle(appearance.DarkClass, dark)
    p.theme.Sync(dark)
}

// selection rebuilds the seat selection from the store.  Callers hold mu.
func (p *Page) selection(ctx context.Context) (*seating.Selection, error) {
    ids, err := p.opts.Store.Selected(ctx, p.ID)
    if err != nil {
        return nil, err
    }
    sel := seating.NewSelection(p.screening)
    sel.Restore(ids)
    return sel, nil
}

// Toggle clicks a seat.  Reserved seats report Changed=false and leave the
// store untouched.  The flip itself happens in the store, so clicks served by
// different replicas still alternate; the returned set replaces the local
// snapshot.
func (p *Page) Toggle(ctx context.Context, id model.SeatID) (SeatResult, error) {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.closed {
        return SeatResult{}, session.ErrNotFound
    }

    sel, err := p.selection(ctx)
    if err != nil {
        return SeatResult{}, err
    }
    var (
        stored     []model.SeatID
        persistErr error
        changed    bool
    )
    unsub := sel.OnSelect(func(seat model.SeatID, _ bool) {
        changed = true
        _, stored, persistErr = p.opts.Store.Toggle(ctx, p.ID, seat)
    })
    defer unsub()

    if _, err := sel.Click(id); err != nil {
        return SeatResult{}, err
    }
    if persistErr != nil {
        return SeatResult{}, fmt.Errorf("persist seat %q: %w", id, persistErr)
    }
    if changed {
        sel.Restore(stored)
    }
    v, err := sel.View(id)
    if err != nil {
        return SeatResult{}, err
    }
    total := sel.TotalCents()
    return SeatResult{
        SeatID:     id,
        Variant:    v.Variant,
        Selected:   v.Selected,
        Changed:    changed,
        TotalCents: total,
        TotalLabel: purchase.FormatCents(total),
    }, nil
}

// View renders the current state.
func (p *Page) View(ctx context.Context) (View, error) {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.closed {
        return View{}, session.ErrNotFound
    }
    sel, err := p.selection(ctx)
    if err != nil {
        return View{}, err
    }
    total := sel.TotalCents()
    s := p.screening
    return View{
        SessionID:     p.ID,
        Title:         s.Title,
        Showtime:      s.Showtime,
        Synopsis:      s.Synopsis,
        ReleaseDate:   s.ReleaseDate,
        Director:      s.Director,
        PriceLabel:    purchase.FormatCents(s.PriceCents()),
        Seats:         sel.Seats(),
        SelectedCount: sel.Count(),
        TotalCents:    total,
        TotalLabel:    purchase.FormatCents(total),
        RootClasses:   p.root.Classes(),
        Dark:          p.theme.IsDark(),
        Button:        purchase.Button{TotalCents: total},
    }, nil
}

// Confirm decides the purchase outcome.  A successful purchase is published
// when a publisher is configured, outside the page lock and bounded by the
// publish timeout; publish failures are logged only.
func (p *Page) Confirm(ctx context.Context) (purchase.Outcome, error) {
    out, ev, err := p.decide(ctx)
    if err != nil {
        return purchase.Outcome{}, err
    }
    if ev != nil {
        pctx, cancel := context.WithTimeout(ctx, p.opts.publishTimeout())
        defer cancel()
        if err := p.opts.Publisher.PublishPurchaseConfirmed(pctx, *ev); err != nil {
            log.Printf("page %s: publish purchase failed: %v", p.ID, err)
        }
    }
    return out, nil
}

// decide computes the outcome and, when it should be published, the event.
func (p *Page) decide(ctx context.Context) (purchase.Outcome, *queue.PurchaseConfirmedEvent, error) {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.closed {
        return purchase.Outcome{}, nil, session.ErrNotFound
    }
    sel, err := p.selection(ctx)
    if err != nil {
        return purchase.Outcome{}, nil, err
    }
    out := sel.Confirm()
    if !out.OK() || p.opts.Publisher == nil {
        return out, nil, nil
    }
    ids := sel.Selected()
    seats := make([]string, len(ids))
    for i, id := range ids {
        seats[i] = string(id)
    }
    return out, &queue.PurchaseConfirmedEvent{
        SessionID:         p.ID,
        MovieTitle:        p.screening.Title,
        Showtime:          p.screening.Showtime,
        SeatIDs:           seats,
        PricePerSeatCents: p.screening.PriceCents(),
        TotalAmountCents:  out.TotalCents,
        ConfirmedAt:       p.opts.now().UTC().Format(time.RFC3339),
    }, nil
}

// SetPreference forwards a host colour-scheme change.
func (p *Page) SetPreference(dark bool) []string {
    p.pref.Set(dark)
    return p.root.Classes()
}

// ToggleTheme flips the explicit dark-mode switch.
func (p *Page) ToggleTheme() (bool, []string) {
    dark := p.theme.Toggle()
    return dark, p.root.Classes()
}

// RootClassAttr is the class attribute of the document root.
func (p *Page) RootClassAttr() string { return p.root.ClassAttr() }

// Teardown releases the appearance subscription and drops the session.  It
// is safe to call more than once.
func (p *Page) Teardown(ctx context.Context) error {
    p.release()
    return p.opts.Store.Delete(ctx, p.ID)
}

// release detaches the page without touching the store.
func (p *Page) release() {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.closed {
        return
    }
    p.closed = true
    p.unsubscribe()
}
