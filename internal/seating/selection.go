package seating

import (
    "errors"
    "fmt"
    "sync"

    "github.com/iliyamo/cinema-seat-picker/internal/model"
    "github.com/iliyamo/cinema-seat-picker/internal/purchase"
)

// ErrUnknownSeat is returned when a click names a seat that is not part of the
// screening.
var ErrUnknownSeat = errors.New("unknown seat")

// SelectFunc is notified with the new selection value of a seat.
type SelectFunc func(id model.SeatID, selected bool)

// Selection is the central record of selected seats.  The total is always
// derived from the set, never accumulated.
type Selection struct {
    mu        sync.Mutex
    screening *model.Screening
    selected  map[model.SeatID]struct{}
    listeners map[int]SelectFunc
    next      int
}

// NewSelection starts with nothing selected.
func NewSelection(s *model.Screening) *Selection {
    return &Selection{
        screening: s,
        selected:  make(map[model.SeatID]struct{}),
    }
}

// OnSelect registers fn for every effective toggle and returns its
// unsubscribe func.
func (s *Selection) OnSelect(fn SelectFunc) func() {
    if fn == nil {
        return func() {}
    }
    s.mu.Lock()
    if s.listeners == nil {
        s.listeners = make(map[int]SelectFunc)
    }
    id := s.next
    s.next++
    s.listeners[id] = fn
    s.mu.Unlock()

    var once sync.Once
    return func() {
        once.Do(func() {
            s.mu.Lock()
            delete(s.listeners, id)
            s.mu.Unlock()
        })
    }
}

// Click toggles a free seat and reports its new value.  Reserved seats are
// inert: no change, no callback.
func (s *Selection) Click(id model.SeatID) (bool, error) {
    d, ok := s.screening.Seat(id)
    if !ok {
        return false, fmt.Errorf("%w: %q", ErrUnknownSeat, id)
    }
    if d.Reserved {
        return false, nil
    }

    s.mu.Lock()
    _, was := s.selected[id]
    now := !was
    if now {
        s.selected[id] = struct{}{}
    } else {
        delete(s.selected, id)
    }
    fns := make([]SelectFunc, 0, len(s.listeners))
    for _, fn := range s.listeners {
        fns = append(fns, fn)
    }
    s.mu.Unlock()

    for _, fn := range fns {
        fn(id, now)
    }
    return now, nil
}

// Restore replaces the selected set.  Reserved and unknown ids are dropped
// and no listener is notified.
func (s *Selection) Restore(ids []model.SeatID) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.selected = make(map[model.SeatID]struct{}, len(ids))
    for _, id := range ids {
        d, ok := s.screening.Seat(id)
        if !ok || d.Reserved {
            continue
        }
        s.selected[id] = struct{}{}
    }
}

// IsSelected reports whether id is currently selected.
func (s *Selection) IsSelected(id model.SeatID) bool {
    s.mu.Lock()
    _, ok := s.selected[id]
    s.mu.Unlock()
    return ok
}

// Count is the number of selected seats.
func (s *Selection) Count() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return len(s.selected)
}

// TotalCents is price per seat times the number of selected seats.
func (s *Selection) TotalCents() int64 {
    return s.screening.PriceCents() * int64(s.Count())
}

// Selected lists selected ids in catalog order.
func (s *Selection) Selected() []model.SeatID {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := make([]model.SeatID, 0, len(s.selected))
    for _, d := range s.screening.Seats {
        if _, ok := s.selected[d.ID]; ok {
            out = append(out, d.ID)
        }
    }
    return out
}

// Seats renders the grid in catalog order.
func (s *Selection) Seats() []SeatView {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := make([]SeatView, 0, len(s.screening.Seats))
    for _, d := range s.screening.Seats {
        _, sel := s.selected[d.ID]
        out = append(out, SeatView{
            ID:       d.ID,
            Reserved: d.Reserved,
            Selected: sel,
            Variant:  VariantOf(d.Reserved, sel),
        })
    }
    return out
}

// View returns the variant of a single seat.
func (s *Selection) View(id model.SeatID) (SeatView, error) {
    d, ok := s.screening.Seat(id)
    if !ok {
        return SeatView{}, fmt.Errorf("%w: %q", ErrUnknownSeat, id)
    }
    sel := s.IsSelected(id)
    return SeatView{ID: id, Reserved: d.Reserved, Selected: sel, Variant: VariantOf(d.Reserved, sel)}, nil
}

// Confirm reports the purchase outcome for the current selection.
func (s *Selection) Confirm() purchase.Outcome {
    return purchase.Decide(s.TotalCents())
}
