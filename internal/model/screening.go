package model

import (
    "bytes"
    "encoding/json"
    "errors"
    "fmt"
    "math"
    "strconv"
    "strings"
)

// ErrInvalidScreening is returned when the screening record is missing or
// malformed.  The server refuses to start when it sees this error.
var ErrInvalidScreening = errors.New("invalid screening data")

// SeatID is the stable identifier of a seat.  The data file may carry it as a
// JSON string or number; whole numbers decode to their integer text, so 12,
// 12.0 and 1.2e1 are all "12".
type SeatID string

// UnmarshalJSON accepts "A1", 12 or 12.0 style identifiers.
func (id *SeatID) UnmarshalJSON(b []byte) error {
    b = bytes.TrimSpace(b)
    if len(b) > 0 && b[0] == '"' {
        var s string
        if err := json.Unmarshal(b, &s); err != nil {
            return err
        }
        *id = SeatID(strings.TrimSpace(s))
        return nil
    }
    var n json.Number
    if err := json.Unmarshal(b, &n); err != nil {
        return fmt.Errorf("seat id: %w", err)
    }
    if i, err := n.Int64(); err == nil {
        *id = SeatID(strconv.FormatInt(i, 10))
        return nil
    }
    f, err := n.Float64()
    if err != nil {
        return fmt.Errorf("seat id: %w", err)
    }
    if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
        *id = SeatID(strconv.FormatInt(int64(f), 10))
        return nil
    }
    *id = SeatID(strconv.FormatFloat(f, 'f', -1, 64))
    return nil
}

// SeatDescriptor is the immutable per-seat input data.
//
// Fields:
//  ID       – unique identifier, also used as the render key.
//  Reserved – seat is pre-allocated and can never be selected.
type SeatDescriptor struct {
    ID       SeatID `json:"id"`
    Reserved bool   `json:"reservado"`
}

// Screening describes one showing: metadata, the flat per-seat price and the
// ordered seat list.  It is loaded once and never mutated afterwards.
type Screening struct {
    Title       string           `json:"titulo"`
    Showtime    string           `json:"horario"`
    Synopsis    string           `json:"sinopse"`
    ReleaseDate string           `json:"dataLancamento"`
    Director    string           `json:"direcao"`
    Price       float64          `json:"preco"`
    Seats       []SeatDescriptor `json:"lugares"`
}

// PriceCents returns the per-seat price in integer cents.
func (s *Screening) PriceCents() int64 {
    return int64(math.Round(s.Price * 100))
}

// Seat looks up a descriptor by id.
func (s *Screening) Seat(id SeatID) (SeatDescriptor, bool) {
    for _, d := range s.Seats {
        if d.ID == id {
            return d, true
        }
    }
    return SeatDescriptor{}, false
}

// Validate checks the load-time preconditions of a screening.  Every failure
// wraps ErrInvalidScreening so callers can test with errors.Is.
func (s *Screening) Validate() error {
    if s == nil {
        return fmt.Errorf("%w: missing record", ErrInvalidScreening)
    }
    if strings.TrimSpace(s.Title) == "" {
        return fmt.Errorf("%w: titulo is required", ErrInvalidScreening)
    }
    if math.IsNaN(s.Price) || s.PriceCents() <= 0 {
        return fmt.Errorf("%w: preco must be positive", ErrInvalidScreening)
    }
    if len(s.Seats) == 0 {
        return fmt.Errorf("%w: lugares is empty", ErrInvalidScreening)
    }
    seen := make(map[SeatID]struct{}, len(s.Seats))
    for i, d := range s.Seats {
        if d.ID == "" {
            return fmt.Errorf("%w: lugares[%d] has no id", ErrInvalidScreening, i)
        }
        if _, dup := seen[d.ID]; dup {
            return fmt.Errorf("%w: duplicate seat id %q", ErrInvalidScreening, d.ID)
        }
        seen[d.ID] = struct{}{}
    }
    return nil
}

// ParseScreening decodes and validates a screening document.
func ParseScreening(data []byte) (*Screening, error) {
    var s Screening
    dec := json.NewDecoder(bytes.NewReader(data))
    if err := dec.Decode(&s); err != nil {
        return nil, fmt.Errorf("%w: %v", ErrInvalidScreening, err)
    }
    if err := s.Validate(); err != nil {
        return nil, err
    }
    return &s, nil
}
