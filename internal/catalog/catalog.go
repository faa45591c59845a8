// Package catalog loads the screening record the page is built from.  The
// record is read once at startup from a JSON file, MySQL or Postgres.
package catalog

import (
    "context"
    "errors"
    "fmt"

    "github.com/iliyamo/cinema-seat-picker/internal/model"
)

// ErrScreeningNotFound is returned by database sources when the configured
// screening id has no row.
var ErrScreeningNotFound = errors.New("screening not found")

// Source produces a screening record.
type Source interface {
    Load(ctx context.Context) (*model.Screening, error)
}

// Load reads from src and validates the result.  Any failure is reported as
// invalid screening data so startup can fail fast.
func Load(ctx context.Context, src Source) (*model.Screening, error) {
    s, err := src.Load(ctx)
    if err != nil {
        if errors.Is(err, model.ErrInvalidScreening) {
            return nil, err
        }
        return nil, fmt.Errorf("%w: %w", model.ErrInvalidScreening, err)
    }
    if err := s.Validate(); err != nil {
        return nil, err
    }
    return s, nil
}
