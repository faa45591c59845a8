// Package session stores the selected seats of each mounted page.  A session
// lives from page mount to teardown or until it idles past its TTL.
package session

import (
    "context"
    "errors"
    "time"

    "github.com/iliyamo/cinema-seat-picker/internal/model"
)

// ErrNotFound is returned for a session that was never created, was torn
// down or has expired.
var ErrNotFound = errors.New("session not found")

// Store keeps the selection set of every live session.  Every toggle
// refreshes the session TTL.
type Store interface {
    Create(ctx context.Context, id string, ttl time.Duration) error
    Exists(ctx context.Context, id string) (bool, error)
    Selected(ctx context.Context, id string) ([]model.SeatID, error)
    // Toggle flips seat's membership in one atomic step and returns the new
    // membership together with the resulting set.
    Toggle(ctx context.Context, id string, seat model.SeatID) (bool, []model.SeatID, error)
    Delete(ctx context.Context, id string) error
}
