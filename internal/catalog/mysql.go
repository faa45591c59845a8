package catalog

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "github.com/iliyamo/cinema-seat-picker/internal/model"
)

// MySQLSource reads a screening and its seats from the screenings and
// screening_seats tables (see db/mysql.sql).
type MySQLSource struct {
    db *sql.DB
    id uint64
}

// NewMySQLSource loads screening id from db.
func NewMySQLSource(db *sql.DB, id uint64) *MySQLSource {
    return &MySQLSource{db: db, id: id}
}

func (r *MySQLSource) Load(ctx context.Context) (*model.Screening, error) {
    const q = `SELECT title, showtime, synopsis, release_date, director, price_cents
               FROM screenings WHERE id = ?`
    var s model.Screening
    var priceCents int64
    err := r.db.QueryRowContext(ctx, q, r.id).Scan(&s.Title, &s.Showtime, &s.Synopsis, &s.ReleaseDate, &s.Director, &priceCents)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, fmt.Errorf("%w: id=%d", ErrScreeningNotFound, r.id)
    }
    if err != nil {
        return nil, fmt.Errorf("query screening: %w", err)
    }
    s.Price = float64(priceCents) / 100

    rows, err := r.db.QueryContext(ctx,
        `SELECT seat_code, reserved FROM screening_seats WHERE screening_id = ? ORDER BY position, id`,
        r.id,
    )
    if err != nil {
        return nil, fmt.Errorf("query seats: %w", err)
    }
    defer rows.Close()
    for rows.Next() {
        var d model.SeatDescriptor
        var code string
        if err := rows.Scan(&code, &d.Reserved); err != nil {
            return nil, fmt.Errorf("scan seat: %w", err)
        }
        d.ID = model.SeatID(code)
        s.Seats = append(s.Seats, d)
    }
    if err := rows.Err(); err != nil {
        return nil, fmt.Errorf("iterate seats: %w", err)
    }
    return &s, nil
}
