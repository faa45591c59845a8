package catalog

import (
    "context"
    "errors"
    "fmt"

    "github.com/jackc/pgx/v5"

    "github.com/iliyamo/cinema-seat-picker/internal/model"
)

// PgxQuerier is the part of *pgxpool.Pool the Postgres source uses.
type PgxQuerier interface {
    Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
    QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSource reads a screening from the same schema as MySQLSource,
// through a pgx pool (see db/postgres.sql).
type PostgresSource struct {
    Pool PgxQuerier
    ID   int64
}

// NewPostgresSource loads screening id from pool.
func NewPostgresSource(pool PgxQuerier, id int64) *PostgresSource {
    return &PostgresSource{Pool: pool, ID: id}
}

func (p *PostgresSource) Load(ctx context.Context) (*model.Screening, error) {
    var s model.Screening
    var priceCents int64
    err := p.Pool.QueryRow(ctx, `
        SELECT title, showtime, synopsis, release_date, director, price_cents
        FROM screenings WHERE id = $1
    `, p.ID).Scan(&s.Title, &s.Showtime, &s.Synopsis, &s.ReleaseDate, &s.Director, &priceCents)
    if errors.Is(err, pgx.ErrNoRows) {
        return nil, fmt.Errorf("%w: id=%d", ErrScreeningNotFound, p.ID)
    }
    if err != nil {
        return nil, fmt.Errorf("error querying screening: %w", err)
    }
    s.Price = float64(priceCents) / 100

    rows, err := p.Pool.Query(ctx, `
        SELECT seat_code, reserved FROM screening_seats
        WHERE screening_id = $1 ORDER BY position, id
    `, p.ID)
    if err != nil {
        return nil, fmt.Errorf("error querying seats: %w", err)
    }
    seats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.SeatDescriptor, error) {
        var code string
        var d model.SeatDescriptor
        err := row.Scan(&code, &d.Reserved)
        d.ID = model.SeatID(code)
        return d, err
    })
    if err != nil {
        return nil, fmt.Errorf("error reading seats: %w", err)
    }
    s.Seats = seats
    return &s, nil
}
