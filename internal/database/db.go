// Package database opens the connection pools used by the catalog sources.
package database

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    _ "github.com/go-sql-driver/mysql"
    "github.com/jackc/pgx/v5/pgxpool"
)

// OpenMySQL connects to MySQL and verifies the connection.
func OpenMySQL(user, pass, host, port, name string) (*sql.DB, error) {
    auth := user
    if pass != "" {
        auth = fmt.Sprintf("%s:%s", user, pass)
    }
    // parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
    dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
        auth, host, port, name)

    db, err := sql.Open("mysql", dsn)
    if err != nil {
        return nil, err
    }

    // read once at startup
    db.SetMaxOpenConns(4)
    db.SetMaxIdleConns(2)
    db.SetConnMaxLifetime(30 * time.Minute)

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, err
    }
    return db, nil
}

// OpenPostgres creates a pgx pool for dsn and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
    if dsn == "" {
        return nil, fmt.Errorf("DATABASE_URL is not set")
    }
    pool, err := pgxpool.New(ctx, dsn)
    if err != nil {
        return nil, fmt.Errorf("failed to create pgx pool: %w", err)
    }
    pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    if err := pool.Ping(pctx); err != nil {
        pool.Close()
        return nil, fmt.Errorf("failed to ping postgres: %w", err)
    }
    return pool, nil
}
