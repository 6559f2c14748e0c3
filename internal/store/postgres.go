package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/accountsync/internal/core"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	firstname TEXT,
	telephone_number TEXT,
	email TEXT,
	password TEXT,
	role TEXT,
	created_at TEXT
);
CREATE TABLE IF NOT EXISTS children (
	id BIGSERIAL PRIMARY KEY,
	parent_email TEXT,
	name TEXT,
	age INTEGER
);`

// Postgres persists to a PostgreSQL database through pgx, loading rows with
// COPY.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to url and verifies the connection.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Replace implements Persister.
func (p *Postgres) Replace(ctx context.Context, records []*core.UserRecord) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	if _, err := tx.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM children; DELETE FROM users"); err != nil {
		return fmt.Errorf("clear tables: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"users"}, userColumns, pgx.CopyFromRows(userRows(records))); err != nil {
		return fmt.Errorf("copy users: %w", err)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"children"}, childColumns, pgx.CopyFromRows(childRows(records))); err != nil {
		return fmt.Errorf("copy children: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
