package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/accountsync/internal/core"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	firstname TEXT,
	telephone_number TEXT,
	email TEXT,
	password TEXT,
	role TEXT,
	created_at TEXT
);
CREATE TABLE IF NOT EXISTS children (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	parent_email TEXT,
	name TEXT,
	age INTEGER
);`

// SQLite persists to a database file through modernc.org/sqlite.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string) (*SQLite, error) {
	dsn, err := fileURI(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return &SQLite{db: db}, nil
}

// fileURI escapes path into a read-write-create file: URI. The driver cuts a
// plain filename at the first '?'.
func fileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=rwc"}
	return u.String(), nil
}

// Replace implements Persister.
func (s *SQLite) Replace(ctx context.Context, records []*core.UserRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if already committed

	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	for _, table := range []string{"children", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertRows(ctx, tx,
		`INSERT INTO users (firstname, telephone_number, email, password, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userRows(records)); err != nil {
		return fmt.Errorf("insert users: %w", err)
	}
	if err := insertRows(ctx, tx,
		`INSERT INTO children (parent_email, name, age) VALUES (?, ?, ?)`,
		childRows(records)); err != nil {
		return fmt.Errorf("insert children: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, query string, rows [][]any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
