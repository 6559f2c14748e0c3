// Package store persists a cleaned account collection to a relational
// database, replacing whatever the target held before.
//
// Two backends share one table layout (users, children joined on
// parent_email) so a SQLite output file can be fed back in as an input:
//
//	p, err := store.Open(ctx, cfg.Persist.Target)
//	if err != nil { ... }
//	defer p.Close()
//	err = p.Replace(ctx, records)
package store

import (
	"context"
	"strings"

	"github.com/JonMunkholm/accountsync/internal/core"
)

// Persister writes a full account collection.
type Persister interface {
	// Replace deletes all stored accounts and writes records in order,
	// inside a single transaction.
	Replace(ctx context.Context, records []*core.UserRecord) error
	Close() error
}

// Open picks a backend for target: a postgres:// or postgresql:// URL opens
// PostgreSQL, anything else is treated as a SQLite file path.
func Open(ctx context.Context, target string) (Persister, error) {
	if IsPostgresURL(target) {
		p, err := OpenPostgres(ctx, target)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	s, err := OpenSQLite(target)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// IsPostgresURL reports whether target names a PostgreSQL database.
func IsPostgresURL(target string) bool {
	t := strings.ToLower(target)
	return strings.HasPrefix(t, "postgres://") || strings.HasPrefix(t, "postgresql://")
}

// childRows flattens the children of records into (parent_email, name, age)
// rows, in record order then child order.
func childRows(records []*core.UserRecord) [][]any {
	var rows [][]any
	for _, r := range records {
		for _, c := range r.Children {
			rows = append(rows, []any{r.Email, c.Name, c.Age})
		}
	}
	return rows
}

func userRows(records []*core.UserRecord) [][]any {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{r.FirstName, r.Phone, r.Email, r.Password, r.Role, r.CreatedAtString()})
	}
	return rows
}

var (
	userColumns  = []string{"firstname", "telephone_number", "email", "password", "role", "created_at"}
	childColumns = []string{"parent_email", "name", "age"}
)
