package source

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

func init() {
	Register(SQLiteAdapter{})
}

// SQLiteAdapter reads the users and children tables of an embedded database,
// the same layout the SQLite persister writes.
type SQLiteAdapter struct{}

func (SQLiteAdapter) Format() string       { return "embedded-relational" }
func (SQLiteAdapter) Extensions() []string { return []string{".db", ".sqlite"} }

const (
	selectUsers = `SELECT firstname, telephone_number, email, password, role, created_at
		FROM users ORDER BY rowid`
	selectChildren = `SELECT parent_email, name, age FROM children ORDER BY rowid`
)

// Parse implements Adapter. The database is opened read-only.
func (SQLiteAdapter) Parse(ctx context.Context, path string) (*Batch, error) {
	dsn, err := readOnlyDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	children, err := loadChildren(ctx, db)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectUsers)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	name := filepath.Base(path)
	batch := &Batch{}
	for n := 0; rows.Next(); n++ {
		var first, phone, email, password, role, created sql.NullString
		if err := rows.Scan(&first, &phone, &email, &password, &role, &created); err != nil {
			return nil, fmt.Errorf("scan users: %w", err)
		}
		batch.Records = append(batch.Records, core.RawRecord{
			FirstName: first.String,
			Phone:     phone.String,
			PhoneSet:  phone.Valid && hasPhone(phone.String),
			Email:     email.String,
			Password:  password.String,
			Role:      role.String,
			CreatedAt: created.String,
			Children:  children[email.String],
			Origin:    fmt.Sprintf("%s:users[%d]", name, n),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	return batch, nil
}

// readOnlyDSN builds a file: URI for path with mode=ro. The path is
// escaped, so '#' or '?' in a directory name stay part of the path.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}
	return u.String(), nil
}

// loadChildren groups every children row by parent email, keeping rowid order.
func loadChildren(ctx context.Context, db *sql.DB) (map[string][]core.RawChild, error) {
	rows, err := db.QueryContext(ctx, selectChildren)
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}
	defer rows.Close()

	byParent := make(map[string][]core.RawChild)
	for rows.Next() {
		var parent, name, age sql.NullString
		if err := rows.Scan(&parent, &name, &age); err != nil {
			return nil, fmt.Errorf("scan children: %w", err)
		}
		byParent[parent.String] = append(byParent[parent.String], core.RawChild{
			Name: name.String,
			Age:  age.String,
		})
	}
	return byParent, rows.Err()
}
