package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/accountsync/internal/core"
)

// CSVFieldCount is the number of fields in a delimited account row.
const CSVFieldCount = 7

// csvPasswordField is the one column kept verbatim: no Excel unwrapping and
// no UTF-8 repair.
const csvPasswordField = 3

// ContextCheckInterval is how often (in rows) to check for context cancellation.
var ContextCheckInterval = 100

func init() {
	Register(CSVAdapter{})
}

// CSVAdapter reads ';'-separated rows:
//
//	firstname;telephone_number;email;password;role;created_at;children
//
// where children is a ','-separated list of "name (age)" tokens.
// A header row, if present, is recognized by its first field and skipped.
type CSVAdapter struct{}

func (CSVAdapter) Format() string       { return "delimited-text" }
func (CSVAdapter) Extensions() []string { return []string{".csv"} }

// Parse implements Adapter.
func (CSVAdapter) Parse(ctx context.Context, path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Cells are sanitized one by one after splitting so the password bytes
	// reach the record untouched.
	counter := wrapRaw(f)
	r := csv.NewReader(counter)
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	name := filepath.Base(path)
	batch := &Batch{}

	for i := 0; ; i++ {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("operation cancelled: %w", err)
			}
		}

		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}

		line, _ := r.FieldPos(0)
		origin := fmt.Sprintf("%s:%d", name, line)

		if i == 0 && isHeaderRow(row) {
			continue
		}
		if isEmptyRow(row) {
			continue
		}
		if len(row) != CSVFieldCount {
			batch.Rejected = append(batch.Rejected, core.FieldError{
				Origin:  origin,
				Field:   "row",
				Message: fmt.Sprintf("expected %d fields, got %d", CSVFieldCount, len(row)),
			})
			continue
		}

		for j := range row {
			if j == csvPasswordField {
				continue
			}
			row[j] = core.CleanCell(sanitizeString(row[j]))
		}

		batch.Records = append(batch.Records, core.RawRecord{
			FirstName: row[0],
			Phone:     row[1],
			PhoneSet:  hasPhone(row[1]),
			Email:     row[2],
			Password:  row[csvPasswordField],
			Role:      row[4],
			CreatedAt: row[5],
			Children:  parseChildList(row[6]),
			Origin:    origin,
		})
	}

	slog.Debug("csv parsed", "file", name, "bytes", counter.BytesRead, "records", len(batch.Records))
	return batch, nil
}

func isHeaderRow(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "firstname")
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// hasPhone reports whether a phone cell carries a value at all.
func hasPhone(s string) bool {
	return strings.TrimSpace(s) != ""
}

// parseChildList splits "Anna (3),Ben (7)" into raw children. A token that is
// not shaped like "name (age)" becomes a child with an empty age so that
// canonicalization reports and drops it.
func parseChildList(s string) []core.RawChild {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	tokens := strings.Split(s, ",")
	children := make([]core.RawChild, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		children = append(children, parseChildToken(tok))
	}
	return children
}

func parseChildToken(tok string) core.RawChild {
	open := strings.LastIndex(tok, "(")
	if open < 0 || !strings.HasSuffix(tok, ")") {
		return core.RawChild{Name: tok}
	}
	return core.RawChild{
		Name: strings.TrimSpace(tok[:open]),
		Age:  strings.TrimSpace(tok[open+1 : len(tok)-1]),
	}
}
