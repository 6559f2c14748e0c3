package source

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/accountsync/internal/core"
)

func init() {
	Register(XMLAdapter{})
}

// XMLAdapter reads one <user> element per account, wherever it appears in the
// document, with children under <children><child>.
type XMLAdapter struct{}

func (XMLAdapter) Format() string       { return "markup" }
func (XMLAdapter) Extensions() []string { return []string{".xml"} }

type xmlChild struct {
	Name string `xml:"name"`
	Age  string `xml:"age"`
}

type xmlUser struct {
	FirstName string     `xml:"firstname"`
	Phone     *string    `xml:"telephone_number"`
	Email     string     `xml:"email"`
	Password  string     `xml:"password"`
	Role      string     `xml:"role"`
	CreatedAt string     `xml:"created_at"`
	Children  []xmlChild `xml:"children>child"`
}

// Parse implements Adapter.
func (XMLAdapter) Parse(ctx context.Context, path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := xml.NewDecoder(wrapText(f))
	name := filepath.Base(path)
	batch := &Batch{}

	for n := 0; ; {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "user" {
			continue
		}

		if n%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("operation cancelled: %w", err)
			}
		}

		var u xmlUser
		if err := dec.DecodeElement(&u, &start); err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		batch.Records = append(batch.Records, u.raw(fmt.Sprintf("%s:user[%d]", name, n)))
		n++
	}

	return batch, nil
}

func (u xmlUser) raw(origin string) core.RawRecord {
	rec := core.RawRecord{
		FirstName: strings.TrimSpace(u.FirstName),
		Email:     strings.TrimSpace(u.Email),
		Password:  u.Password,
		Role:      strings.TrimSpace(u.Role),
		CreatedAt: strings.TrimSpace(u.CreatedAt),
		Origin:    origin,
	}
	if u.Phone != nil {
		rec.Phone = strings.TrimSpace(*u.Phone)
		rec.PhoneSet = hasPhone(rec.Phone)
	}
	for _, c := range u.Children {
		rec.Children = append(rec.Children, core.RawChild{
			Name: strings.TrimSpace(c.Name),
			Age:  strings.TrimSpace(c.Age),
		})
	}
	return rec
}
