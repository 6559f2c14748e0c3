package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/accountsync/internal/core"
)

func init() {
	Register(JSONAdapter{})
	Register(YAMLAdapter{})
}

// flexString accepts a JSON/YAML string or any scalar (numbers in particular)
// and keeps its text form.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if len(b) > 0 && (b[0] == '{' || b[0] == '[') {
		return fmt.Errorf("expected scalar, got %s", b)
	}
	*f = flexString(b)
	return nil
}

func (f *flexString) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected scalar", n.Line)
	}
	if n.Tag == "!!null" {
		return nil
	}
	*f = flexString(n.Value)
	return nil
}

// childField is a child attribute that never fails to decode. A value that
// is not a scalar is remembered as invalid instead.
type childField struct {
	text    string
	invalid bool
}

func (c *childField) UnmarshalJSON(b []byte) error {
	var f flexString
	if err := f.UnmarshalJSON(b); err != nil {
		c.invalid = true
		return nil
	}
	c.text = string(f)
	return nil
}

func (c *childField) UnmarshalYAML(n *yaml.Node) error {
	var f flexString
	if err := f.UnmarshalYAML(n); err != nil {
		c.invalid = true
		return nil
	}
	c.text = string(f)
	return nil
}

// objChild is one element of a children list. Malformed children decode
// without error and are reported per child by Canonicalize, so one bad
// child does not cost the rest of the file.
type objChild struct {
	Name     childField
	Age      childField
	notAnObj bool
}

type objChildFields struct {
	Name childField `json:"name" yaml:"name"`
	Age  childField `json:"age" yaml:"age"`
}

func (c *objChild) UnmarshalJSON(b []byte) error {
	var f objChildFields
	if err := json.Unmarshal(b, &f); err != nil {
		c.notAnObj = true
		return nil
	}
	c.Name, c.Age = f.Name, f.Age
	return nil
}

func (c *objChild) UnmarshalYAML(n *yaml.Node) error {
	var f objChildFields
	if n.Kind != yaml.MappingNode || n.Decode(&f) != nil {
		c.notAnObj = true
		return nil
	}
	c.Name, c.Age = f.Name, f.Age
	return nil
}

func (c objChild) raw() core.RawChild {
	rc := core.RawChild{Name: c.Name.text, Age: c.Age.text}
	switch {
	case c.notAnObj:
		rc.Problem = "child is not an object"
	case c.Name.invalid:
		rc.Problem = "name is not a single value"
	case c.Age.invalid:
		rc.Problem = "age is not a single value"
	}
	return rc
}

// objUser is one element of a structured-object source.
type objUser struct {
	FirstName flexString  `json:"firstname" yaml:"firstname"`
	Phone     *flexString `json:"telephone_number" yaml:"telephone_number"`
	Email     flexString  `json:"email" yaml:"email"`
	Password  flexString  `json:"password" yaml:"password"`
	Role      flexString  `json:"role" yaml:"role"`
	CreatedAt flexString  `json:"created_at" yaml:"created_at"`
	Children  []objChild  `json:"children" yaml:"children"`
}

func (u objUser) raw(origin string) core.RawRecord {
	rec := core.RawRecord{
		FirstName: string(u.FirstName),
		Email:     string(u.Email),
		Password:  string(u.Password),
		Role:      string(u.Role),
		CreatedAt: string(u.CreatedAt),
		Origin:    origin,
	}
	if u.Phone != nil {
		rec.Phone = string(*u.Phone)
		rec.PhoneSet = hasPhone(rec.Phone)
	}
	for _, c := range u.Children {
		rec.Children = append(rec.Children, c.raw())
	}
	return rec
}

// JSONAdapter reads a JSON array of account objects. The array is decoded
// element by element so large exports are not held twice in memory.
type JSONAdapter struct{}

func (JSONAdapter) Format() string       { return "structured-object" }
func (JSONAdapter) Extensions() []string { return []string{".json"} }

// Parse implements Adapter.
func (JSONAdapter) Parse(ctx context.Context, path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(wrapText(f))
	name := filepath.Base(path)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("parse json: expected array of accounts, got %v", tok)
	}

	batch := &Batch{}
	for i := 0; dec.More(); i++ {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("operation cancelled: %w", err)
			}
		}

		var u objUser
		if err := dec.Decode(&u); err != nil {
			return nil, fmt.Errorf("parse json: element %d: %w", i, err)
		}
		batch.Records = append(batch.Records, u.raw(fmt.Sprintf("%s:[%d]", name, i)))
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return batch, nil
}

// YAMLAdapter reads a YAML sequence of account objects using the same keys
// as the JSON layout.
type YAMLAdapter struct{}

func (YAMLAdapter) Format() string       { return "structured-object" }
func (YAMLAdapter) Extensions() []string { return []string{".yaml", ".yml"} }

// Parse implements Adapter.
func (YAMLAdapter) Parse(ctx context.Context, path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var users []objUser
	if err := yaml.NewDecoder(wrapText(f)).Decode(&users); err != nil {
		if errors.Is(err, io.EOF) {
			return &Batch{}, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("operation cancelled: %w", err)
	}

	name := filepath.Base(path)
	batch := &Batch{Records: make([]core.RawRecord, 0, len(users))}
	for i, u := range users {
		batch.Records = append(batch.Records, u.raw(fmt.Sprintf("%s:[%d]", name, i)))
	}
	return batch, nil
}
