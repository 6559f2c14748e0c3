package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "csv parse error",
			err:         errors.New(`import data/a.csv: parse csv: record on line 3: extraneous or missing " in quoted-field`),
			wantCode:    "SRC001",
			wantMessage: "A delimited text source could not be read",
		},
		{
			name:        "xml parse error",
			err:         errors.New("import data/a.xml: parse xml: XML syntax error on line 4"),
			wantCode:    "SRC002",
			wantMessage: "A markup source is not well-formed",
		},
		{
			name:        "yaml parse error shares code with json",
			err:         errors.New("import data/a.yaml: parse yaml: yaml: line 2: did not find expected key"),
			wantCode:    "SRC003",
			wantMessage: "A structured-object source is not a valid array of accounts",
		},
		{
			name:        "missing sqlite table",
			err:         errors.New("import users.db: query users: SQL logic error: no such table: users (1)"),
			wantCode:    "SRC004",
			wantMessage: "A relational source is missing the users or children table",
		},
		{
			name:        "postgres connection refused",
			err:         errors.New("persist: connect: dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantCode:    "DB001",
			wantMessage: "Unable to connect to the output database",
		},
		{
			name:        "wrapped deadline",
			err:         fmt.Errorf("persist: %w", errors.New("context deadline exceeded")),
			wantCode:    "DB004",
			wantMessage: "The run timed out",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("PARSE XML: unexpected EOF"),
			wantCode:    "SRC002",
			wantMessage: "A markup source is not well-formed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := errors.New("database is locked (5) (SQLITE_BUSY)")
	result := FormatUserError(err)

	expected := "The output database is in use (Code: DB002). Close other programs using the file and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", errors.New("open x.csv: no such file or directory"), true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
