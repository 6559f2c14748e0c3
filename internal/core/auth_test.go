package core

import (
	"errors"
	"testing"
)

func TestAuthenticate(t *testing.T) {
	cassandra := &UserRecord{FirstName: "Cassandra", Phone: "088691177", Email: "ashleyhall@example.net", Password: "#0R0UT&yw2", Role: "admin"}
	don := &UserRecord{FirstName: "Don", Phone: "612660796", Email: "tamara37@example.com", Password: "jQ66IIlR*1", Role: "user"}
	records := []*UserRecord{don, cassandra}

	tests := []struct {
		name     string
		login    string
		password string
		want     *UserRecord
		wantKind AuthFailure
	}{
		{"login by email", "ashleyhall@example.net", "#0R0UT&yw2", cassandra, 0},
		{"login by phone", "612660796", "jQ66IIlR*1", don, 0},
		{"wrong login", "12345678@example.net", "#0R0UT&yw2", nil, WrongLogin},
		{"wrong password", "ashleyhall@example.net", "12345678", nil, WrongPassword},
		{"password compared verbatim", "ashleyhall@example.net", "#0R0UT&yw2 ", nil, WrongPassword},
		{"empty login", "", "", nil, WrongLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Authenticate(records, tt.login, tt.password)
			if tt.wantKind == 0 {
				if err != nil {
					t.Fatalf("Authenticate() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("Authenticate() = %v, want %v", got.FirstName, tt.want.FirstName)
				}
				return
			}

			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("Authenticate() error = %v, want *AuthError", err)
			}
			if authErr.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", authErr.Kind, tt.wantKind)
			}
			if got != nil {
				t.Errorf("Authenticate() returned a record on failure")
			}
		})
	}
}

func TestAuthError_Messages(t *testing.T) {
	if got := (&AuthError{Kind: WrongLogin}).Error(); got != "Your login is wrong" {
		t.Errorf("WrongLogin message = %q", got)
	}
	want := "Your password is wrong. Try with double quotes around your password"
	if got := (&AuthError{Kind: WrongPassword}).Error(); got != want {
		t.Errorf("WrongPassword message = %q, want %q", got, want)
	}
}

// The first identity match decides; a later record with the right password
// is not consulted.
func TestAuthenticate_FirstMatchWins(t *testing.T) {
	byPhone := &UserRecord{Phone: "shared", Email: "p@x.io", Password: "one"}
	byEmail := &UserRecord{Phone: "999999999", Email: "shared", Password: "two"}

	_, err := Authenticate([]*UserRecord{byPhone, byEmail}, "shared", "two")
	var authErr *AuthError
	if !errors.As(err, &authErr) || authErr.Kind != WrongPassword {
		t.Errorf("Authenticate() error = %v, want WrongPassword", err)
	}
}

func TestIsAuthFailure(t *testing.T) {
	if !IsAuthFailure(&AuthError{Kind: WrongLogin}) {
		t.Error("AuthError should be an auth failure")
	}
	if !IsAuthFailure(&ForbiddenError{Role: "user"}) {
		t.Error("ForbiddenError should be an auth failure")
	}
	if IsAuthFailure(errors.New("disk full")) {
		t.Error("plain error should not be an auth failure")
	}
}
