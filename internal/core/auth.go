package core

import (
	"errors"
	"fmt"
)

// AuthFailure identifies why a login attempt was rejected.
type AuthFailure int

const (
	WrongLogin AuthFailure = iota + 1
	WrongPassword
)

// AuthError is returned by Authenticate when the credentials do not match.
type AuthError struct {
	Kind AuthFailure
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case WrongPassword:
		return "Your password is wrong. Try with double quotes around your password"
	default:
		return "Your login is wrong"
	}
}

// ForbiddenError is returned when a non-admin calls an admin-only report.
type ForbiddenError struct {
	Role string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("Access denied: your role is %q, admin required", e.Role)
}

// ErrNoChildren is returned by SimilarByAge when the caller has no children.
var ErrNoChildren = errors.New("no children available")

// Authenticate finds the first record whose phone or email equals login and
// compares its password verbatim. Only the first identity match is checked.
func Authenticate(records []*UserRecord, login, password string) (*UserRecord, error) {
	for _, r := range records {
		if r.Phone != login && r.Email != login {
			continue
		}
		if r.Password != password {
			return nil, &AuthError{Kind: WrongPassword}
		}
		return r, nil
	}
	return nil, &AuthError{Kind: WrongLogin}
}

// IsAuthFailure reports whether err is an authentication or authorization
// rejection rather than an operational failure.
func IsAuthFailure(err error) bool {
	var authErr *AuthError
	var forbidden *ForbiddenError
	return errors.As(err, &authErr) || errors.As(err, &forbidden)
}
