package core

import (
	"time"
)

// RoleAdmin is the only privileged role value.
const RoleAdmin = "admin"

// TimeLayout is the canonical created_at representation used for display and storage.
const TimeLayout = "2006-01-02 15:04:05"

// ChildRecord is a single child entry attached to a user account.
type ChildRecord struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age" validate:"gte=0"`
}

// UserRecord is the canonical account representation all sources normalize into.
type UserRecord struct {
	FirstName string
	Phone     string
	Email     string
	Password  string
	Role      string
	CreatedAt time.Time
	Children  []ChildRecord

	// PhoneMissing is set when the source record had no phone field at all.
	PhoneMissing bool
}

// IsAdmin reports whether the record carries the privileged role.
func (u *UserRecord) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CreatedAtString returns CreatedAt formatted with TimeLayout.
func (u *UserRecord) CreatedAtString() string {
	return u.CreatedAt.Format(TimeLayout)
}

// RawChild is a child entry exactly as a source adapter produced it.
type RawChild struct {
	Name string
	Age  string

	// Problem is set by adapters that could not read the child at all,
	// e.g. an age given as a list. Canonicalize drops such children.
	Problem string
}

// RawRecord is one account as produced by a source adapter, before canonicalization.
type RawRecord struct {
	FirstName string
	Phone     string
	PhoneSet  bool // False when the source had no phone field at all
	Email     string
	Password  string
	Role      string
	CreatedAt string
	Children  []RawChild

	// Origin identifies the record for diagnostics, e.g. "users.csv:12".
	Origin string
}

// AgeCount is one bucket of the child age histogram.
type AgeCount struct {
	Age   int
	Count int
}
