package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldError describes a recoverable problem with part of a raw record.
// The importer logs it and skips the offending child or record.
type FieldError struct {
	Origin  string // Source position, e.g. "users.xml:user[3]"
	Field   string // Field name, e.g. "created_at" or "children[1]"
	Message string
}

func (e FieldError) Error() string {
	if e.Origin != "" {
		return fmt.Sprintf("%s: %s: %s", e.Origin, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Canonicalize converts a raw record into a UserRecord.
//
// A record whose created_at cannot be parsed is rejected with a FieldError.
// Malformed children are dropped individually; each one is reported in the
// returned warnings while the rest of the record is kept.
func Canonicalize(raw RawRecord) (*UserRecord, []FieldError, error) {
	created, err := ParseTimestamp(raw.CreatedAt)
	if err != nil {
		return nil, nil, FieldError{Origin: raw.Origin, Field: "created_at", Message: err.Error()}
	}

	rec := &UserRecord{
		FirstName: raw.FirstName,
		Phone:     raw.Phone,
		Email:     raw.Email,
		Password:  raw.Password,
		Role:      raw.Role,
		CreatedAt: created,
		Children:  make([]ChildRecord, 0, len(raw.Children)),

		PhoneMissing: !raw.PhoneSet,
	}

	var warnings []FieldError
	for i, rc := range raw.Children {
		child, err := canonicalChild(rc)
		if err != nil {
			warnings = append(warnings, FieldError{
				Origin:  raw.Origin,
				Field:   fmt.Sprintf("children[%d]", i),
				Message: err.Error(),
			})
			continue
		}
		rec.Children = append(rec.Children, child)
	}

	return rec, warnings, nil
}

func canonicalChild(rc RawChild) (ChildRecord, error) {
	if rc.Problem != "" {
		return ChildRecord{}, errors.New(rc.Problem)
	}

	age, err := ParseAge(rc.Age)
	if err != nil {
		return ChildRecord{}, err
	}

	child := ChildRecord{Name: rc.Name, Age: age}
	if err := structValidator().Struct(child); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return ChildRecord{}, fmt.Errorf("invalid child %s: failed %q", verrs[0].Field(), verrs[0].Tag())
		}
		return ChildRecord{}, err
	}
	return child, nil
}
