package core

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const (
	adminLogin = "admin@x.io"
	adminPass  = "secret"
	userLogin  = "user@x.io"
	userPass   = "pw"
)

func fixture() []*UserRecord {
	return []*UserRecord{
		{
			FirstName: "Ada", Phone: "111111111", Email: adminLogin, Password: adminPass, Role: "admin",
			CreatedAt: at("2021-03-01 10:00:00"),
			Children:  []ChildRecord{{Name: "Zed", Age: 5}},
		},
		{
			FirstName: "Bob", Phone: "222222222", Email: userLogin, Password: userPass, Role: "user",
			CreatedAt: at("2019-07-15 08:30:00"),
			Children:  []ChildRecord{{Name: "Yara", Age: 5}, {Name: "Abe", Age: 7}},
		},
		{
			FirstName: "Cy", Phone: "333333333", Email: "cy@x.io", Password: "c", Role: "user",
			CreatedAt: at("2022-11-30 23:59:59"),
		},
	}
}

func TestReports_AdminOnly(t *testing.T) {
	r := NewReports(fixture())

	calls := map[string]func(string, string) error{
		"Count":        func(l, p string) error { _, err := r.Count(l, p); return err },
		"Oldest":       func(l, p string) error { _, err := r.Oldest(l, p); return err },
		"AgeHistogram": func(l, p string) error { _, err := r.AgeHistogram(l, p); return err },
		"RequireAdmin": func(l, p string) error { _, err := r.RequireAdmin(l, p); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call(userLogin, userPass)
			var forbidden *ForbiddenError
			if !errors.As(err, &forbidden) {
				t.Fatalf("%s as user: error = %v, want *ForbiddenError", name, err)
			}
			if forbidden.Role != "user" {
				t.Errorf("Role = %q, want %q", forbidden.Role, "user")
			}

			err = call("nobody", "x")
			var authErr *AuthError
			if !errors.As(err, &authErr) || authErr.Kind != WrongLogin {
				t.Errorf("%s with bad login: error = %v, want WrongLogin", name, err)
			}

			if err := call(adminLogin, adminPass); err != nil {
				t.Errorf("%s as admin: error = %v", name, err)
			}
		})
	}
}

func TestForbiddenError_MentionsRole(t *testing.T) {
	got := (&ForbiddenError{Role: "editor"}).Error()
	want := `Access denied: your role is "editor", admin required`
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestReports_Count(t *testing.T) {
	n, err := NewReports(fixture()).Count(adminLogin, adminPass)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestReports_Oldest(t *testing.T) {
	records := []*UserRecord{
		{FirstName: "A", Email: adminLogin, Password: adminPass, Role: "admin", CreatedAt: at("2021-01-01 00:00:00")},
		{FirstName: "B", Email: "b@x.io", CreatedAt: at("2019-01-01 00:00:00")},
		{FirstName: "C", Email: "c@x.io", CreatedAt: at("2022-01-01 00:00:00")},
		{FirstName: "D", Email: "d@x.io", CreatedAt: at("2019-01-01 00:00:00")},
	}

	got, err := NewReports(records).Oldest(adminLogin, adminPass)
	if err != nil {
		t.Fatalf("Oldest() error = %v", err)
	}
	if got == nil || got.FirstName != "B" {
		t.Fatalf("Oldest() = %v, want B", got)
	}
	if got.CreatedAtString() != "2019-01-01 00:00:00" {
		t.Errorf("CreatedAtString() = %q", got.CreatedAtString())
	}
}

func TestReports_Oldest_NothingBeforeNow(t *testing.T) {
	records := []*UserRecord{
		{Email: adminLogin, Password: adminPass, Role: "admin", CreatedAt: at("2030-01-01 00:00:00")},
	}
	now := func() time.Time { return at("2025-01-01 00:00:00") }

	got, err := NewReports(records).WithClock(now).Oldest(adminLogin, adminPass)
	if err != nil {
		t.Fatalf("Oldest() error = %v", err)
	}
	if got != nil {
		t.Errorf("Oldest() = %v, want nil when every record is in the future", got.FirstName)
	}
}

func TestReports_AgeHistogram(t *testing.T) {
	records := []*UserRecord{
		{Email: adminLogin, Password: adminPass, Role: "admin", Children: []ChildRecord{{"a", 5}}},
		{Email: "b@x.io", Children: []ChildRecord{{"b", 5}, {"c", 7}}},
	}

	got, err := NewReports(records).AgeHistogram(adminLogin, adminPass)
	if err != nil {
		t.Fatalf("AgeHistogram() error = %v", err)
	}
	want := []AgeCount{{Age: 7, Count: 1}, {Age: 5, Count: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AgeHistogram() mismatch (-want +got):\n%s", diff)
	}
}

func TestReports_AgeHistogram_TiesKeepFirstSeen(t *testing.T) {
	records := []*UserRecord{
		{Email: adminLogin, Password: adminPass, Role: "admin", Children: []ChildRecord{{"a", 12}, {"b", 5}}},
		{Email: "b@x.io", Children: []ChildRecord{{"c", 9}, {"d", 9}, {"e", 7}, {"f", 15}, {"g", 2}}},
	}

	got, err := NewReports(records).AgeHistogram(adminLogin, adminPass)
	if err != nil {
		t.Fatalf("AgeHistogram() error = %v", err)
	}
	want := []AgeCount{{12, 1}, {5, 1}, {7, 1}, {15, 1}, {2, 1}, {9, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AgeHistogram() mismatch (-want +got):\n%s", diff)
	}
}

func TestReports_Children(t *testing.T) {
	got, err := NewReports(fixture()).Children(userLogin, userPass)
	if err != nil {
		t.Fatalf("Children() error = %v", err)
	}
	want := []ChildRecord{{Name: "Yara", Age: 5}, {Name: "Abe", Age: 7}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Children() mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewReports(fixture()).Children(userLogin, "wrong"); err == nil {
		t.Error("Children() with wrong password should fail")
	}
}

func TestReports_SimilarByAge(t *testing.T) {
	records := fixture()
	r := NewReports(records)

	got, err := r.SimilarByAge(userLogin, userPass)
	if err != nil {
		t.Fatalf("SimilarByAge() error = %v", err)
	}
	if !equalNames(got, "Ada", "Bob") {
		t.Fatalf("SimilarByAge() = %v, want [Ada Bob]", names(got))
	}

	// The caller's own children are re-sorted by name for the rest of the run.
	want := []ChildRecord{{Name: "Abe", Age: 7}, {Name: "Yara", Age: 5}}
	if diff := cmp.Diff(want, records[1].Children); diff != "" {
		t.Errorf("children not re-sorted in place (-want +got):\n%s", diff)
	}
}

func TestReports_SimilarByAge_RecordOnce(t *testing.T) {
	records := []*UserRecord{
		{FirstName: "Caller", Email: userLogin, Password: userPass, Children: []ChildRecord{{"x", 3}, {"y", 4}}},
		{FirstName: "Twins", Email: "t@x.io", Children: []ChildRecord{{"b", 3}, {"a", 4}, {"c", 3}}},
		{FirstName: "Other", Email: "o@x.io", Children: []ChildRecord{{"z", 10}}},
	}

	got, err := NewReports(records).SimilarByAge(userLogin, userPass)
	if err != nil {
		t.Fatalf("SimilarByAge() error = %v", err)
	}
	if !equalNames(got, "Caller", "Twins") {
		t.Errorf("SimilarByAge() = %v, want [Caller Twins]", names(got))
	}
	if records[2].Children[0].Name != "z" {
		t.Error("unmatched record should be untouched")
	}
	wantTwins := []ChildRecord{{"a", 4}, {"b", 3}, {"c", 3}}
	if diff := cmp.Diff(wantTwins, records[1].Children); diff != "" {
		t.Errorf("matched children not sorted (-want +got):\n%s", diff)
	}
}

func TestReports_SimilarByAge_NoChildren(t *testing.T) {
	records := fixture()
	_, err := NewReports(records).SimilarByAge("cy@x.io", "c")
	if !errors.Is(err, ErrNoChildren) {
		t.Errorf("SimilarByAge() error = %v, want ErrNoChildren", err)
	}
}
