package core

import (
	"sort"
	"time"
)

// Reports answers authenticated queries over a cleaned collection.
// Every method authenticates first; the admin-only ones also check the role.
type Reports struct {
	records []*UserRecord
	now     func() time.Time
}

// NewReports creates a report engine over records. The slice is shared, not
// copied: SimilarByAge re-sorts the children of matched records in place.
func NewReports(records []*UserRecord) *Reports {
	return &Reports{records: records, now: time.Now}
}

// WithClock replaces the clock used as the starting point of Oldest.
func (r *Reports) WithClock(now func() time.Time) *Reports {
	r.now = now
	return r
}

// Records returns the collection the reports run against.
func (r *Reports) Records() []*UserRecord {
	return r.records
}

// Login authenticates the caller against the collection.
func (r *Reports) Login(login, password string) (*UserRecord, error) {
	return Authenticate(r.records, login, password)
}

// RequireAdmin authenticates the caller and rejects non-admin roles.
func (r *Reports) RequireAdmin(login, password string) (*UserRecord, error) {
	user, err := r.Login(login, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, &ForbiddenError{Role: user.Role}
	}
	return user, nil
}

// Count returns the number of records. Admin only.
func (r *Reports) Count(login, password string) (int, error) {
	if _, err := r.RequireAdmin(login, password); err != nil {
		return 0, err
	}
	return len(r.records), nil
}

// Oldest returns the record with the earliest CreatedAt. The running minimum
// starts at the current time and only a strictly earlier record replaces it,
// so the first of several equally old records wins. Returns nil when no record
// predates now. Admin only.
func (r *Reports) Oldest(login, password string) (*UserRecord, error) {
	if _, err := r.RequireAdmin(login, password); err != nil {
		return nil, err
	}

	var oldest *UserRecord
	earliest := r.now()
	for _, rec := range r.records {
		if rec.CreatedAt.Before(earliest) {
			earliest = rec.CreatedAt
			oldest = rec
		}
	}
	return oldest, nil
}

// AgeHistogram counts children by age across all records. Buckets are ordered
// by ascending count; equal counts keep the order in which each age was first
// seen. Admin only.
func (r *Reports) AgeHistogram(login, password string) ([]AgeCount, error) {
	if _, err := r.RequireAdmin(login, password); err != nil {
		return nil, err
	}

	var buckets []AgeCount
	pos := make(map[int]int)
	for _, rec := range r.records {
		for _, c := range rec.Children {
			i, ok := pos[c.Age]
			if !ok {
				pos[c.Age] = len(buckets)
				buckets = append(buckets, AgeCount{Age: c.Age, Count: 1})
				continue
			}
			buckets[i].Count++
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count < buckets[j].Count
	})
	return buckets, nil
}

// Children returns the caller's own children in stored order.
func (r *Reports) Children(login, password string) ([]ChildRecord, error) {
	user, err := r.Login(login, password)
	if err != nil {
		return nil, err
	}
	return user.Children, nil
}

// SimilarByAge returns every record, the caller's included, that has a child
// sharing an age with one of the caller's children. Matches keep collection
// order and appear once each. The children of every match are re-sorted by
// name in place. Returns ErrNoChildren if the caller has none.
func (r *Reports) SimilarByAge(login, password string) ([]*UserRecord, error) {
	user, err := r.Login(login, password)
	if err != nil {
		return nil, err
	}
	if len(user.Children) == 0 {
		return nil, ErrNoChildren
	}

	ages := make(map[int]struct{}, len(user.Children))
	for _, c := range user.Children {
		ages[c.Age] = struct{}{}
	}

	var matches []*UserRecord
	seen := make(map[*UserRecord]struct{})
	for _, rec := range r.records {
		if _, dup := seen[rec]; dup || !hasChildAged(rec, ages) {
			continue
		}
		seen[rec] = struct{}{}
		matches = append(matches, rec)
	}

	for _, m := range matches {
		children := m.Children
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Name < children[j].Name
		})
	}
	return matches, nil
}

func hasChildAged(rec *UserRecord, ages map[int]struct{}) bool {
	for _, c := range rec.Children {
		if _, ok := ages[c.Age]; ok {
			return true
		}
	}
	return false
}
