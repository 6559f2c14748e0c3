package core

// dedup.go resolves identity conflicts between records.
//
// Two passes run in sequence: first keyed by phone, then keyed by email over
// the survivors of the first pass. Within a pass, the most recently created
// record wins a conflict; an equal timestamp keeps the record already held.
// A replacing record moves to the end of the output, so survivors appear in
// the order they were last (re)inserted.

// Deduplicate returns the records left after collapsing phone conflicts and
// then email conflicts by the recency rule.
func Deduplicate(records []*UserRecord) []*UserRecord {
	byPhone := dedupBy(records, func(r *UserRecord) string { return r.Phone })
	return dedupBy(byPhone, func(r *UserRecord) string { return r.Email })
}

// dedupBy keeps one record per key. slots holds the output in insertion order
// with nil tombstones for replaced records; index maps a key to its live slot.
func dedupBy(records []*UserRecord, key func(*UserRecord) string) []*UserRecord {
	slots := make([]*UserRecord, 0, len(records))
	index := make(map[string]int, len(records))
	replaced := 0

	for _, r := range records {
		k := key(r)
		pos, seen := index[k]
		if !seen {
			index[k] = len(slots)
			slots = append(slots, r)
			continue
		}

		if !r.CreatedAt.After(slots[pos].CreatedAt) {
			continue
		}

		slots[pos] = nil
		replaced++
		index[k] = len(slots)
		slots = append(slots, r)
	}

	if replaced == 0 {
		return slots
	}

	out := make([]*UserRecord, 0, len(slots)-replaced)
	for _, r := range slots {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
