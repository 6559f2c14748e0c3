package app

import (
	"context"

	"github.com/JonMunkholm/accountsync/internal/core"
	"github.com/JonMunkholm/accountsync/internal/logging"
	"github.com/JonMunkholm/accountsync/internal/source"
)

// Load imports paths and cleans the result: invalid emails are dropped,
// phones are normalized, then phone and email conflicts are resolved by
// recency. The returned collection is what every command runs against.
func Load(ctx context.Context, imp *source.Importer, paths []string) ([]*core.UserRecord, error) {
	records, _, err := imp.Import(ctx, paths)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	imported := len(records)

	records = core.FilterEmails(records)
	afterEmail := len(records)

	records = core.NormalizePhones(records)
	afterPhone := len(records)

	records = core.Deduplicate(records)

	log.Debug("collection cleaned",
		"imported", imported,
		"invalid_email", imported-afterEmail,
		"invalid_phone", afterEmail-afterPhone,
		"duplicates", afterPhone-len(records),
		"kept", len(records),
	)
	return records, nil
}
