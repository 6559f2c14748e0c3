package source

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/accountsync/internal/core"
	"github.com/JonMunkholm/accountsync/internal/logging"
)

// ImportStats summarizes one Import call.
type ImportStats struct {
	Files   int // Files handed to an adapter
	Records int // Records produced
	Skipped int // Rows or records dropped for field errors
}

// Importer reads a list of paths into one ordered record collection.
type Importer struct {
	lookup func(path string) (Adapter, bool)
}

// NewImporter returns an Importer backed by the adapter registry.
func NewImporter() *Importer {
	return &Importer{lookup: ForPath}
}

// Import parses every path with a registered adapter, in the order given,
// and canonicalizes the results. Paths with an unknown extension are skipped.
//
// An adapter failure aborts the import; no partial collection is returned.
// Field errors within a file only drop the affected row, record or child
// and are logged as warnings.
func (imp *Importer) Import(ctx context.Context, paths []string) ([]*core.UserRecord, ImportStats, error) {
	var (
		stats   ImportStats
		records []*core.UserRecord
	)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("operation cancelled: %w", err)
		}

		adapter, ok := imp.lookup(path)
		if !ok {
			logging.FromContext(ctx).Debug("skipping file with unknown extension", "file", path)
			continue
		}

		log := logging.WithFields(ctx, "file", path, "format", adapter.Format())

		batch, err := adapter.Parse(ctx, path)
		if err != nil {
			return nil, stats, fmt.Errorf("import %s: %w", path, err)
		}
		stats.Files++

		for _, rej := range batch.Rejected {
			log.Warn("row skipped", "origin", rej.Origin, "reason", rej.Message)
			stats.Skipped++
		}

		for _, raw := range batch.Records {
			rec, warnings, err := core.Canonicalize(raw)
			for _, w := range warnings {
				log.Warn("child skipped", "origin", w.Origin, "field", w.Field, "reason", w.Message)
			}
			if err != nil {
				log.Warn("record skipped", "origin", raw.Origin, "reason", err)
				stats.Skipped++
				continue
			}
			records = append(records, rec)
		}

		log.Debug("file imported", "records", len(batch.Records))
	}

	stats.Records = len(records)
	logging.FromContext(ctx).Info("import finished",
		"files", stats.Files,
		"records", stats.Records,
		"skipped", stats.Skipped,
	)

	return records, stats, nil
}
