// Package source reads account records from files.
//
// Each supported format is an [Adapter] registered at init time by file
// extension. The [Importer] dispatches paths to adapters and canonicalizes
// what they produce:
//
//	imp := source.NewImporter()
//	records, stats, err := imp.Import(ctx, paths)
//
// Adapters only deal with syntax. They return raw field values; type
// conversion and per-record validation happen in package core.
package source

import (
	"context"

	"github.com/JonMunkholm/accountsync/internal/core"
)

// Adapter reads one file format.
type Adapter interface {
	// Format is a short human-readable name, e.g. "delimited-text".
	Format() string

	// Extensions lists the file extensions handled, e.g. [".csv"].
	Extensions() []string

	// Parse reads every record in the file at path, in file order.
	// A returned error means the file as a whole could not be parsed.
	Parse(ctx context.Context, path string) (*Batch, error)
}

// Batch is the output of one Parse call.
type Batch struct {
	Records []core.RawRecord

	// Rejected lists rows the adapter could not turn into a record,
	// e.g. a delimited row with the wrong number of fields.
	Rejected []core.FieldError
}
