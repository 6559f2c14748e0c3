// Package core provides the account cleaning, authentication and reporting logic.
//
// This package is the heart of accountsync, containing all domain logic
// independent of any file format, storage backend or console. It can be used
// by the CLI, other tools, or tests without modification.
//
// # Pipeline
//
// Source adapters (package source) produce [RawRecord] values. The pipeline
// then runs four stages, each a pure transformation of the collection:
//
//  1. [Canonicalize] turns raw records into [UserRecord] values
//  2. [FilterEmails] drops records with a malformed email
//  3. [NormalizePhones] rewrites phones to their 9-character form
//  4. [Deduplicate] collapses phone, then email, conflicts by recency
//
// # Reports
//
// [Reports] answers the authenticated queries. Every call authenticates with
// [Authenticate]; Count, Oldest and AgeHistogram also require the admin role:
//
//	reports := core.NewReports(cleaned)
//	n, err := reports.Count(login, password)
//	var authErr *core.AuthError
//	if errors.As(err, &authErr) {
//	    fmt.Println(authErr) // "Your login is wrong"
//	}
//
// # Error Handling
//
// Per-record problems are returned as [FieldError] values and are never fatal.
// Technical errors from the import and persist stages are mapped to
// user-friendly messages using [MapError].
package core
