// # Error Codes Reference
//
// This file maps technical errors from the import and persist stages to short
// user-facing messages with a code. Authentication and authorization failures
// are not mapped: their messages are already meant for the user.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Invalid delimited text: the file is not valid ';'-separated text
//	         Patterns: "parse csv"
//	SRC002 - Invalid markup: the file is not well-formed XML
//	         Patterns: "parse xml"
//	SRC003 - Invalid structured object: the file is not a valid JSON/YAML array
//	         Patterns: "parse json", "parse yaml"
//	SRC004 - Invalid relational file: tables are missing or unreadable
//	         Patterns: "no such table", "file is not a database"
//	SRC005 - Unreadable file: the file cannot be opened
//	         Patterns: "no such file", "permission denied"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused: unable to reach the output database
//	DB002 - Database locked: another process holds the output file
//	DB003 - Read-only: the output location is not writable
//	DB004 - Timeout: the run exceeded RUN_TIMEOUT
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches; the technical error is logged.

package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are matched case-insensitively with strings.Contains.
// The first match wins, so specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "parse csv",
		msg: UserMessage{
			Message: "A delimited text source could not be read",
			Action:  "Check that rows use ';' separators and quotes are balanced",
			Code:    "SRC001",
		},
	},
	{
		pattern: "parse xml",
		msg: UserMessage{
			Message: "A markup source is not well-formed",
			Action:  "Check the file for unclosed or mismatched elements",
			Code:    "SRC002",
		},
	},
	{
		pattern: "parse json",
		msg: UserMessage{
			Message: "A structured-object source is not a valid array of accounts",
			Action:  "Check the file is a JSON array of account objects",
			Code:    "SRC003",
		},
	},
	{
		pattern: "parse yaml",
		msg: UserMessage{
			Message: "A structured-object source is not a valid array of accounts",
			Action:  "Check the file is a YAML list of account objects",
			Code:    "SRC003",
		},
	},
	{
		pattern: "no such table",
		msg: UserMessage{
			Message: "A relational source is missing the users or children table",
			Action:  "Check the database file has users and children tables",
			Code:    "SRC004",
		},
	},
	{
		pattern: "file is not a database",
		msg: UserMessage{
			Message: "A relational source is not a database file",
			Action:  "Remove or replace the damaged .db file",
			Code:    "SRC004",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "A source file could not be found",
			Action:  "Check the data directory path",
			Code:    "SRC005",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "A file could not be opened",
			Action:  "Check file permissions",
			Code:    "SRC005",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the output database",
			Action:  "Check PERSIST_TARGET and that the server is running",
			Code:    "DB001",
		},
	},
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "The output database is in use",
			Action:  "Close other programs using the file and try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "readonly database",
		msg: UserMessage{
			Message: "The output database is read-only",
			Action:  "Choose a writable PERSIST_TARGET",
			Code:    "DB003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The run timed out",
			Action:  "Increase RUN_TIMEOUT or reduce the input size",
			Code:    "DB004",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Run again with LOG_LEVEL=debug for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
