package core

// error_messages.go maps technical errors to messages a school administrator
// can act on. Each message carries a code that support staff can look up.
//
// Codes by category:
//
//	FILE001-FILE099  the uploaded file (size, type, emptiness)
//	VAL001-VAL099    structural or whole-file validation
//	DB001-DB099      the roster store rejected a row or is unreachable
//	IMP001-IMP099    the import flow (previews, concurrency)
//	REQ001-REQ099    the request itself (cancelled, timed out, throttled)
//	ERR000           fallback; check the logs for the technical error
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.
// Messages must not contain commas (see validation.go).

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File
	{"file too large", UserMessage{"The file is larger than the upload limit", "Split the roster into smaller files", "FILE001"}},
	{"unsupported file type", UserMessage{"Only .csv and .xlsx files can be imported", "Save the spreadsheet as CSV UTF-8 and try again", "FILE002"}},
	{"empty file", UserMessage{"The file has no data rows", "Add at least one student below the header row", "FILE003"}},
	{"no file provided", UserMessage{"No file was selected", "Choose a CSV file to upload", "FILE004"}},
	{"read xlsx", UserMessage{"The spreadsheet could not be read", "Save the spreadsheet as CSV UTF-8 and try again", "FILE005"}},
	{"request body too large", UserMessage{"The file is larger than the upload limit", "Split the roster into smaller files", "FILE001"}},
	{"invalid multipart form", UserMessage{"The upload could not be read", "Choose the file again and retry", "FILE006"}},

	// Validation
	{"missing required column", UserMessage{"Required columns are missing from the header", "Download the template and compare the header row", "VAL001"}},
	{"no valid rows", UserMessage{"Every row in the file has errors so nothing was imported", "Fix the rows listed and upload the file again", "VAL002"}},

	// Store
	{"duplicate key", UserMessage{"This person is already on the roster", "Remove the row or update the existing record instead", "DB001"}},
	{"violates unique", UserMessage{"This person is already on the roster", "Remove the row or update the existing record instead", "DB001"}},
	{"foreign key", UserMessage{"The school for this import no longer exists", "Reload the page and select the school again", "DB002"}},
	{"value too long", UserMessage{"A value is longer than the roster allows", "Shorten the value and upload the row again", "DB003"}},
	{"connection refused", UserMessage{"The roster service is unavailable", "Please try again in a few moments", "DB004"}},
	{"connection reset", UserMessage{"The connection to the roster service was interrupted", "Please try again", "DB005"}},
	{"deadlock", UserMessage{"The roster was busy with another change", "Please try again", "DB006"}},

	// Import flow
	{"import already in progress", UserMessage{"This file is already being imported", "Wait for the current import to finish", "IMP001"}},
	{"too many imports", UserMessage{"The system is busy processing other imports", "Please wait a moment and try again", "IMP002"}},
	{"preview not found", UserMessage{"This upload has expired or was already imported", "Upload the file again", "IMP003"}},
	{"unknown profile", UserMessage{"This import type is not available", "Choose an import type from the list", "IMP004"}},

	// Request
	{"context canceled", UserMessage{"The request was cancelled", "Please try again", "REQ001"}},
	{"context deadline exceeded", UserMessage{"The request took too long", "Try a smaller file or try again later", "REQ002"}},
	{"timeout", UserMessage{"The request took too long", "Try a smaller file or try again later", "REQ002"}},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "REQ003"}},
	{"school id is required", UserMessage{"No school was selected for this import", "Choose a school and upload the file again", "REQ004"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the ERR000 fallback when no pattern matches and an empty
// UserMessage for a nil error.
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

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s.", msg.Message, msg.Code, msg.Action)
}
