package store

// convert.go turns validated cell values into pgtype values.
//
// Rows reaching the store have already passed validation, so these
// conversions only decide between a value and NULL. All ToPg* functions
// return Valid=false for empty input.

import (
	"strings"

	"github.com/JonMunkholm/rosterimport/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgPhone stores only the digits of a phone number so the same number
// typed with different punctuation compares equal.
func ToPgPhone(s string) pgtype.Text {
	return ToPgText(core.Digits(s))
}

// ToPgLower is ToPgText for case-insensitive values such as email addresses.
func ToPgLower(s string) pgtype.Text {
	return ToPgText(strings.ToLower(s))
}

// ToPgDate converts a string in one of the accepted date layouts.
func ToPgDate(s string) pgtype.Date {
	t, ok := core.ParseDate(s)
	if !ok {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}

// ToPgAmount converts a money cell to whole units.
func ToPgAmount(s string) pgtype.Int8 {
	n, ok := core.ParseAmount(s)
	if !ok {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: n, Valid: true}
}

// ToPgUUID converts a string to pgtype.UUID.
// Returns invalid if the string is empty or not a valid UUID.
func ToPgUUID(s string) pgtype.UUID {
	if s == "" {
		return pgtype.UUID{Valid: false}
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

// PgUUIDToString converts a pgtype.UUID to its string representation.
// Returns empty string if the UUID is invalid.
func PgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}
