package core

import (
	"context"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// RuleKind selects how a field's raw value is checked.
type RuleKind int

const (
	RuleText RuleKind = iota
	RulePhone
	RuleMoney
	RuleEmail
	RuleDate
	RuleEnum
)

// Rule holds the thresholds for a single field. Zero values mean "use the
// default for this kind".
type Rule struct {
	Kind       RuleKind
	Optional   bool     // Empty values pass
	MinLen     int      // Text: minimum rune count (default 2)
	MaxLen     int      // Text: maximum rune count (default 100)
	MinDigits  int      // Phone: minimum digit count (default 7)
	MaxDigits  int      // Phone: maximum digit count (default 15)
	Ceiling    int64    // Money: largest plausible amount (default 10,000,000)
	EnumValues []string // Enum: accepted values, compared case-insensitively

	Pattern     *regexp.Regexp // Text: optional shape check after length
	PatternHint string         // Text: example shown when Pattern fails
}

// FieldSpec describes one importable column.
type FieldSpec struct {
	Name     string   // Canonical field name: "phone"
	Label    string   // Human label used in messages: "Phone"
	Aliases  []string // Accepted header spellings, folded before comparison
	Required bool     // Column must exist in the header
	Rule     Rule
}

// label returns the display label, falling back to the field name.
func (f FieldSpec) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Profile is a named set of field specs sharing one import engine.
type Profile struct {
	Key     string      // Unique identifier: "students"
	Label   string      // Display name: "Students"
	Fields  []FieldSpec // Ordered; template columns follow this order
	Example [][]string  // Example data rows for the downloadable template
}

// Field returns the FieldSpec with the given name.
func (p Profile) Field(name string) (FieldSpec, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// ColumnMap maps a field name to its column position in the file.
type ColumnMap map[string]int

// RawRow is one unvalidated data line.
type RawRow struct {
	Line  int // 1-based physical line in the source file
	Cells []string
}

// ValidatedRow is a row after validation. Valid is true iff Errors is empty.
type ValidatedRow struct {
	Line   int               `json:"line"`
	Fields map[string]string `json:"fields"`
	Errors []string          `json:"errors,omitempty"`
	Valid  bool              `json:"valid"`
}

// Value returns the raw value of a field, or "" when absent.
func (r ValidatedRow) Value(field string) string {
	return r.Fields[field]
}

// RowError ties a user-facing message to its source line.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResult is the outcome of one confirmed import.
type ImportResult struct {
	SuccessCount int        `json:"successCount"`
	FailedCount  int        `json:"failedCount"`
	Errors       []RowError `json:"errors"`
}

// Preview holds a validated file awaiting confirmation.
type Preview struct {
	ID           string         `json:"id"`
	SchoolID     string         `json:"schoolId"`
	ProfileKey   string         `json:"profile"`
	FileName     string         `json:"fileName"`
	Rows         []ValidatedRow `json:"rows"`
	ValidCount   int            `json:"validCount"`
	InvalidCount int            `json:"invalidCount"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// ImportRun is the persisted record of a confirmed import.
type ImportRun struct {
	ID           string    `json:"id"`
	SchoolID     string    `json:"schoolId"`
	ProfileKey   string    `json:"profile"`
	FileName     string    `json:"fileName"`
	SuccessCount int       `json:"successCount"`
	FailedCount  int       `json:"failedCount"`
	StartedAt    time.Time `json:"startedAt"`
	DurationMs   int64     `json:"durationMs"`
}

// RowStore persists validated rows one at a time.
type RowStore interface {
	InsertRow(ctx context.Context, schoolID, profileKey string, row ValidatedRow) error
}

// RunRecorder keeps the history of confirmed imports.
type RunRecorder interface {
	RecordRun(ctx context.Context, run ImportRun) error
	ListRuns(ctx context.Context, schoolID string, limit int) ([]ImportRun, error)
}
