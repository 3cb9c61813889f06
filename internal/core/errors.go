package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed errors below match them through errors.Is.
var (
	ErrEmptyFile        = errors.New("empty file")
	ErrMissingColumns   = errors.New("missing required column")
	ErrNoValidRows      = errors.New("no valid rows")
	ErrUnknownProfile   = errors.New("unknown profile")
	ErrPreviewNotFound  = errors.New("preview not found")
	ErrImportInProgress = errors.New("import already in progress")
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnsupportedFile  = errors.New("unsupported file type")
	ErrUnreadableFile   = errors.New("unreadable spreadsheet")
	ErrSchoolRequired   = errors.New("school id is required")
)

// EmptyFileError reports a file without at least one data row.
type EmptyFileError struct {
	NonEmptyLines int
}

func (e *EmptyFileError) Error() string {
	if e.NonEmptyLines == 1 {
		return "empty file: only a header row was found, add at least one data row"
	}
	return "empty file: the file has no header or data rows"
}

func (e *EmptyFileError) Is(target error) bool { return target == ErrEmptyFile }

// MissingColumnsError lists required fields the header could not supply.
type MissingColumnsError struct {
	Fields []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Fields, ", "))
}

func (e *MissingColumnsError) Is(target error) bool { return target == ErrMissingColumns }

// NoValidRowsError is returned when every row failed validation; nothing is
// sent to the store.
type NoValidRowsError struct {
	InvalidRows int
}

func (e *NoValidRowsError) Error() string {
	return fmt.Sprintf("no valid rows to import: all %d rows failed validation", e.InvalidRows)
}

func (e *NoValidRowsError) Is(target error) bool { return target == ErrNoValidRows }
