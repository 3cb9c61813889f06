package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "duplicate key maps correctly",
			err:         errors.New(`ERROR: duplicate key value violates unique constraint "students_school_id_full_name_key" (SQLSTATE 23505)`),
			wantCode:    "DB001",
			wantMessage: "This person is already on the roster",
		},
		{
			name:        "unique constraint maps correctly",
			err:         errors.New("insert violates unique index"),
			wantCode:    "DB001",
			wantMessage: "This person is already on the roster",
		},
		{
			name:        "foreign key maps correctly",
			err:         errors.New("violates foreign key constraint"),
			wantCode:    "DB002",
			wantMessage: "The school for this import no longer exists",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantCode:    "DB004",
			wantMessage: "The roster service is unavailable",
		},
		{
			name:        "deadline maps to request timeout",
			err:         fmt.Errorf("insert row: %w", context.DeadlineExceeded),
			wantCode:    "REQ002",
			wantMessage: "The request took too long",
		},
		{
			name:        "file too large maps correctly",
			err:         fmt.Errorf("%w: 12MB exceeds 10MB", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "The file is larger than the upload limit",
		},
		{
			name:        "missing columns maps to validation code",
			err:         &MissingColumnsError{Fields: []string{"phone"}},
			wantCode:    "VAL001",
			wantMessage: "Required columns are missing from the header",
		},
		{
			name:        "no valid rows maps to validation code",
			err:         &NoValidRowsError{InvalidRows: 3},
			wantCode:    "VAL002",
			wantMessage: "Every row in the file has errors so nothing was imported",
		},
		{
			name:        "import in progress maps to import code",
			err:         ErrImportInProgress,
			wantCode:    "IMP001",
			wantMessage: "This file is already being imported",
		},
		{
			name:        "too many imports maps to import code",
			err:         ErrTooManyImports,
			wantCode:    "IMP002",
			wantMessage: "The system is busy processing other imports",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "REQ003",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("DUPLICATE KEY value violates"),
			wantCode:    "DB001",
			wantMessage: "This person is already on the roster",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestMapError_SchoolRequired(t *testing.T) {
	got := MapError(ErrSchoolRequired)
	assert.Equal(t, "REQ004", got.Code)
}

func TestFormatUserError(t *testing.T) {
	err := errors.New("duplicate key value violates")

	assert.Equal(t,
		"This person is already on the roster (Code: DB001). Remove the row or update the existing record instead.",
		FormatUserError(err))
	assert.Empty(t, FormatUserError(nil))
}

func TestErrorMessagesHaveNoCommas(t *testing.T) {
	for _, ep := range errorPatterns {
		assert.NotContains(t, ep.msg.Message, ",", ep.pattern)
		assert.NotContains(t, ep.msg.Action, ",", ep.pattern)
	}
}
