package core

// reconciler.go submits valid rows to the RowStore and folds every failure,
// validation or persistence, into one ImportResult.
//
// Submission is best-effort per row: each valid row is inserted on its own
// and a failure never prevents the following rows from being attempted.
// Nothing is retried and invalid rows are never touched; the user fixes them
// in the spreadsheet and uploads again.

import (
	"context"
	"sort"
)

// interruptedMessage is reported for valid rows that were never sent because
// the import context ended first.
const interruptedMessage = "Row was not saved because the import was interrupted. Upload the file again to retry."

// Partition splits rows into valid and invalid sets, preserving order.
func Partition(rows []ValidatedRow) (valid, invalid []ValidatedRow) {
	for _, r := range rows {
		if r.Valid {
			valid = append(valid, r)
		} else {
			invalid = append(invalid, r)
		}
	}
	return valid, invalid
}

// Reconcile persists the valid rows and builds the result.
//
// When no row is valid it returns *NoValidRowsError without calling the
// store; the returned result still carries the validation errors.
func Reconcile(ctx context.Context, store RowStore, schoolID, profileKey string, rows []ValidatedRow) (ImportResult, error) {
	valid, invalid := Partition(rows)

	result := ImportResult{
		FailedCount: len(invalid),
		Errors:      make([]RowError, 0, len(invalid)),
	}
	for _, r := range invalid {
		for _, msg := range r.Errors {
			result.Errors = append(result.Errors, RowError{Line: r.Line, Message: msg})
		}
	}

	if len(valid) == 0 {
		return result, &NoValidRowsError{InvalidRows: len(invalid)}
	}

	for _, r := range valid {
		if ctx.Err() != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, RowError{Line: r.Line, Message: interruptedMessage})
			continue
		}

		if err := store.InsertRow(ctx, schoolID, profileKey, r); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, RowError{Line: r.Line, Message: FormatUserError(err)})
			continue
		}
		result.SuccessCount++
	}

	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Line < result.Errors[j].Line
	})

	return result, nil
}
