// Package store persists imported rows and import history in PostgreSQL.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/rosterimport/internal/core"
	"github.com/jackc/pgx/v5/pgtype"
)

const schema = `
CREATE TABLE IF NOT EXISTS students (
    id            BIGSERIAL PRIMARY KEY,
    school_id     TEXT NOT NULL,
    full_name     TEXT NOT NULL,
    email         TEXT,
    phone         TEXT NOT NULL,
    date_of_birth DATE,
    gender        TEXT,
    grade         TEXT,
    parent_name   TEXT,
    parent_email  TEXT,
    parent_phone  TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (school_id, full_name, phone)
);

CREATE TABLE IF NOT EXISTS roster_members (
    id          BIGSERIAL PRIMARY KEY,
    school_id   TEXT NOT NULL,
    name        TEXT NOT NULL,
    parent      TEXT NOT NULL,
    phone       TEXT NOT NULL,
    monthly_fee BIGINT NOT NULL CHECK (monthly_fee > 0),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (school_id, name, parent)
);

CREATE TABLE IF NOT EXISTS import_runs (
    id            UUID PRIMARY KEY,
    school_id     TEXT NOT NULL,
    profile       TEXT NOT NULL,
    file_name     TEXT NOT NULL,
    success_count INTEGER NOT NULL,
    failed_count  INTEGER NOT NULL,
    started_at    TIMESTAMPTZ NOT NULL,
    duration_ms   BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS import_runs_school_started_idx
    ON import_runs (school_id, started_at DESC);
`

const insertStudentSQL = `
INSERT INTO students (
    school_id, full_name, email, phone, date_of_birth, gender, grade,
    parent_name, parent_email, parent_phone
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const insertRosterMemberSQL = `
INSERT INTO roster_members (school_id, name, parent, phone, monthly_fee)
VALUES ($1, $2, $3, $4, $5)`

const insertRunSQL = `
INSERT INTO import_runs (
    id, school_id, profile, file_name, success_count, failed_count,
    started_at, duration_ms
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const listRunsSQL = `
SELECT id, school_id, profile, file_name, success_count, failed_count,
       started_at, duration_ms
FROM import_runs
WHERE school_id = $1
ORDER BY started_at DESC
LIMIT $2`

// rowInserter writes one validated row of a profile.
type rowInserter func(ctx context.Context, db core.DBTX, schoolID string, row core.ValidatedRow) error

var inserters = map[string]rowInserter{
	"students": insertStudent,
	"roster":   insertRosterMember,
}

// Postgres implements core.RowStore and core.RunRecorder.
type Postgres struct {
	db core.DBTX
}

// NewPostgres creates a store on top of a pool or transaction.
func NewPostgres(db core.DBTX) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the tables if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Supports reports whether rows of the profile can be stored.
func (p *Postgres) Supports(profileKey string) bool {
	_, ok := inserters[profileKey]
	return ok
}

// InsertRow writes one validated row.
func (p *Postgres) InsertRow(ctx context.Context, schoolID, profileKey string, row core.ValidatedRow) error {
	insert, ok := inserters[profileKey]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownProfile, profileKey)
	}
	if err := insert(ctx, p.db, schoolID, row); err != nil {
		return fmt.Errorf("insert %s row %d: %w", profileKey, row.Line, err)
	}
	return nil
}

func insertStudent(ctx context.Context, db core.DBTX, schoolID string, row core.ValidatedRow) error {
	_, err := db.Exec(ctx, insertStudentSQL,
		schoolID,
		ToPgText(row.Value("full_name")),
		ToPgLower(row.Value("email")),
		ToPgPhone(row.Value("phone")),
		ToPgDate(row.Value("date_of_birth")),
		ToPgText(row.Value("gender")),
		ToPgText(row.Value("grade")),
		ToPgText(row.Value("parent_name")),
		ToPgLower(row.Value("parent_email")),
		ToPgPhone(row.Value("parent_phone")),
	)
	return err
}

func insertRosterMember(ctx context.Context, db core.DBTX, schoolID string, row core.ValidatedRow) error {
	_, err := db.Exec(ctx, insertRosterMemberSQL,
		schoolID,
		ToPgText(row.Value("name")),
		ToPgText(row.Value("parent")),
		ToPgPhone(row.Value("phone")),
		ToPgAmount(row.Value("monthly_fee")),
	)
	return err
}

// RecordRun stores the outcome of a confirmed import.
func (p *Postgres) RecordRun(ctx context.Context, run core.ImportRun) error {
	_, err := p.db.Exec(ctx, insertRunSQL,
		ToPgUUID(run.ID),
		run.SchoolID,
		run.ProfileKey,
		run.FileName,
		run.SuccessCount,
		run.FailedCount,
		run.StartedAt,
		run.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("record import run: %w", err)
	}
	return nil
}

// ListRuns returns the latest runs for a school, newest first.
func (p *Postgres) ListRuns(ctx context.Context, schoolID string, limit int) ([]core.ImportRun, error) {
	rows, err := p.db.Query(ctx, listRunsSQL, schoolID, limit)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	defer rows.Close()

	runs := make([]core.ImportRun, 0, limit)
	for rows.Next() {
		var (
			id        pgtype.UUID
			run       core.ImportRun
			startedAt time.Time
		)
		if err := rows.Scan(
			&id,
			&run.SchoolID,
			&run.ProfileKey,
			&run.FileName,
			&run.SuccessCount,
			&run.FailedCount,
			&startedAt,
			&run.DurationMs,
		); err != nil {
			return nil, fmt.Errorf("scan import run: %w", err)
		}
		run.ID = PgUUIDToString(id)
		run.StartedAt = startedAt
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	return runs, nil
}
