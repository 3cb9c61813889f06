package core

import (
	"context"
	"errors"
	"regexp"
	"sync"
)

// studentsFixture mirrors the students profile without depending on the
// profiles package, which imports core.
func studentsFixture() Profile {
	return Profile{
		Key:   "students",
		Label: "Students",
		Fields: []FieldSpec{
			{Name: "full_name", Label: "Full name", Required: true,
				Aliases: []string{"full name", "name", "nombre completo", "nombre"},
				Rule:    Rule{Kind: RuleText, MinLen: 2, MaxLen: 100}},
			{Name: "email", Label: "Email",
				Aliases: []string{"email", "correo"},
				Rule:    Rule{Kind: RuleEmail, Optional: true}},
			{Name: "phone", Label: "Phone", Required: true,
				Aliases: []string{"phone", "telefono", "celular"},
				Rule:    Rule{Kind: RulePhone}},
			{Name: "date_of_birth", Label: "Date of birth",
				Aliases: []string{"date of birth", "fecha de nacimiento"},
				Rule:    Rule{Kind: RuleDate, Optional: true}},
			{Name: "gender", Label: "Gender",
				Aliases: []string{"gender", "genero"},
				Rule:    Rule{Kind: RuleEnum, Optional: true, EnumValues: []string{"M", "F", "Other"}}},
			{Name: "grade", Label: "Grade",
				Aliases: []string{"grade", "grado"},
				Rule: Rule{Kind: RuleText, Optional: true, MinLen: 1, MaxLen: 20,
					Pattern: regexp.MustCompile(`^[0-9]{1,2} ?[A-Za-z]?$`), PatternHint: "6A or 11"}},
		},
		Example: [][]string{
			{"Juan Pérez", "juan@example.com", "3001234567", "2012-04-18", "M", "6A"},
		},
	}
}

func rosterFixture() Profile {
	return Profile{
		Key:   "roster",
		Label: "Roster and fees",
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Required: true,
				Aliases: []string{"name", "nombre"},
				Rule:    Rule{Kind: RuleText}},
			{Name: "parent", Label: "Parent", Required: true,
				Aliases: []string{"parent", "acudiente"},
				Rule:    Rule{Kind: RuleText}},
			{Name: "phone", Label: "Phone", Required: true,
				Aliases: []string{"phone", "telefono"},
				Rule:    Rule{Kind: RulePhone}},
			{Name: "monthly_fee", Label: "Monthly fee", Required: true,
				Aliases: []string{"monthly fee", "mensualidad"},
				Rule:    Rule{Kind: RuleMoney, Ceiling: DefaultFeeCeiling}},
		},
	}
}

// registerFixtures replaces the registry contents for one test.
func registerFixtures(t interface{ Cleanup(func()) }) {
	Clear()
	Register(studentsFixture())
	Register(rosterFixture())
	t.Cleanup(Clear)
}

// fakeStore records inserted rows. Rows whose line is in failLines are
// rejected with failErr. When block is set, each insert waits for it to be
// closed and signals entered first.
type fakeStore struct {
	mu        sync.Mutex
	rows      []ValidatedRow
	schools   []string
	attempts  int
	failLines map[int]bool
	failErr   error
	block     chan struct{}
	entered   chan struct{}
	waitCtx   bool
}

func (f *fakeStore) InsertRow(ctx context.Context, schoolID, _ string, row ValidatedRow) error {
	f.mu.Lock()
	f.attempts++
	f.mu.Unlock()

	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.block != nil {
		<-f.block
	}
	if f.waitCtx {
		<-ctx.Done()
		return ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failLines[row.Line] {
		err := f.failErr
		if err == nil {
			err = errors.New("insert failed")
		}
		return err
	}
	f.rows = append(f.rows, row)
	f.schools = append(f.schools, schoolID)
	return nil
}

func (f *fakeStore) saved() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

type fakeRecorder struct {
	mu   sync.Mutex
	runs []ImportRun
	err  error
}

func (f *fakeRecorder) RecordRun(_ context.Context, run ImportRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRecorder) ListRuns(_ context.Context, schoolID string, limit int) ([]ImportRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ImportRun
	for i := len(f.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.runs[i].SchoolID == schoolID {
			out = append(out, f.runs[i])
		}
	}
	return out, nil
}
