package core

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/JonMunkholm/rosterimport/internal/logging"
	"github.com/google/uuid"
)

// Service defaults, used when the matching Options field is zero.
const (
	DefaultMaxFileSize   = 10 << 20
	DefaultImportTimeout = 2 * time.Minute
	DefaultPreviewTTL    = 30 * time.Minute
	DefaultHistoryLimit  = 20
)

// Options tunes a Service.
type Options struct {
	MaxFileSize   int64         // Largest accepted upload in bytes
	MaxConcurrent int           // Imports writing to the store at once
	MaxWaitTime   time.Duration // How long a confirm waits for a slot
	Timeout       time.Duration // Upper bound on the persistence phase
	PreviewTTL    time.Duration // How long an unconfirmed preview is kept
}

func (o Options) withDefaults() Options {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultImportTimeout
	}
	if o.PreviewTTL <= 0 {
		o.PreviewTTL = DefaultPreviewTTL
	}
	return o
}

// Service runs the import flow: upload and validate into a preview, then
// confirm to persist the valid rows.
type Service struct {
	store   RowStore
	runs    RunRecorder
	limiter *ImportLimiter
	opts    Options

	mu       sync.Mutex
	previews map[string]*pendingPreview
}

type pendingPreview struct {
	preview *Preview
	expiry  *time.Timer
}

// NewService creates a Service. runs may be nil, in which case import
// history is not kept.
func NewService(store RowStore, runs RunRecorder, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		store:    store,
		runs:     runs,
		limiter:  NewImportLimiter(opts.MaxConcurrent, opts.MaxWaitTime),
		opts:     opts,
		previews: make(map[string]*pendingPreview),
	}
}

// Profiles returns all registered import profiles.
func (s *Service) Profiles() []Profile {
	return All()
}

// Profile returns the profile registered under key.
func (s *Service) Profile(key string) (Profile, error) {
	p, ok := Get(key)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, key)
	}
	return p, nil
}

// CreatePreview parses and validates an uploaded file and keeps the result
// until it is confirmed, discarded, or expires. Structural problems (empty
// file, missing columns, unreadable spreadsheet) are returned as errors and
// no preview is created.
func (s *Service) CreatePreview(ctx context.Context, schoolID, profileKey, fileName string, data []byte) (*Preview, error) {
	if schoolID == "" {
		return nil, ErrSchoolRequired
	}

	profile, err := s.Profile(profileKey)
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > s.opts.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(data), s.opts.MaxFileSize)
	}

	text, err := ReadUpload(fileName, data)
	if err != nil {
		return nil, err
	}

	parsed, err := Parse(text, profile)
	if err != nil {
		return nil, err
	}

	rows := ValidateAll(parsed, profile)
	valid, invalid := Partition(rows)

	preview := &Preview{
		ID:           uuid.New().String(),
		SchoolID:     schoolID,
		ProfileKey:   profile.Key,
		FileName:     fileName,
		Rows:         rows,
		ValidCount:   len(valid),
		InvalidCount: len(invalid),
		CreatedAt:    time.Now(),
	}

	s.mu.Lock()
	s.previews[preview.ID] = &pendingPreview{
		preview: preview,
		expiry:  time.AfterFunc(s.opts.PreviewTTL, func() { s.dropPreview(preview.ID) }),
	}
	s.mu.Unlock()

	logging.WithFields(ctx,
		"preview_id", preview.ID,
		"school_id", schoolID,
		"profile", profile.Key,
	).Info("preview created",
		"file", fileName,
		"rows", len(rows),
		"valid", preview.ValidCount,
		"invalid", preview.InvalidCount,
	)

	return preview, nil
}

// GetPreview returns a pending preview.
func (s *Service) GetPreview(previewID string) (*Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.previews[previewID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPreviewNotFound, previewID)
	}
	return p.preview, nil
}

// DiscardPreview forgets a pending preview. An import already running for
// it is not interrupted.
func (s *Service) DiscardPreview(previewID string) error {
	if !s.dropPreview(previewID) {
		return fmt.Errorf("%w: %s", ErrPreviewNotFound, previewID)
	}
	return nil
}

func (s *Service) dropPreview(previewID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.previews[previewID]
	if !ok {
		return false
	}
	p.expiry.Stop()
	delete(s.previews, previewID)
	return true
}

// ConfirmImport persists the valid rows of a preview and consumes it.
//
// A second confirm for the same preview while the first is running fails
// with ErrImportInProgress. The persistence phase is detached from ctx:
// once rows start going to the store, a disconnected client does not stop
// them. It is bounded by Options.Timeout instead, and rows not reached in
// time are reported as failed.
//
// When every row is invalid the result carries the validation errors and
// the error is *NoValidRowsError; the store is never called.
func (s *Service) ConfirmImport(ctx context.Context, previewID string) (ImportResult, error) {
	preview, err := s.GetPreview(previewID)
	if err != nil {
		return ImportResult{}, err
	}

	if err := s.limiter.Acquire(ctx, previewID); err != nil {
		return ImportResult{}, err
	}
	defer s.limiter.Release(previewID)

	// The preview may have been discarded or expired while waiting for a slot.
	if _, err := s.GetPreview(previewID); err != nil {
		return ImportResult{}, err
	}

	req := RequesterFromContext(ctx)
	log := logging.WithFields(ctx,
		"preview_id", previewID,
		"school_id", preview.SchoolID,
		"profile", preview.ProfileKey,
		"ip", req.IP,
	)

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.Timeout)
	defer cancel()

	started := time.Now()
	result, err := Reconcile(persistCtx, s.store, preview.SchoolID, preview.ProfileKey, preview.Rows)
	s.dropPreview(previewID)

	if err != nil {
		log.Warn("import rejected", "error", err)
		return result, err
	}

	elapsed := time.Since(started)
	log.Info("import completed",
		"file", preview.FileName,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"duration_ms", elapsed.Milliseconds(),
	)

	if err := s.recordRun(persistCtx, preview, result, started, elapsed); err != nil {
		// History is informational; the rows are already saved.
		log.Error("record import run failed", "error", err)
	}

	return result, nil
}

func (s *Service) recordRun(ctx context.Context, p *Preview, result ImportResult, started time.Time, elapsed time.Duration) error {
	if s.runs == nil {
		return nil
	}

	run := ImportRun{
		ID:           uuid.New().String(),
		SchoolID:     p.SchoolID,
		ProfileKey:   p.ProfileKey,
		FileName:     p.FileName,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
		StartedAt:    started,
		DurationMs:   elapsed.Milliseconds(),
	}

	return s.runs.RecordRun(ctx, run)
}

// ExportInvalidRows writes the invalid rows of a preview as CSV.
func (s *Service) ExportInvalidRows(w io.Writer, preview *Preview) error {
	profile, err := s.Profile(preview.ProfileKey)
	if err != nil {
		return err
	}
	return WriteInvalidRows(w, profile, preview.Rows)
}

// History lists recent imports for a school, newest first.
func (s *Service) History(ctx context.Context, schoolID string, limit int) ([]ImportRun, error) {
	if s.runs == nil {
		return []ImportRun{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	runs, err := s.runs.ListRuns(ctx, schoolID, limit)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	return runs, nil
}

// PendingPreviews returns the number of previews awaiting confirmation.
func (s *Service) PendingPreviews() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.previews)
}

// LimiterStatus reports import slot usage.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Close drops all pending previews.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.previews {
		p.expiry.Stop()
		delete(s.previews, id)
	}
}
