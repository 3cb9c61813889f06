package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/rosterimport/internal/core"
	"github.com/JonMunkholm/rosterimport/internal/logging"
)

// maxFormMemory is how much of a multipart upload is buffered in memory;
// the rest spills to temporary files.
const maxFormMemory = 32 << 20

// PreviewResponse is a validated upload awaiting confirmation.
type PreviewResponse struct {
	*core.Preview
	ExpiresAt      time.Time `json:"expiresAt"`
	ConfirmURL     string    `json:"confirmUrl"`
	InvalidRowsURL string    `json:"invalidRowsUrl,omitempty"`
}

// ConfirmResponse carries the full result and its display summary.
type ConfirmResponse struct {
	Result  core.ImportResult  `json:"result"`
	Summary core.ResultSummary `json:"summary"`
}

func (s *Server) previewResponse(p *core.Preview) PreviewResponse {
	resp := PreviewResponse{
		Preview:    p,
		ExpiresAt:  p.CreatedAt.Add(s.cfg.Import.PreviewTTL),
		ConfirmURL: "/api/imports/" + p.ID + "/confirm",
	}
	if p.InvalidCount > 0 {
		resp.InvalidRowsURL = "/api/imports/" + p.ID + "/invalid.csv"
	}
	return resp
}

// handlePreview validates an uploaded file and keeps it for confirmation.
// Structural problems (empty file, missing columns) are answered with 422
// and nothing is kept.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	schoolID, err := urlParam(r, "schoolID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	profileKey, err := urlParam(r, "profile")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		s.respondError(w, r, formError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errNoFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	preview, err := s.service.CreatePreview(r.Context(), schoolID, profileKey, header.Filename, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, s.previewResponse(preview))
}

// formError classifies a multipart parsing failure.
func formError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large") {
		return fmt.Errorf("%w: %v", core.ErrFileTooLarge, err)
	}
	return fmt.Errorf("%w: %v", errInvalidForm, err)
}

// handleGetPreview returns a pending preview.
func (s *Server) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	previewID, err := urlParam(r, "previewID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	preview, err := s.service.GetPreview(previewID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, s.previewResponse(preview))
}

// handleConfirm imports the valid rows of a preview.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	previewID, err := urlParam(r, "previewID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.ConfirmImport(r.Context(), previewID)
	if err != nil {
		if errors.Is(err, core.ErrNoValidRows) {
			s.respondErrorDetails(w, r, err, ConfirmResponse{
				Result:  result,
				Summary: result.Summary(core.DefaultErrorDisplayLimit),
			})
			return
		}
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ConfirmResponse{
		Result:  result,
		Summary: result.Summary(core.DefaultErrorDisplayLimit),
	})
}

// handleDiscard drops a pending preview.
func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	previewID, err := urlParam(r, "previewID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.service.DiscardPreview(previewID); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleInvalidRows exports the rows of a preview that failed validation.
func (s *Server) handleInvalidRows(w http.ResponseWriter, r *http.Request) {
	previewID, err := urlParam(r, "previewID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	preview, err := s.service.GetPreview(previewID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	setAttachment(w, fmt.Sprintf("invalid_%s_%s.csv", preview.ProfileKey, preview.CreatedAt.Format("20060102_150405")))
	if err := s.service.ExportInvalidRows(w, preview); err != nil {
		logging.FromContext(r.Context()).Error("export invalid rows failed", "preview_id", previewID, "error", err)
	}
}

// handleImportHistory lists recent imports for a school.
func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	schoolID, err := urlParam(r, "schoolID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	limit := min(parseIntParam(r, "limit", s.cfg.Import.HistoryLimit), maxHistoryLimit)
	runs, err := s.service.History(r.Context(), schoolID, limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, runs)
}
