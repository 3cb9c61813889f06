package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is:
//   - Logged with full technical details and the request ID (server-side)
//   - Returned to the client as a JSON UserMessage with an action and code
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls s.respondError(w, r, err)
//  3. statusFor picks the HTTP status from the error's identity
//  4. core.MapError picks the user-facing message
//  5. Structural errors attach details (missing columns, validation errors)

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/rosterimport/internal/core"
	"github.com/JonMunkholm/rosterimport/internal/logging"
)

var (
	errRateLimited  = errors.New("rate limit exceeded")
	errNoFile       = errors.New("no file provided")
	errInvalidForm  = errors.New("invalid multipart form")
	errMissingParam = errors.New("missing path parameter")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// MissingColumnsDetails lists required fields absent from the header.
type MissingColumnsDetails struct {
	MissingColumns []string `json:"missingColumns"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes), errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, core.ErrEmptyFile),
		errors.Is(err, core.ErrUnreadableFile),
		errors.Is(err, core.ErrMissingColumns),
		errors.Is(err, core.ErrNoValidRows):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrUnknownProfile), errors.Is(err, core.ErrPreviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrImportInProgress):
		return http.StatusConflict
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errNoFile), errors.Is(err, errInvalidForm), errors.Is(err, errMissingParam),
		errors.Is(err, core.ErrSchoolRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes its user-facing JSON form.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	s.respondErrorDetails(w, r, err, nil)
}

// respondErrorDetails is respondError with extra payload for the client.
func (s *Server) respondErrorDetails(w http.ResponseWriter, r *http.Request, err error, details any) {
	status := statusFor(err)

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		err = core.ErrFileTooLarge
	}
	msg := core.MapError(err)

	var missing *core.MissingColumnsError
	if details == nil && errors.As(err, &missing) {
		details = MissingColumnsDetails{MissingColumns: missing.Fields}
	}

	log := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		log.Error("request error", attrs...)
	} else {
		log.Warn("request rejected", attrs...)
	}

	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Details: details,
	})
}

// respondMessage writes a UserMessage without an underlying error, for
// middleware that rejects requests on its own.
func respondMessage(w http.ResponseWriter, r *http.Request, status int, msg core.UserMessage) {
	logging.FromContext(r.Context()).Warn("request rejected",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", msg.Code,
	)
	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}
