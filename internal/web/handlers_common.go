package web

// handlers_common.go contains shared helpers used across handlers.

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// maxHistoryLimit caps the limit query parameter of the history endpoint.
const maxHistoryLimit = 100

// multipartOverhead is allowed on top of the file size limit for the
// multipart envelope and form fields.
const multipartOverhead = 1 << 20

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// urlParam returns a required chi path parameter.
func urlParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if v == "" {
		return "", fmt.Errorf("%w: %s", errMissingParam, name)
	}
	return v, nil
}

// setAttachment marks the response as a CSV download.
func setAttachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}
