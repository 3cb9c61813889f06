package web

import (
	"net/http"

	"github.com/JonMunkholm/rosterimport/internal/core"
	"github.com/JonMunkholm/rosterimport/internal/logging"
)

// FieldInfo describes one column of a profile for clients.
type FieldInfo struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Optional bool     `json:"optional"`
	Aliases  []string `json:"aliases"`
}

// ProfileInfo describes an import profile for clients.
type ProfileInfo struct {
	Key         string      `json:"key"`
	Label       string      `json:"label"`
	Fields      []FieldInfo `json:"fields"`
	TemplateURL string      `json:"templateUrl"`
}

func profileInfo(p core.Profile) ProfileInfo {
	fields := make([]FieldInfo, len(p.Fields))
	for i, f := range p.Fields {
		fields[i] = FieldInfo{
			Name:     f.Name,
			Label:    f.Label,
			Required: f.Required,
			Optional: f.Rule.Optional,
			Aliases:  f.Aliases,
		}
	}
	return ProfileInfo{
		Key:         p.Key,
		Label:       p.Label,
		Fields:      fields,
		TemplateURL: "/api/profiles/" + p.Key + "/template",
	}
}

// HealthResponse reports liveness and import load.
type HealthResponse struct {
	Status          string                   `json:"status"`
	Imports         core.ImportLimiterStatus `json:"imports"`
	PendingPreviews int                      `json:"pendingPreviews"`
}

// handleHealth reports that the server is up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:          "ok",
		Imports:         s.service.LimiterStatus(),
		PendingPreviews: s.service.PendingPreviews(),
	})
}

// handleListProfiles returns all import profiles.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := s.service.Profiles()
	infos := make([]ProfileInfo, len(profiles))
	for i, p := range profiles {
		infos[i] = profileInfo(p)
	}
	writeJSON(w, http.StatusOK, infos)
}

// handleDownloadTemplate serves the CSV template of a profile.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	key, err := urlParam(r, "profile")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	profile, err := s.service.Profile(key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	setAttachment(w, core.TemplateFileName(profile))
	if err := core.WriteTemplate(w, profile); err != nil {
		// Headers are sent; all we can do is log.
		logging.FromContext(r.Context()).Error("write template failed", "profile", key, "error", err)
	}
}
