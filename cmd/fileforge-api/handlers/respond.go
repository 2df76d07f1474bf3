// Package handlers provides HTTP handlers for the fileforge API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fileforge/fileforge/internal/artifact"
	"github.com/fileforge/fileforge/internal/domain"
)

// ConversionResponseDTO is the response for successful conversion and
// compression calls. The artifact is fetched in a second request via
// DownloadURL.
type ConversionResponseDTO struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	Message     string `json:"message"`
	DownloadURL string `json:"download_url"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses:
// validation, size and type failures are the client's fault (400), absent
// artifacts are 404, everything else is a converter failure (500).
func writeDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, artifact.ErrNotFound) {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	var de *domain.DomainError
	if !errors.As(err, &de) {
		writeError(w, http.StatusInternalServerError, "conversion failed: "+err.Error())
		return
	}

	switch de.Type {
	case domain.ErrorTypeValidation, domain.ErrorTypeTooLarge, domain.ErrorTypeUnsupported:
		writeError(w, http.StatusBadRequest, de.Message)
	case domain.ErrorTypeNotFound:
		writeError(w, http.StatusNotFound, de.Message)
	default:
		writeError(w, http.StatusInternalServerError, de.Message)
	}
}
