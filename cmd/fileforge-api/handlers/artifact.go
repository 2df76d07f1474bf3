package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fileforge/fileforge/internal/artifact"
	"github.com/fileforge/fileforge/internal/observability"
)

// ArtifactHandler resolves artifact ids and streams the stored bytes.
type ArtifactHandler struct {
	logger   *observability.Logger
	registry artifact.Store
}

// NewArtifactHandler creates an artifact retrieval handler.
func NewArtifactHandler(logger *observability.Logger, registry artifact.Store) *ArtifactHandler {
	return &ArtifactHandler{logger: logger, registry: registry}
}

// Get handles GET /artifact/{fileId}. Retrieval is repeatable: the same
// id streams identical bytes until the artifact expires. Malformed ids
// fall through the registry lookup and 404 like unknown ones.
func (h *ArtifactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "fileId")

	art, err := h.registry.Get(r.Context(), id)
	if err != nil {
		// Only a confirmed absence is a 404; a backend failure must not
		// masquerade as a missing file.
		if errors.Is(err, artifact.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		h.logger.Error().Err(err).Str("artifact_id", id).Msg("Registry lookup failed")
		writeError(w, http.StatusInternalServerError, "artifact retrieval failed")
		return
	}

	w.Header().Set("Content-Type", art.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(art.Content)))
	io.Copy(w, bytes.NewReader(art.Content))
}
