package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/fileforge/fileforge/internal/artifact"
	"github.com/fileforge/fileforge/internal/compress"
	"github.com/fileforge/fileforge/internal/domain"
	"github.com/fileforge/fileforge/internal/observability"
)

// CompressHandler handles generic lossy compression requests.
type CompressHandler struct {
	logger   *observability.Logger
	service  *compress.Service
	registry artifact.Store
	maxBytes int64
}

// NewCompressHandler creates a compression handler.
func NewCompressHandler(logger *observability.Logger, service *compress.Service, registry artifact.Store, maxBytes int64) *CompressHandler {
	return &CompressHandler{
		logger:   logger,
		service:  service,
		registry: registry,
		maxBytes: maxBytes,
	}
}

// Compress handles POST /compress.
func (h *CompressHandler) Compress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("file exceeds the %d MB compression limit", h.maxBytes>>20))
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	percentStr := r.FormValue("percent")
	if percentStr == "" {
		writeError(w, http.StatusBadRequest, "form field 'percent' is required")
		return
	}
	percent, err := strconv.Atoi(percentStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "percent must be an integer between 0 and 100")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("file exceeds the %d MB compression limit", h.maxBytes>>20))
			return
		}
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}
	if int64(len(content)) > h.maxBytes {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("file exceeds the %d MB compression limit", h.maxBytes>>20))
		return
	}

	out, mediaType, err := h.service.Compress(ctx, content, header.Header.Get("Content-Type"), percent)
	if err != nil {
		h.logger.WithOperation("compress").Error().Err(err).Msg("Compression failed")
		writeDomainError(w, err)
		return
	}

	ext := domain.ExtByMedia[mediaType]
	if ext == "" {
		ext = "bin"
	}
	filename := fmt.Sprintf("%s_compressed.%s", domain.BaseName(header.Filename), ext)

	id, err := h.registry.Put(ctx, out, mediaType, filename)
	if err != nil {
		h.logger.Error().Err(err).Msg("Artifact registration failed")
		writeError(w, http.StatusInternalServerError, "failed to store compression result")
		return
	}

	h.logger.WithOperation("compress").Info().
		Str("artifact_id", id).
		Str("filename", filename).
		Int("in_bytes", len(content)).
		Int("out_bytes", len(out)).
		Msg("Compression stored")

	writeJSON(w, http.StatusOK, ConversionResponseDTO{
		FileID:      id,
		Filename:    filename,
		Message:     "compression successful",
		DownloadURL: "/api/v1/artifact/" + id,
	})
}
