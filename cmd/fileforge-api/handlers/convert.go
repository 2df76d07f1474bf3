package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fileforge/fileforge/internal/artifact"
	"github.com/fileforge/fileforge/internal/bundle"
	"github.com/fileforge/fileforge/internal/convert"
	"github.com/fileforge/fileforge/internal/domain"
	"github.com/fileforge/fileforge/internal/observability"
)

// multipartOverhead is slack added to the route byte ceiling to cover
// multipart framing before the exact size check runs on the file itself.
const multipartOverhead = 1 << 20

// ConvertHandler handles the two-phase conversion flow: convert and
// register, then hand back an id for retrieval.
type ConvertHandler struct {
	logger   *observability.Logger
	engine   *convert.Engine
	registry artifact.Store
}

// NewConvertHandler creates a conversion handler.
func NewConvertHandler(logger *observability.Logger, engine *convert.Engine, registry artifact.Store) *ConvertHandler {
	return &ConvertHandler{
		logger:   logger,
		engine:   engine,
		registry: registry,
	}
}

// Convert handles POST /convert/{pair}.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pair := chi.URLParam(r, "pair")
	route, ok := h.engine.Route(pair)
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported conversion pair "+pair)
		return
	}

	// Cut oversized uploads off at the socket instead of buffering them.
	r.Body = http.MaxBytesReader(w, r.Body, route.MaxBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "file exceeds the size limit for this route")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "file exceeds the size limit for this route")
			return
		}
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	opts := convert.Options{OutputFormat: r.FormValue("output_format")}
	declaredType := header.Header.Get("Content-Type")

	// Resolve the output target first so a bad output_format fails
	// before any conversion work runs.
	mediaType, ext, err := route.Target(opts)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	output, route, err := h.engine.Convert(ctx, pair, content, declaredType, opts)
	if err != nil {
		h.logger.WithRoute(pair).Error().Err(err).Msg("Conversion failed")
		writeDomainError(w, err)
		return
	}

	base := domain.BaseName(header.Filename)
	var result *bundle.Result
	if route.Paged {
		result, err = bundle.Pages(output.Pages, base, ext, mediaType)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	} else {
		result = bundle.Single(output.Pages[0], base, ext, mediaType)
	}

	id, err := h.registry.Put(ctx, result.Content, result.MediaType, result.Filename)
	if err != nil {
		h.logger.Error().Err(err).Msg("Artifact registration failed")
		writeError(w, http.StatusInternalServerError, "failed to store conversion result")
		return
	}

	h.logger.WithRoute(pair).Info().
		Str("artifact_id", id).
		Str("filename", result.Filename).
		Int("pages", len(output.Pages)).
		Int("bytes", len(result.Content)).
		Msg("Conversion stored")

	writeJSON(w, http.StatusOK, ConversionResponseDTO{
		FileID:      id,
		Filename:    result.Filename,
		Message:     "conversion successful",
		DownloadURL: "/api/v1/artifact/" + id,
	})
}

// Pairs handles GET /convert and lists the available conversion pairs.
func (h *ConvertHandler) Pairs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "all conversion endpoints are available",
		"pairs":   h.engine.Pairs(),
	})
}
