package convert

import (
	"context"

	"github.com/fileforge/fileforge/internal/domain"
)

// registerRoutes builds the conversion table. Every supported pair is
// declared here; handlers and the CLI share this table.
func (e *Engine) registerRoutes() {
	add := func(r Route) { e.routes[r.Pair] = r }

	// Image sources → PDF / SVG.
	add(Route{
		Pair:            "png-to-pdf",
		Accept:          []string{"image/png"},
		Expects:         "a PNG image",
		MaxBytes:        e.cfg.MaxImageBytes,
		TargetMediaType: domain.MediaPDF,
		TargetExt:       "pdf",
		fn:              imageToPDF,
	})
	add(Route{
		Pair:            "jpg-to-pdf",
		Accept:          []string{"image/jpeg"},
		Expects:         "a JPEG image",
		MaxBytes:        e.cfg.MaxImageBytes,
		TargetMediaType: domain.MediaPDF,
		TargetExt:       "pdf",
		fn:              imageToPDF,
	})
	add(Route{
		Pair:            "img-to-pdf",
		Accept:          []string{"image/"},
		Expects:         "an image (png, jpg, gif, webp, ...)",
		MaxBytes:        e.cfg.MaxImageBytes,
		TargetMediaType: domain.MediaPDF,
		TargetExt:       "pdf",
		fn:              imageToPDF,
	})
	add(Route{
		Pair:            "img-to-svg",
		Accept:          []string{"image/"},
		Expects:         "an image (png, jpg, gif, webp, ...)",
		MaxBytes:        e.cfg.MaxImageBytes,
		TargetMediaType: domain.MediaSVG,
		TargetExt:       "svg",
		fn:              imageToSVG,
	})
	add(Route{
		Pair:            "png-to-svg",
		Accept:          []string{"image/png"},
		Expects:         "a PNG image",
		MaxBytes:        e.cfg.MaxImageBytes,
		TargetMediaType: domain.MediaSVG,
		TargetExt:       "svg",
		fn:              imageToSVG,
	})
	add(Route{
		Pair:            "jpg-to-svg",
		Accept:          []string{"image/jpeg"},
		Expects:         "a JPEG image",
		MaxBytes:        e.cfg.MaxImageBytes,
		TargetMediaType: domain.MediaSVG,
		TargetExt:       "svg",
		fn:              imageToSVG,
	})

	// SVG sources.
	add(Route{
		Pair:            "svg-to-png",
		Accept:          []string{"image/svg+xml"},
		Expects:         "an SVG image",
		MaxBytes:        e.cfg.MaxImageBytes,
		TargetMediaType: domain.MediaPNG,
		TargetExt:       "png",
		fn:              svgToPNG,
	})
	add(Route{
		Pair:            "svg-to-jpg",
		Accept:          []string{"image/svg+xml"},
		Expects:         "an SVG image",
		MaxBytes:        e.cfg.MaxImageBytes,
		TargetMediaType: domain.MediaJPEG,
		TargetExt:       "jpg",
		fn:              svgToJPG,
	})
	add(Route{
		Pair:            "svg-to-pdf",
		Accept:          []string{"image/svg+xml"},
		Expects:         "an SVG image",
		MaxBytes:        e.cfg.MaxImageBytes,
		TargetMediaType: domain.MediaPDF,
		TargetExt:       "pdf",
		fn:              svgToPDF,
	})

	// PDF sources.
	add(Route{
		Pair:            "pdf-to-png",
		Accept:          []string{"application/pdf"},
		Expects:         "a PDF",
		MaxBytes:        e.cfg.MaxPDFBytes,
		TargetMediaType: domain.MediaPNG,
		TargetExt:       "png",
		Paged:           true,
		fn:              pdfToPNG,
	})
	add(Route{
		Pair:            "pdf-to-jpg",
		Accept:          []string{"application/pdf"},
		Expects:         "a PDF",
		MaxBytes:        e.cfg.MaxPDFBytes,
		TargetMediaType: domain.MediaJPEG,
		TargetExt:       "jpg",
		Paged:           true,
		fn:              pdfToJPG,
	})
	add(Route{
		Pair:            "pdf-to-svg",
		Accept:          []string{"application/pdf"},
		Expects:         "a PDF",
		MaxBytes:        e.cfg.MaxPDFBytes,
		TargetMediaType: domain.MediaSVG,
		TargetExt:       "svg",
		Paged:           true,
		fn:              pdfToSVG,
	})
	add(Route{
		Pair:            "pdf-to-docx",
		Accept:          []string{"application/pdf"},
		Expects:         "a PDF",
		MaxBytes:        e.cfg.MaxPDFBytes,
		TargetMediaType: domain.MediaDocx,
		TargetExt:       "docx",
		fn:              pdfToDocx,
	})

	// Office sources.
	add(Route{
		Pair:            "docx-to-pdf",
		Accept:          []string{"application/vnd.openxmlformats"},
		Expects:         "a DOCX document",
		MaxBytes:        e.cfg.MaxPDFBytes,
		TargetMediaType: domain.MediaPDF,
		TargetExt:       "pdf",
		fn:              docxToPDF,
	})

	// Video sources. The generic route honours output_format; mp4-to-mp3
	// is a fixed-target alias for the common case.
	add(Route{
		Pair:            "video-to-audio",
		Accept:          []string{"video/"},
		Expects:         "a video file",
		MaxBytes:        e.cfg.MaxVideoBytes,
		TargetMediaType: domain.MediaMP3,
		TargetExt:       "mp3",
		dynamicTarget:   AudioMediaType,
		fn:              videoToAudio,
	})
	add(Route{
		Pair:            "mp4-to-mp3",
		Accept:          []string{"video/mp4"},
		Expects:         "an MP4 video",
		MaxBytes:        e.cfg.MaxVideoBytes,
		TargetMediaType: domain.MediaMP3,
		TargetExt:       "mp3",
		// The pair name fixes the target; output_format is ignored so
		// the produced bytes always match the reported media type.
		fn: func(ctx context.Context, e *Engine, input []byte, _ Options) ([][]byte, error) {
			return videoToAudio(ctx, e, input, Options{})
		},
	})
}
