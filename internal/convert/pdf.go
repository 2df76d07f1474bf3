package convert

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/fileforge/fileforge/internal/domain"
)

// pageImage wraps one rasterized PDF page.
type pageImage struct {
	img image.Image
}

// renderPDF rasterizes every page of a PDF through MuPDF and encodes each
// with the supplied encoder. Page order is preserved.
func (e *Engine) renderPDF(ctx context.Context, input []byte, encode func(pageImage) ([]byte, error)) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(input)
	if err != nil {
		return nil, domain.ConversionError("open pdf", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, domain.ValidationError("pdf has no pages", nil)
	}

	dpi := 72 * e.cfg.RenderScale

	pages := make([][]byte, 0, pageCount)
	for n := 0; n < pageCount; n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(n, dpi)
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("render page %d", n+1), err)
		}

		encoded, err := encode(pageImage{img: img})
		if err != nil {
			return nil, err
		}
		pages = append(pages, encoded)
	}

	return pages, nil
}

// pdfToPNG converts each PDF page to a PNG buffer.
func pdfToPNG(ctx context.Context, e *Engine, input []byte, _ Options) ([][]byte, error) {
	return e.renderPDF(ctx, input, func(p pageImage) ([]byte, error) {
		return encodePNG(p.img)
	})
}

// pdfToJPG converts each PDF page to a JPEG buffer at the configured quality.
func pdfToJPG(ctx context.Context, e *Engine, input []byte, _ Options) ([][]byte, error) {
	return e.renderPDF(ctx, input, func(p pageImage) ([]byte, error) {
		return encodeJPEG(p.img, e.cfg.JPEGQuality)
	})
}

// pdfToSVG serializes each PDF page through MuPDF's SVG device. Text and
// vector content stay vector; only embedded rasters remain rasters.
func pdfToSVG(ctx context.Context, e *Engine, input []byte, _ Options) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(input)
	if err != nil {
		return nil, domain.ConversionError("open pdf", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, domain.ValidationError("pdf has no pages", nil)
	}

	pages := make([][]byte, 0, pageCount)
	for n := 0; n < pageCount; n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		svg, err := doc.SVG(n)
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("serialize page %d as svg", n+1), err)
		}
		pages = append(pages, []byte(svg))
	}

	return pages, nil
}
