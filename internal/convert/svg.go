package convert

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"

	"github.com/go-pdf/fpdf"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/fileforge/fileforge/internal/domain"
)

// rasterizeSVG renders an SVG document to an RGBA image at its intrinsic
// size, scaled by the engine render factor. SVGs without a usable viewBox
// or width/height are rejected rather than guessed at.
func (e *Engine) rasterizeSVG(input []byte) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(input), oksvg.WarnErrorMode)
	if err != nil {
		return nil, domain.ConversionError("parse svg", err)
	}

	w := int(icon.ViewBox.W * e.cfg.RenderScale)
	h := int(icon.ViewBox.H * e.cfg.RenderScale)
	if w <= 0 || h <= 0 {
		return nil, domain.ValidationError("svg has no usable dimensions", nil)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	return rgba, nil
}

// svgToPNG rasterizes an SVG to a single PNG.
func svgToPNG(_ context.Context, e *Engine, input []byte, _ Options) ([][]byte, error) {
	rgba, err := e.rasterizeSVG(input)
	if err != nil {
		return nil, err
	}
	out, err := encodePNG(rgba)
	if err != nil {
		return nil, err
	}
	return [][]byte{out}, nil
}

// svgToJPG rasterizes an SVG to a single JPEG. JPEG has no alpha channel,
// so the render is composited over white first.
func svgToJPG(_ context.Context, e *Engine, input []byte, _ Options) ([][]byte, error) {
	rgba, err := e.rasterizeSVG(input)
	if err != nil {
		return nil, err
	}

	flat := image.NewRGBA(rgba.Bounds())
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), rgba, image.Point{}, draw.Over)

	out, err := encodeJPEG(flat, e.cfg.JPEGQuality)
	if err != nil {
		return nil, err
	}
	return [][]byte{out}, nil
}

// svgToPDF rasterizes an SVG and embeds the render as a single PDF page.
func svgToPDF(_ context.Context, e *Engine, input []byte, _ Options) ([][]byte, error) {
	rgba, err := e.rasterizeSVG(input)
	if err != nil {
		return nil, err
	}
	pngBytes, err := encodePNG(rgba)
	if err != nil {
		return nil, err
	}

	w := float64(rgba.Bounds().Dx())
	h := float64(rgba.Bounds().Dy())
	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: w, Ht: h},
	})
	doc.AddPage()
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("svg", opts, bytes.NewReader(pngBytes))
	doc.ImageOptions("svg", 0, 0, w, h, false, opts, 0, "")

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, domain.ConversionError("build pdf", err)
	}
	return [][]byte{out.Bytes()}, nil
}
