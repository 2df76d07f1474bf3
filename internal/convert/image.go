package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif" // register decoders for the generic image routes

	"github.com/go-pdf/fpdf"
	_ "golang.org/x/image/webp"

	"github.com/fileforge/fileforge/internal/domain"
)

// sniffImage decodes the image header. The decoded format is authoritative
// for the codec path; the declared content type only gated admission.
func sniffImage(input []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(input))
	if err != nil {
		return image.Config{}, "", domain.ConversionError("decode image", err)
	}
	return cfg, format, nil
}

// imageToPDF embeds a raster image as a single PDF page sized to the
// image, in points at the image's pixel dimensions.
func imageToPDF(_ context.Context, _ *Engine, input []byte, _ Options) ([][]byte, error) {
	cfg, format, err := sniffImage(input)
	if err != nil {
		return nil, err
	}

	// fpdf understands PNG/JPEG/GIF streams natively; anything else
	// (webp) is transcoded to PNG before embedding.
	embed := input
	imageType := ""
	switch format {
	case "png":
		imageType = "PNG"
	case "jpeg":
		imageType = "JPG"
	case "gif":
		imageType = "GIF"
	default:
		img, _, err := image.Decode(bytes.NewReader(input))
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("decode %s image", format), err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, domain.ConversionError("transcode image to png", err)
		}
		embed = buf.Bytes()
		imageType = "PNG"
	}

	w, h := float64(cfg.Width), float64(cfg.Height)
	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: w, Ht: h},
	})
	doc.AddPage()
	doc.RegisterImageOptionsReader("upload", fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(embed))
	doc.ImageOptions("upload", 0, 0, w, h, false, fpdf.ImageOptions{ImageType: imageType}, 0, "")

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, domain.ConversionError("build pdf", err)
	}
	return [][]byte{out.Bytes()}, nil
}

// imageToSVG wraps a raster image in an SVG document as a base64 data
// URI, preserving pixel dimensions. The raster content is not vectorized.
func imageToSVG(_ context.Context, _ *Engine, input []byte, _ Options) ([][]byte, error) {
	cfg, format, err := sniffImage(input)
	if err != nil {
		return nil, err
	}

	// SVG data URIs carry png or jpeg payloads; other formats are
	// normalized to png first.
	payload := input
	mediaType := ""
	switch format {
	case "png":
		mediaType = domain.MediaPNG
	case "jpeg":
		mediaType = domain.MediaJPEG
	default:
		img, _, err := image.Decode(bytes.NewReader(input))
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("decode %s image", format), err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, domain.ConversionError("transcode image to png", err)
		}
		payload = buf.Bytes()
		mediaType = domain.MediaPNG
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
	fmt.Fprintf(&out, `  <image width="%d" height="%d" xlink:href="data:%s;base64,%s"/>`+"\n",
		cfg.Width, cfg.Height, mediaType, base64.StdEncoding.EncodeToString(payload))
	out.WriteString("</svg>\n")

	return [][]byte{out.Bytes()}, nil
}

// encodeJPEG renders an image.Image as JPEG at the given quality.
func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, domain.ConversionError("encode jpeg", err)
	}
	return buf.Bytes(), nil
}

// encodePNG renders an image.Image as PNG.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, domain.ConversionError("encode png", err)
	}
	return buf.Bytes(), nil
}
