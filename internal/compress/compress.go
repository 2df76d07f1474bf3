// Package compress implements the generic lossy compressor for images,
// audio, video and PDF uploads.
package compress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/go-pdf/fpdf"
	_ "golang.org/x/image/webp"

	"github.com/fileforge/fileforge/internal/domain"
	"github.com/fileforge/fileforge/internal/observability"
)

// minQuality is the floor for the effective encoder quality. Below it the
// output degrades into unusable mush, so higher reduction requests clamp
// here instead.
const minQuality = 10

// Config holds compressor settings.
type Config struct {
	FFmpegPath  string
	ToolTimeout time.Duration
}

// Service dispatches compression requests by media family.
type Service struct {
	cfg    Config
	logger *observability.Logger
}

// NewService creates a compression service.
func NewService(cfg Config, logger *observability.Logger) *Service {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Service{cfg: cfg, logger: logger}
}

// Compress re-encodes content lossily. percent is how much to reduce, in
// [0,100]; it inverts into the encoder quality knob, floored at
// minQuality. The sniffed content type is authoritative for dispatch; the
// declared type only breaks ties when sniffing is inconclusive.
//
// Returns the recompressed bytes and their media type, which stays within
// the input's media family.
func (s *Service) Compress(ctx context.Context, content []byte, declaredType string, percent int) ([]byte, string, error) {
	if percent < 0 || percent > 100 {
		return nil, "", domain.ValidationError(fmt.Sprintf("percent must be between 0 and 100, got %d", percent), nil)
	}

	quality := 100 - percent
	if quality < minQuality {
		quality = minQuality
	}

	family := s.detectFamily(content, declaredType)

	start := time.Now()
	var (
		out       []byte
		mediaType string
		err       error
	)
	switch {
	case family == domain.MediaPDF:
		out, mediaType, err = s.compressPDF(ctx, content, quality)
	case strings.HasPrefix(family, "image/"):
		out, mediaType, err = s.compressImage(content, quality)
	case strings.HasPrefix(family, "audio/"):
		out, err = s.compressAV(ctx, content, quality, true)
		mediaType = domain.MediaMP3
	case strings.HasPrefix(family, "video/"):
		out, err = s.compressAV(ctx, content, quality, false)
		mediaType = domain.MediaMP4
	default:
		return nil, "", domain.UnsupportedTypeError(
			fmt.Sprintf("cannot compress %s: supported families are image, audio, video and pdf", family), nil)
	}
	if err != nil {
		return nil, "", err
	}

	s.logger.WithOperation("compress").Debug().
		Str("family", family).
		Int("quality", quality).
		Int("in_bytes", len(content)).
		Int("out_bytes", len(out)).
		Dur("elapsed", time.Since(start)).
		Msg("Compression complete")

	return out, mediaType, nil
}

// detectFamily sniffs the content, preferring the decoded bytes over the
// declared MIME type. The two can diverge on sloppy clients.
func (s *Service) detectFamily(content []byte, declaredType string) string {
	if _, format, err := image.DecodeConfig(bytes.NewReader(content)); err == nil {
		return "image/" + format
	}

	sniffed := http.DetectContentType(content)
	if sniffed != "application/octet-stream" {
		if sniffed == domain.MediaPDF || strings.HasPrefix(sniffed, "image/") ||
			strings.HasPrefix(sniffed, "audio/") || strings.HasPrefix(sniffed, "video/") {
			return sniffed
		}
	}

	mt := strings.ToLower(strings.TrimSpace(declaredType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

// compressImage re-encodes a raster image at reduced quality. The format
// comes from the decoded header: jpeg and webp re-encode as JPEG at the
// mapped quality, png recompresses at best compression, gif re-encodes.
func (s *Service) compressImage(content []byte, quality int) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, "", domain.CompressionError("decode image", err)
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, "", domain.CompressionError("encode png", err)
		}
		return buf.Bytes(), domain.MediaPNG, nil
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, "", domain.CompressionError("encode gif", err)
		}
		return buf.Bytes(), domain.MediaGIF, nil
	default:
		// jpeg, webp and anything else decodable: JPEG at mapped quality.
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, "", domain.CompressionError("encode jpeg", err)
		}
		return buf.Bytes(), domain.MediaJPEG, nil
	}
}

// compressPDF rebuilds a PDF from page rasters: each page renders through
// MuPDF at a quality-scaled DPI and re-embeds as a JPEG. Text becomes
// raster, which is what a lossy PDF compressor trades away.
func (s *Service) compressPDF(ctx context.Context, content []byte, quality int) ([]byte, string, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, "", domain.CompressionError("open pdf", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, "", domain.CompressionError("pdf has no pages", nil)
	}

	// Lower quality renders at lower DPI as well as a lower JPEG knob.
	dpi := float64(36 + quality)

	out := fpdf.New("P", "pt", "A4", "")
	for n := 0; n < pageCount; n++ {
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(n, dpi)
		if err != nil {
			return nil, "", domain.CompressionError(fmt.Sprintf("render page %d", n+1), err)
		}

		var jpg bytes.Buffer
		if err := jpeg.Encode(&jpg, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, "", domain.CompressionError(fmt.Sprintf("encode page %d", n+1), err)
		}

		// Page size in points recovers the source page geometry from
		// the render DPI.
		w := float64(img.Bounds().Dx()) * 72 / dpi
		h := float64(img.Bounds().Dy()) * 72 / dpi
		out.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		name := fmt.Sprintf("page_%d", n+1)
		opts := fpdf.ImageOptions{ImageType: "JPG"}
		out.RegisterImageOptionsReader(name, opts, bytes.NewReader(jpg.Bytes()))
		out.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := out.Output(&buf); err != nil {
		return nil, "", domain.CompressionError("build pdf", err)
	}
	return buf.Bytes(), domain.MediaPDF, nil
}

// compressAV re-encodes audio or video through ffmpeg. Audio maps quality
// onto the VBR -qscale:a scale, video onto the x264 CRF scale.
func (s *Service) compressAV(ctx context.Context, content []byte, quality int, audio bool) ([]byte, error) {
	dir, err := os.MkdirTemp("", "fileforge-compress-*")
	if err != nil {
		return nil, domain.IOError("create temp directory", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input")
	if err := os.WriteFile(inPath, content, 0o600); err != nil {
		return nil, domain.IOError("write temp input", err)
	}

	var outPath string
	var args []string
	if audio {
		// -qscale:a 0 is best, 9 is worst.
		q := (100 - quality) * 9 / 90
		outPath = filepath.Join(dir, "output.mp3")
		args = []string{"-y", "-i", inPath, "-vn", "-qscale:a", fmt.Sprint(q), outPath}
	} else {
		// CRF 18 is near-lossless, 46 is heavily compressed.
		crf := 18 + (100-quality)*28/90
		outPath = filepath.Join(dir, "output.mp4")
		args = []string{"-y", "-i", inPath, "-c:v", "libx264", "-crf", fmt.Sprint(crf), "-c:a", "aac", outPath}
	}

	if err := s.runFFmpeg(ctx, args); err != nil {
		return nil, err
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, domain.CompressionError("encoder produced no output", err)
	}
	return out, nil
}

func (s *Service) runFFmpeg(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ToolTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.cfg.FFmpegPath, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.CompressionError(fmt.Sprintf("ffmpeg timed out after %s", s.cfg.ToolTimeout), err)
		}
		msg := strings.TrimSpace(stderr.String())
		if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
			msg = msg[i+1:]
		}
		if msg == "" {
			msg = err.Error()
		}
		return domain.CompressionError("ffmpeg failed: "+msg, err)
	}
	return nil
}
