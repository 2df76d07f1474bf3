package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fileforge/fileforge/internal/domain"
)

// audioFormats maps the accepted video-to-audio output formats to the
// media type of the produced stream. mp3 is the default.
var audioFormats = map[string]string{
	"mp3":  "audio/mpeg",
	"aac":  "audio/aac",
	"wav":  "audio/wav",
	"flac": "audio/flac",
	"ogg":  "audio/ogg",
}

// AudioMediaType resolves the media type for a video-to-audio output
// format, defaulting to mp3.
func AudioMediaType(format string) (ext, mediaType string, ok bool) {
	if format == "" {
		format = "mp3"
	}
	format = strings.ToLower(format)
	mt, ok := audioFormats[format]
	return format, mt, ok
}

// videoToAudio strips the audio track out of an uploaded video with
// ffmpeg. The output container comes from the output_format field.
func videoToAudio(ctx context.Context, e *Engine, input []byte, opts Options) ([][]byte, error) {
	format, _, ok := AudioMediaType(opts.OutputFormat)
	if !ok {
		return nil, domain.ValidationError("unsupported audio output format "+opts.OutputFormat, nil)
	}

	dir, err := os.MkdirTemp("", "fileforge-media-*")
	if err != nil {
		return nil, domain.IOError("create temp directory", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input")
	outPath := filepath.Join(dir, "output."+format)
	if err := os.WriteFile(inPath, input, 0o600); err != nil {
		return nil, domain.IOError("write temp input", err)
	}

	// -vn drops the video stream; the audio codec follows from the
	// output extension.
	if err := e.runTool(ctx, e.cfg.FFmpegPath,
		"-y", "-i", inPath, "-vn", outPath); err != nil {
		return nil, err
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, domain.ConversionError("converter produced no output", err)
	}
	return [][]byte{out}, nil
}
