package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fileforge/fileforge/internal/domain"
)

// runTool executes an external converter bound by the configured tool
// timeout. Office and media converters can hang indefinitely on malformed
// input, so every invocation carries a deadline; expiry surfaces as a
// conversion error, never a stuck request.
func (e *Engine) runTool(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.ToolTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.ConversionError(fmt.Sprintf("%s timed out after %s", filepath.Base(name), e.cfg.ToolTimeout), err)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return domain.ConversionError(fmt.Sprintf("%s failed: %s", filepath.Base(name), firstLine(msg)), err)
	}
	return nil
}

// officeConvert round-trips bytes through LibreOffice: write the input
// into a private temp directory, run soffice --convert-to, read the
// produced file back. The directory is removed on every exit path.
func (e *Engine) officeConvert(ctx context.Context, input []byte, inExt, outExt string) ([][]byte, error) {
	dir, err := os.MkdirTemp("", "fileforge-office-*")
	if err != nil {
		return nil, domain.IOError("create temp directory", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input."+inExt)
	if err := os.WriteFile(inPath, input, 0o600); err != nil {
		return nil, domain.IOError("write temp input", err)
	}

	if err := e.runTool(ctx, e.cfg.SofficePath,
		"--headless", "--convert-to", outExt, "--outdir", dir, inPath); err != nil {
		return nil, err
	}

	outPath := filepath.Join(dir, "input."+outExt)
	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, domain.ConversionError("converter produced no output", err)
	}
	return [][]byte{out}, nil
}

// docxToPDF renders a DOCX document to PDF through LibreOffice.
func docxToPDF(ctx context.Context, e *Engine, input []byte, _ Options) ([][]byte, error) {
	return e.officeConvert(ctx, input, "docx", "pdf")
}

// pdfToDocx extracts a PDF into an editable DOCX through LibreOffice.
func pdfToDocx(ctx context.Context, e *Engine, input []byte, _ Options) ([][]byte, error) {
	return e.officeConvert(ctx, input, "pdf", "docx")
}

// firstLine truncates multi-line tool output so error responses stay
// one-line and free of temp paths further down the trace.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
