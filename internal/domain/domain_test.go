package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report"},
		{"archive.tar.gz", "archive.tar"},
		{"/tmp/uploads/scan.png", "scan"},
		{`C:\Users\me\Documents\letter.docx`, "letter"},
		{"noext", "noext"},
		{".hidden", "file"},
		{"", "file"},
		{"...", "file"},
		{"..", "file"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BaseName(tt.in), "input %q", tt.in)
	}
}

func TestExtByMedia(t *testing.T) {
	assert.Equal(t, "pdf", ExtByMedia[MediaPDF])
	assert.Equal(t, "jpg", ExtByMedia[MediaJPEG])
	assert.Equal(t, "docx", ExtByMedia[MediaDocx])
	assert.Equal(t, "wav", ExtByMedia["audio/wav"])
}

func TestDomainError_Error(t *testing.T) {
	err := ValidationError("bad input", nil)
	assert.Equal(t, "[validation] bad input", err.Error())

	wrapped := ConversionError("render failed", errors.New("page 3"))
	assert.Equal(t, "[conversion] render failed: page 3", wrapped.Error())
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := IOError("write temp file", cause)
	assert.ErrorIs(t, err, cause)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeValidation, TypeOf(ValidationError("x", nil)))
	assert.Equal(t, ErrorTypeTooLarge, TypeOf(PayloadTooLargeError("x", nil)))
	assert.Equal(t, ErrorTypeNotFound, TypeOf(NotFoundError("x", nil)))

	// Wrapped domain errors still classify.
	wrapped := fmt.Errorf("handler: %w", CompressionError("x", nil))
	assert.Equal(t, ErrorTypeCompression, TypeOf(wrapped))

	// Anything else is a conversion failure.
	assert.Equal(t, ErrorTypeConversion, TypeOf(errors.New("plain")))
}
