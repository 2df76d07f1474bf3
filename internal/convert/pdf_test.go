package convert

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPDF builds a small n-page PDF fixture.
func testPDF(t *testing.T, pages int) []byte {
	t.Helper()
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 24)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Cell(200, 40, fmt.Sprintf("Page %d", i+1))
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestPDFToPNG_MultiPage(t *testing.T) {
	e := testEngine()
	input := testPDF(t, 3)

	out, route, err := e.Convert(context.Background(), "pdf-to-png", input, "application/pdf", Options{})
	require.NoError(t, err)
	assert.True(t, route.Paged)
	require.Len(t, out.Pages, 3)

	for i, page := range out.Pages {
		_, err := png.Decode(bytes.NewReader(page))
		assert.NoError(t, err, "page %d is not a valid PNG", i+1)
	}
}

func TestPDFToPNG_SinglePage(t *testing.T) {
	e := testEngine()
	input := testPDF(t, 1)

	out, _, err := e.Convert(context.Background(), "pdf-to-png", input, "application/pdf", Options{})
	require.NoError(t, err)
	require.Len(t, out.Pages, 1)
}

func TestPDFToJPG(t *testing.T) {
	e := testEngine()
	input := testPDF(t, 2)

	out, _, err := e.Convert(context.Background(), "pdf-to-jpg", input, "application/pdf", Options{})
	require.NoError(t, err)
	require.Len(t, out.Pages, 2)

	for _, page := range out.Pages {
		_, err := jpeg.Decode(bytes.NewReader(page))
		assert.NoError(t, err)
	}
}

func TestPDFToSVG(t *testing.T) {
	e := testEngine()
	input := testPDF(t, 2)

	out, _, err := e.Convert(context.Background(), "pdf-to-svg", input, "application/pdf", Options{})
	require.NoError(t, err)
	require.Len(t, out.Pages, 2)

	for _, page := range out.Pages {
		assert.True(t, strings.Contains(string(page), "<svg"), "output is not SVG")
	}
}

func TestPDFToPNG_CorruptInput(t *testing.T) {
	e := testEngine()

	_, _, err := e.Convert(context.Background(), "pdf-to-png", []byte("%PDF-1.4 truncated"), "application/pdf", Options{})
	require.Error(t, err)
}
