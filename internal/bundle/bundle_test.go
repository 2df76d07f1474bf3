package bundle

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileforge/fileforge/internal/domain"
)

func TestPages_SinglePagePassesThrough(t *testing.T) {
	page := []byte("png bytes")

	res, err := Pages([][]byte{page}, "doc", "png", domain.MediaPNG)
	require.NoError(t, err)

	assert.Equal(t, page, res.Content)
	assert.Equal(t, domain.MediaPNG, res.MediaType)
	assert.Equal(t, "doc_page_1.png", res.Filename)
}

func TestPages_MultiPageBecomesZip(t *testing.T) {
	pages := [][]byte{
		[]byte("page one"),
		[]byte("page two"),
		[]byte("page three"),
	}

	res, err := Pages(pages, "doc", "png", domain.MediaPNG)
	require.NoError(t, err)

	assert.Equal(t, domain.MediaZip, res.MediaType)
	assert.Equal(t, "doc_images.zip", res.Filename)

	zr, err := zip.NewReader(bytes.NewReader(res.Content), int64(len(res.Content)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)

	wantNames := []string{"doc_page_1.png", "doc_page_2.png", "doc_page_3.png"}
	for i, f := range zr.File {
		assert.Equal(t, wantNames[i], f.Name)

		rc, err := f.Open()
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Equal(t, pages[i], got)
	}
}

func TestPages_EntryLayoutIsDeterministic(t *testing.T) {
	pages := [][]byte{[]byte("a"), []byte("b")}

	first, err := Pages(pages, "x", "jpg", domain.MediaJPEG)
	require.NoError(t, err)
	second, err := Pages(pages, "x", "jpg", domain.MediaJPEG)
	require.NoError(t, err)

	names := func(content []byte) []string {
		zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
		require.NoError(t, err)
		var out []string
		for _, f := range zr.File {
			out = append(out, f.Name)
		}
		return out
	}
	assert.Equal(t, names(first.Content), names(second.Content))
}

func TestPages_EmptyFails(t *testing.T) {
	_, err := Pages(nil, "doc", "png", domain.MediaPNG)
	assert.Error(t, err)
}

func TestSingle_NamesWithoutPageSuffix(t *testing.T) {
	res := Single([]byte("pdf bytes"), "scan", "pdf", domain.MediaPDF)
	assert.Equal(t, "scan.pdf", res.Filename)
	assert.Equal(t, domain.MediaPDF, res.MediaType)
	assert.Equal(t, []byte("pdf bytes"), res.Content)
}
