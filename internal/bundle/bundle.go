// Package bundle decides single-file versus zip packaging for paged
// conversion output.
package bundle

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zip"

	"github.com/fileforge/fileforge/internal/domain"
)

// Result is the packaged form of one conversion output, ready to store.
type Result struct {
	Content   []byte
	MediaType string
	Filename  string
}

// Pages packages an ordered page set produced by a multi-page conversion.
//
// One page passes through unchanged as {base}_page_1.{ext}. More than one
// page becomes a zip named {base}_images.zip with entries
// {base}_page_{i}.{ext}, 1-indexed in source order. Entry names and order
// are deterministic for a given input.
func Pages(pages [][]byte, base, ext, pageMediaType string) (*Result, error) {
	switch len(pages) {
	case 0:
		return nil, domain.ConversionError("conversion produced no pages", nil)
	case 1:
		return &Result{
			Content:   pages[0],
			MediaType: pageMediaType,
			Filename:  fmt.Sprintf("%s_page_1.%s", base, ext),
		}, nil
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, page := range pages {
		entry, err := zw.Create(fmt.Sprintf("%s_page_%d.%s", base, i+1, ext))
		if err != nil {
			return nil, domain.IOError("create zip entry", err)
		}
		if _, err := entry.Write(page); err != nil {
			return nil, domain.IOError("write zip entry", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, domain.IOError("finalize zip archive", err)
	}

	return &Result{
		Content:   buf.Bytes(),
		MediaType: domain.MediaZip,
		Filename:  base + "_images.zip",
	}, nil
}

// Single packages a non-paged conversion output as {base}.{ext}.
func Single(content []byte, base, ext, mediaType string) *Result {
	return &Result{
		Content:   content,
		MediaType: mediaType,
		Filename:  fmt.Sprintf("%s.%s", base, ext),
	}
}
