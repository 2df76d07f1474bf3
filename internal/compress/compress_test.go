package compress

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os/exec"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileforge/fileforge/internal/domain"
)

func testService() *Service {
	return NewService(Config{FFmpegPath: "ffmpeg", ToolTimeout: time.Minute}, nil)
}

// noisyJPEG encodes a gradient image at high quality so there is real
// entropy for the compressor to shed.
func noisyJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 7 % 256),
				G: uint8(y * 13 % 256),
				B: uint8((x + y) * 5 % 256),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	return buf.Bytes()
}

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

func TestCompress_PercentOutOfRange(t *testing.T) {
	s := testService()

	for _, percent := range []int{-1, 101, 500} {
		_, _, err := s.Compress(context.Background(), []byte("x"), "image/jpeg", percent)
		require.Error(t, err, "percent %d", percent)
		assert.Equal(t, domain.ErrorTypeValidation, domain.TypeOf(err))
	}
}

func TestCompress_UnsupportedFamily(t *testing.T) {
	s := testService()

	_, _, err := s.Compress(context.Background(), []byte("plain text payload"), "text/plain", 50)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnsupported, domain.TypeOf(err))
}

func TestCompress_JPEGShrinks(t *testing.T) {
	s := testService()
	input := noisyJPEG(t, 256, 256)

	out, mediaType, err := s.Compress(context.Background(), input, "image/jpeg", 70)
	require.NoError(t, err)
	assert.Equal(t, domain.MediaJPEG, mediaType)
	assert.Less(t, len(out), len(input))

	_, err = jpeg.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
}

func TestCompress_PNGStaysPNG(t *testing.T) {
	s := testService()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	out, mediaType, err := s.Compress(context.Background(), buf.Bytes(), "image/png", 50)
	require.NoError(t, err)
	assert.Equal(t, domain.MediaPNG, mediaType)

	_, err = png.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
}

func TestCompress_SniffedTypeWins(t *testing.T) {
	s := testService()
	input := noisyJPEG(t, 128, 128)

	// Declared type lies; the bytes are a JPEG and must compress as one.
	out, mediaType, err := s.Compress(context.Background(), input, "application/octet-stream", 60)
	require.NoError(t, err)
	assert.Equal(t, domain.MediaJPEG, mediaType)
	assert.NotEmpty(t, out)
}

func TestCompress_PDFRebuilds(t *testing.T) {
	s := testService()
	input := testPDF(t, 2)

	out, mediaType, err := s.Compress(context.Background(), input, domain.MediaPDF, 80)
	require.NoError(t, err)
	assert.Equal(t, domain.MediaPDF, mediaType)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestCompress_CorruptImage(t *testing.T) {
	s := testService()

	// A JPEG magic prefix followed by garbage sniffs as image but fails
	// to decode.
	input := append([]byte("\xff\xd8\xff\xe0"), bytes.Repeat([]byte{0x00}, 64)...)
	_, _, err := s.Compress(context.Background(), input, "image/jpeg", 50)
	require.Error(t, err)
}

func TestCompress_AudioViaFFmpeg(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	s := testService()

	// Synthesize a one second tone.
	var wav bytes.Buffer
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "sine=frequency=440:duration=1", "-f", "wav", "-")
	cmd.Stdout = &wav
	require.NoError(t, cmd.Run())

	out, mediaType, err := s.Compress(context.Background(), wav.Bytes(), "audio/wav", 50)
	require.NoError(t, err)
	assert.Equal(t, domain.MediaMP3, mediaType)
	assert.NotEmpty(t, out)
}

func TestDetectFamily(t *testing.T) {
	s := testService()

	assert.Equal(t, "image/jpeg", s.detectFamily(noisyJPEG(t, 16, 16), "application/octet-stream"))
	assert.Equal(t, domain.MediaPDF, s.detectFamily([]byte("%PDF-1.7 stub"), ""))
	assert.Equal(t, "audio/ogg", s.detectFamily([]byte{0x01, 0x02, 0x03}, "audio/ogg; codecs=vorbis"))
}
