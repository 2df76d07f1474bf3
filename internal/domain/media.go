package domain

import (
	"path/filepath"
	"strings"
)

// Canonical media types used for routing and response headers.
const (
	MediaPDF  = "application/pdf"
	MediaDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaZip  = "application/zip"
	MediaPNG  = "image/png"
	MediaJPEG = "image/jpeg"
	MediaGIF  = "image/gif"
	MediaWebP = "image/webp"
	MediaSVG  = "image/svg+xml"
	MediaMP3  = "audio/mpeg"
	MediaMP4  = "video/mp4"
)

// ExtByMedia maps a media type to its download file extension.
var ExtByMedia = map[string]string{
	MediaPDF:  "pdf",
	MediaDocx: "docx",
	MediaZip:  "zip",
	MediaPNG:  "png",
	MediaJPEG: "jpg",
	MediaGIF:  "gif",
	MediaWebP: "webp",
	MediaSVG:  "svg",
	MediaMP3:  "mp3",
	MediaMP4:  "mp4",
	"audio/aac":  "aac",
	"audio/wav":  "wav",
	"audio/flac": "flac",
	"audio/ogg":  "ogg",
}

// BaseName strips the extension and any directory components from an
// uploaded filename, falling back to "file" when nothing usable remains.
// Browsers may send full client paths; only the last element is kept.
func BaseName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Trim(name, ". ")
	if name == "" {
		return "file"
	}
	return name
}
