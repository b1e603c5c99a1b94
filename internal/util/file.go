package util

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DetectImage sniffs the first 512 bytes of r and rejects anything that is not an image.
func DetectImage(r io.Reader) (string, error) {
	buffer := make([]byte, 512)
	n, err := r.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])
	if !strings.HasPrefix(mimeType, MimeImage) {
		return mimeType, fmt.Errorf("%w: %s is not an image", ErrInvalidFile, mimeType)
	}
	return mimeType, nil
}

// ImageExtension maps a sniffed image MIME type to a file extension.
func ImageExtension(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".jpg"
	}
}
