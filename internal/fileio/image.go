package fileio

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"agentshell/internal/apperr"
	"agentshell/internal/config"
)

var extMimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
}

// ImageResult is the base64-encoded payload ReadImage returns.
type ImageResult struct {
	MimeType string
	Base64   string
}

// ReadImage loads path and returns it base64-encoded with a mime hint
// derived from its extension. It shares ReadFile's size ceiling but not its
// binary-content rejection, since images are expected to be binary.
func ReadImage(path string) (ImageResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ImageResult{}, apperr.Newf(apperr.PathNotFound, "cannot stat %q: %v", path, err)
	}
	if info.IsDir() {
		return ImageResult{}, apperr.Newf(apperr.PathNotFound, "%q is a directory, not a file", path)
	}
	if info.Size() > config.MaxFileBytes {
		return ImageResult{}, apperr.Newf(apperr.FileTooLarge, "%q is %d bytes, exceeding the %d byte limit", path, info.Size(), config.MaxFileBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ImageResult{}, apperr.Newf(apperr.PathNotFound, "reading %q: %v", path, err)
	}

	mime, ok := extMimeTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		mime = "application/octet-stream"
	}

	return ImageResult{
		MimeType: mime,
		Base64:   base64.StdEncoding.EncodeToString(data),
	}, nil
}
