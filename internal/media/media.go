package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"maternity/internal/pkg/apperr"
)

const MaxFileSize = 10 * 1024 * 1024 // 10 MB

var (
	ErrEmptyFile       = apperr.Validation("file is empty")
	ErrFileTooLarge    = apperr.Validation("file exceeds 10 MB")
	ErrInvalidMimeType = apperr.Validation("unsupported file type")
	ErrObjectNotFound  = apperr.New(apperr.KindNotFound, "file not found")
)

// AllowedMimeTypes defines which file types are accepted
var AllowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Store persists uploaded files. Keys are relative to the store root and
// start with the prefix passed to Put. Stored objects are private: callers
// read them back through Open and decide who may see them.
type Store interface {
	Put(ctx context.Context, prefix string, fh *multipart.FileHeader) (*Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// open validates size and sniffed content type and returns the file
// rewound to its start.
func open(fh *multipart.FileHeader) (multipart.File, string, error) {
	if fh == nil || fh.Size == 0 {
		return nil, "", ErrEmptyFile
	}
	if fh.Size > MaxFileSize {
		return nil, "", ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	// Detect MIME type from first 512 bytes
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := http.DetectContentType(buf[:n])
	mimeType = strings.Split(mimeType, ";")[0]

	if !AllowedMimeTypes[mimeType] {
		_ = file.Close()
		return nil, "", ErrInvalidMimeType
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, "", fmt.Errorf("failed to rewind file: %w", err)
	}
	return file, mimeType, nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "file"
	}
	return name
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}

// ContentType maps a stored key back to the type it was accepted as.
func ContentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
