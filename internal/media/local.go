package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Local writes files under baseDir. urlBase only names objects in upload
// results; nothing serves baseDir directly.
type Local struct {
	baseDir string
	urlBase string
	now     func() time.Time
}

func NewLocal(baseDir, urlBase string) *Local {
	return &Local{
		baseDir: baseDir,
		urlBase: strings.TrimRight(urlBase, "/"),
		now:     time.Now,
	}
}

func (s *Local) Put(ctx context.Context, prefix string, fh *multipart.FileHeader) (*Object, error) {
	file, mimeType, err := open(fh)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	now := s.now()
	relDir := path.Join(prefix, fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day()))
	absDir := filepath.Join(s.baseDir, filepath.FromSlash(relDir))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s%s", uuid.New().String(), sanitizeName(fh.Filename), mimeToExt(mimeType))
	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	key := path.Join(relDir, filename)
	return &Object{
		Key:         key,
		URL:         s.URL(key),
		ContentType: mimeType,
		Size:        fh.Size,
	}, nil
}

func (s *Local) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	return f, nil
}

func (s *Local) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// path resolves key inside baseDir; ".." segments cannot climb out of it.
func (s *Local) path(key string) string {
	clean := path.Clean("/" + key)
	return filepath.Join(s.baseDir, filepath.FromSlash(clean))
}

func (s *Local) URL(key string) string {
	return s.urlBase + "/" + key
}
