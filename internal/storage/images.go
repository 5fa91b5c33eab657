package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"kungfu-delivery/internal/service"

	"github.com/google/uuid"
)

// DiskImageStore saves uploads under Dir/<folder>/ and hands out URLs below
// URLPrefix, which the router serves as static files.
type DiskImageStore struct {
	Dir       string
	URLPrefix string
}

func NewDiskImageStore(dir string) *DiskImageStore {
	return &DiskImageStore{Dir: dir, URLPrefix: "/uploads"}
}

func (s *DiskImageStore) Save(ctx context.Context, folder, ext string, r io.Reader) (string, error) {
	dir := filepath.Join(s.Dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	filename := uuid.NewString() + strings.ToLower(ext)
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("save file: %w", err)
	}
	return path.Join(s.URLPrefix, folder, filename), nil
}

// Remove deletes the file behind a URL handed out by Save. URLs outside
// URLPrefix are ignored.
func (s *DiskImageStore) Remove(ctx context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.URLPrefix+"/")
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

var _ service.ImageStore = (*DiskImageStore)(nil)
