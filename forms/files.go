package forms

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	apperrors "github.com/lexora/lexora-server/internal/errors"
)

// FileURLPrefix prefixes every stored form file URL.
const FileURLPrefix = "/uploads/forms/"

// FileStore keeps uploaded form files.
type FileStore interface {
	// Save stores r under a fresh name keeping originalName's extension and returns its URL
	Save(originalName string, r io.Reader) (string, error)

	// Resolve maps a stored file URL to a readable local path
	Resolve(fileURL string) (string, error)

	// Remove deletes a stored file. Missing files are not an error.
	Remove(fileURL string) error
}

// DiskStore is a FileStore rooted at the upload directory.
type DiskStore struct {
	dir string
}

var _ FileStore = (*DiskStore)(nil)

func NewDiskStore(uploadDir string) (*DiskStore, error) {
	dir := filepath.Join(uploadDir, "forms")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("[DiskStore New] create %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

func (d *DiskStore) Save(originalName string, r io.Reader) (string, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
	f, err := os.OpenFile(filepath.Join(d.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("[DiskStore Save] create: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("[DiskStore Save] write: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("[DiskStore Save] close: %w", err)
	}
	return FileURLPrefix + name, nil
}

func (d *DiskStore) Resolve(fileURL string) (string, error) {
	p, err := d.localPath(fileURL)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", apperrors.ErrNotFound
	}
	return p, nil
}

func (d *DiskStore) Remove(fileURL string) error {
	p, err := d.localPath(fileURL)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("[DiskStore Remove] %w", err)
	}
	return nil
}

// localPath only accepts URLs naming a file directly under the forms directory.
func (d *DiskStore) localPath(fileURL string) (string, error) {
	if !strings.HasPrefix(fileURL, FileURLPrefix) {
		return "", apperrors.ErrNotFound
	}
	name := strings.TrimPrefix(fileURL, FileURLPrefix)
	if name == "" || name != path.Base(name) || name == ".." || strings.Contains(name, `\`) {
		return "", apperrors.ErrNotFound
	}
	return filepath.Join(d.dir, name), nil
}
