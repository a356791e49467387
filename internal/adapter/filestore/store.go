package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
)

// ErrInvalidKey is returned for keys escaping the storage root.
var ErrInvalidKey = errors.New("invalid storage key")

// DiskStore keeps blobs as files below a root directory.
type DiskStore struct {
	root   string
	logger *slog.Logger
	newID  func() string
}

// NewDiskStore creates the root directory when missing.
func NewDiskStore(root string, logger *slog.Logger) (*DiskStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &DiskStore{root: abs, logger: logger, newID: uuid.NewString}, nil
}

// Save writes r under dir and returns the generated key.
func (s *DiskStore) Save(ctx context.Context, dir, name string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	cleanDir, err := cleanKey(dir)
	if err != nil {
		return "", 0, err
	}

	key := path.Join(cleanDir, s.newID()+"-"+safeName(name))
	target := s.resolve(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", 0, fmt.Errorf("create blob dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("create blob: %w", err)
	}
	size, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("write blob: %w", errors.Join(copyErr, closeErr))
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("commit blob: %w", err)
	}

	s.logger.Debug("blob stored", slog.String("key", key), slog.Int64("size", size))
	return key, size, nil
}

// Open returns a reader for key. Missing blobs map to ErrNotFound.
func (s *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(s.resolve(clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete removes key. Deleting a missing blob is not an error.
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(s.resolve(clean)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *DiskStore) resolve(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func cleanKey(key string) (string, error) {
	if key == "" || strings.Contains(key, "\\") || path.IsAbs(key) {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	return clean, nil
}

func safeName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "file"
	}
	if len(out) > 100 {
		out = out[len(out)-100:]
	}
	return out
}
