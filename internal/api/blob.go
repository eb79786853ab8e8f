package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type BlobStore interface {
	Put(key string, r io.Reader) (string, int64, string, error) // returns key, size, sha256
	Delete(key string) error
	Path(key string) (string, error) // local path (для local)
}

type LocalBlobStore struct {
	Root string // например, "./archives"
}

func (s *LocalBlobStore) ensureDir(p string) error {
	return os.MkdirAll(p, 0o755)
}

// Put пишет r под key; пустой key — "YYYY/MM/<uuid>" + ext.
func (s *LocalBlobStore) Put(key string, r io.Reader) (string, int64, string, error) {
	if key == "" {
		key = NewBlobKey("")
	}
	full, err := s.Path(key)
	if err != nil {
		return "", 0, "", err
	}
	if err := s.ensureDir(filepath.Dir(full)); err != nil {
		return "", 0, "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", 0, "", err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, h), r)
	if err != nil {
		_ = os.Remove(full)
		return "", 0, "", err
	}
	sum := hex.EncodeToString(h.Sum(nil))
	return key, n, sum, nil
}

func (s *LocalBlobStore) Delete(key string) error {
	full, err := s.Path(key)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

// Path не выпускает ключ за пределы Root.
func (s *LocalBlobStore) Path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("blob: bad key %q", key)
	}
	return filepath.Join(s.Root, filepath.FromSlash(clean[1:])), nil
}

// NewBlobKey — "YYYY/MM/<uuid><ext>"
func NewBlobKey(ext string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), ext)
}
