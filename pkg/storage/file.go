package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/amosWeiskopf/seotrend/internal/models"
)

// FileStore keeps every site history in one gzip-compressed JSON file.
// Each append rewrites the whole file through a temporary file in the same
// directory, so readers see either the old or the new content.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store backed by path, creating its directory
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the history file location
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Append(ctx context.Context, baseURL string, snap models.Snapshot) error {
	return s.update(ctx, func(histories []models.SiteHistory) []models.SiteHistory {
		return appendSnapshot(histories, baseURL, snap)
	})
}

func (s *FileStore) LoadHistory(ctx context.Context) ([]models.SiteHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Close() error {
	return nil
}

// update applies fn to the stored histories and replaces the file with the result
func (s *FileStore) update(ctx context.Context, fn func([]models.SiteHistory) []models.SiteHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	histories, err := s.read()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(fn(histories))
}

func (s *FileStore) read() ([]models.SiteHistory, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.SiteHistory{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	var histories []models.SiteHistory
	if err := readGzipJSON(f, &histories); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.SiteHistory{}, nil
		}
		return nil, fmt.Errorf("read history %s: %w", s.path, err)
	}
	if histories == nil {
		histories = []models.SiteHistory{}
	}
	return histories, nil
}

func (s *FileStore) write(histories []models.SiteHistory) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = writeGzipJSON(tmp, histories); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync history: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
