package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/adrg/xdg"

	"github.com/amosWeiskopf/seotrend/internal/models"
	"github.com/amosWeiskopf/seotrend/pkg/utils"
)

var (
	ErrHistoryNotFound    = errors.New("no crawl history for this site")
	ErrNotEnoughSnapshots = errors.New("at least two snapshots are needed to compare")
	ErrUnknownBackend     = errors.New("unknown storage type")
)

// Backend names accepted in Config.Type
const (
	TypeFile   = "file"
	TypeSQLite = "sqlite"
)

// Store persists snapshot history across runs
type Store interface {
	// Append adds snap as the newest snapshot of baseURL, creating the
	// site history when needed. Nothing is written if it fails.
	Append(ctx context.Context, baseURL string, snap models.Snapshot) error

	// LoadHistory returns every site history, snapshots oldest first.
	// A store that was never written returns an empty list.
	LoadHistory(ctx context.Context) ([]models.SiteHistory, error)

	// Path is the location of the backing file.
	Path() string

	Close() error
}

// Config selects and locates the backend
type Config struct {
	Type string `mapstructure:"type"`
	Path string `mapstructure:"path"`
}

// Open returns the backend named by cfg.Type. An empty path resolves to
// the backend's default under the XDG data directory.
func Open(cfg Config) (Store, error) {
	typ := cfg.Type
	if typ == "" {
		typ = TypeFile
	}

	path := cfg.Path
	if path == "" {
		var err error
		if path, err = DefaultPath(typ); err != nil {
			return nil, err
		}
	}

	switch typ {
	case TypeFile:
		s, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case TypeSQLite:
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Type)
	}
}

// DefaultPath returns the default location for the given backend,
// creating its parent directory.
func DefaultPath(typ string) (string, error) {
	name := "seotrend/history.json.gz"
	switch typ {
	case TypeFile, "":
	case TypeSQLite:
		name = "seotrend/history.db"
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, typ)
	}

	path, err := xdg.DataFile(name)
	if err != nil {
		return "", fmt.Errorf("resolve data directory: %w", err)
	}
	return path, nil
}

// FindSite returns the history recorded for baseURL
func FindSite(histories []models.SiteHistory, baseURL string) (models.SiteHistory, error) {
	want := utils.NormalizeURL(baseURL)
	for _, h := range histories {
		if utils.NormalizeURL(h.BaseURL) == want {
			return h, nil
		}
	}
	return models.SiteHistory{}, fmt.Errorf("%w: %s", ErrHistoryNotFound, want)
}

func appendSnapshot(histories []models.SiteHistory, baseURL string, snap models.Snapshot) []models.SiteHistory {
	base := utils.NormalizeURL(baseURL)
	for i := range histories {
		if utils.NormalizeURL(histories[i].BaseURL) == base {
			histories[i].Snapshots = append(histories[i].Snapshots, snap)
			return histories
		}
	}
	return append(histories, models.SiteHistory{BaseURL: base, Snapshots: []models.Snapshot{snap}})
}
