package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/campusline/campusfeed/internal/domain"
	"github.com/campusline/campusfeed/internal/logger"
)

const articlesBucket = "articles"

// Store persists per-category article snapshots in a single bbolt file. One
// bucket, one key per category, JSON-encoded lists. Writers are serialized by
// bbolt, so concurrent stores for the same category resolve last-writer-wins.
type Store struct {
	db  *bolt.DB
	log logger.Logger
}

// Open creates or opens the cache file at path and ensures the articles
// bucket exists.
func Open(path string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(articlesBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache bucket: %w", err)
	}

	return &Store{db: db, log: logger.Ensure(log)}, nil
}

// Close releases the underlying bbolt file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the cached snapshot for the category. The second return is
// false when there is nothing useful: no entry, an empty list, or a snapshot
// that no longer decodes. Read problems are logged and treated as absent so
// the caller falls back to a fetch.
func (s *Store) Load(category domain.Category) ([]domain.Article, bool) {
	settings, ok := domain.SettingsFor(category)
	if !ok {
		return nil, false
	}

	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(articlesBucket)).Get([]byte(settings.CacheKey)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		s.log.WarnObj("cache read failed", "cache_read_error", map[string]any{
			"category": category.String(),
			"error":    err.Error(),
		})
		return nil, false
	}
	if raw == nil {
		return nil, false
	}

	var articles []domain.Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		s.log.WarnObj("cache entry no longer decodes", "cache_decode_error", map[string]any{
			"category": category.String(),
			"error":    err.Error(),
		})
		return nil, false
	}
	if len(articles) == 0 {
		return nil, false
	}
	return articles, true
}

// Save overwrites the category's snapshot with the given list.
func (s *Store) Save(category domain.Category, articles []domain.Article) error {
	settings, ok := domain.SettingsFor(category)
	if !ok {
		return fmt.Errorf("unknown category %q", category)
	}

	raw, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", category, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(articlesBucket)).Put([]byte(settings.CacheKey), raw)
	})
	if err != nil {
		return fmt.Errorf("write %s snapshot: %w", category, err)
	}
	return nil
}
