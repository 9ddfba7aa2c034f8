package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/campusline/campusfeed/internal/domain"
	"github.com/campusline/campusfeed/internal/logger"
	"github.com/campusline/campusfeed/pkg/feeds"
)

// ManagerConfig wires the per-category stores to their shared collaborators.
type ManagerConfig struct {
	// Sources maps each category to its feed endpoint, API key included.
	// Categories without a source are skipped.
	Sources map[domain.Category]string
	Cache   Cache
	Fetcher feeds.Fetcher
	Logger  logger.Logger

	// OnUpdate receives every successful replace-and-persist across all
	// stores. Used to fan updates out to the configured publishers.
	OnUpdate func(category domain.Category, articles []domain.Article)
}

// Manager owns one store per configured category and exposes the
// externally-triggered operations: refresh by name and news lookup by title.
type Manager struct {
	stores map[domain.Category]*Store
	log    logger.Logger
}

// NewManager builds the stores for every configured category. Store
// construction may spawn initial background fetches; the OnUpdate hook is in
// place before any of them can complete.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	m := &Manager{
		stores: make(map[domain.Category]*Store, len(cfg.Sources)),
		log:    logger.Ensure(cfg.Logger),
	}

	for _, category := range domain.Categories() {
		sourceURL, ok := cfg.Sources[category]
		if !ok {
			continue
		}

		storeCfg := Config{
			Category:  category,
			SourceURL: sourceURL,
			Cache:     cfg.Cache,
			Fetcher:   cfg.Fetcher,
			Logger:    cfg.Logger,
		}
		if cfg.OnUpdate != nil {
			c := category
			storeCfg.OnUpdate = func(articles []domain.Article) {
				cfg.OnUpdate(c, articles)
			}
		}

		s, err := New(storeCfg)
		if err != nil {
			return nil, fmt.Errorf("build %s store: %w", category, err)
		}
		m.stores[category] = s
	}

	if len(m.stores) == 0 {
		return nil, fmt.Errorf("no categories configured")
	}
	return m, nil
}

// Store returns the store for the given category.
func (m *Manager) Store(category domain.Category) (*Store, bool) {
	s, ok := m.stores[category]
	return s, ok
}

// Refresh triggers a background refresh of the named category. This is the
// surface an external push trigger calls with a category name.
func (m *Manager) Refresh(name string) error {
	category, err := domain.ParseCategory(name)
	if err != nil {
		return err
	}

	s, ok := m.stores[category]
	if !ok {
		return fmt.Errorf("category %q is not configured", name)
	}

	s.Refresh()
	return nil
}

// RefreshAll refreshes every configured store concurrently and waits for all
// of them. Individual failures are logged and do not stop the rest.
func (m *Manager) RefreshAll(ctx context.Context) {
	var wg sync.WaitGroup
	for _, s := range m.stores {
		wg.Add(1)
		go func(s *Store) {
			defer wg.Done()
			if err := s.RefreshSync(ctx); err != nil {
				m.log.WarnObj("scheduled refresh failed", "refresh_all_error", map[string]any{
					"category": s.Category().String(),
					"error":    err.Error(),
				})
			}
		}(s)
	}
	wg.Wait()
}

// NewsIndexByTitle finds a news article by exact title match, returning its
// position in the news list or -1. External push triggers use this to deep
// link into a specific post.
func (m *Manager) NewsIndexByTitle(title string) int {
	s, ok := m.stores[domain.CategoryNews]
	if !ok {
		return -1
	}
	return s.IndexByTitle(title)
}
