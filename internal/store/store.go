package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campusline/campusfeed/internal/domain"
	"github.com/campusline/campusfeed/internal/logger"
	"github.com/campusline/campusfeed/pkg/feeds"
)

// defaultPastLimit caps the default query for past-looking categories. The
// upstream feeds order newest-first, so the first 40 entries are the 40 most
// recent posts.
const defaultPastLimit = 40

// Cache is the persistence surface a store needs. Load reports false when no
// useful snapshot exists; Save overwrites the category's snapshot.
type Cache interface {
	Load(category domain.Category) ([]domain.Article, bool)
	Save(category domain.Category, articles []domain.Article) error
}

// Config carries everything needed to build a Store.
type Config struct {
	Category  domain.Category
	SourceURL string
	Cache     Cache
	Fetcher   feeds.Fetcher
	Logger    logger.Logger

	// OnUpdate, when set, is registered as a subscriber before the initial
	// fetch can fire, so no update event is ever missed.
	OnUpdate func([]domain.Article)
}

// Store owns one category's article lifecycle: cache load on construction,
// background fetch when the cache has nothing, wholesale replace-and-persist
// on refresh, and change notification. All list access goes through the
// mutex; queries are pure reads of the current snapshot.
type Store struct {
	category  domain.Category
	settings  domain.Settings
	sourceURL string
	cache     Cache
	fetcher   feeds.Fetcher
	log       logger.Logger

	mu       sync.Mutex
	articles []domain.Article
	subs     map[int]func([]domain.Article)
	nextSub  int
}

// New builds a store for one category. A usable cached snapshot makes the
// store ready immediately with no network call; otherwise a background fetch
// is started. Fetch failures leave the store with whatever it had and are
// only logged; a later Refresh retries.
func New(cfg Config) (*Store, error) {
	settings, ok := domain.SettingsFor(cfg.Category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", cfg.Category)
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("category %q store needs a cache", cfg.Category)
	}
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("category %q store needs a fetcher", cfg.Category)
	}

	s := &Store{
		category:  cfg.Category,
		settings:  settings,
		sourceURL: cfg.SourceURL,
		cache:     cfg.Cache,
		fetcher:   cfg.Fetcher,
		log:       logger.Ensure(cfg.Logger),
		subs:      make(map[int]func([]domain.Article)),
	}
	if cfg.OnUpdate != nil {
		s.subs[s.nextSub] = cfg.OnUpdate
		s.nextSub++
	}

	if cached, ok := s.cache.Load(s.category); ok {
		s.articles = cached
		return s, nil
	}

	s.Refresh()
	return s, nil
}

// Category returns the category this store owns.
func (s *Store) Category() domain.Category { return s.category }

// Subscribe registers fn to run after every successful replace-and-persist.
// The returned cancel func removes the subscription; calling it after the
// store is abandoned is a no-op.
func (s *Store) Subscribe(fn func([]domain.Article)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Refresh re-runs the fetch pipeline in the background and returns
// immediately. There is no retry or backoff; a failed refresh waits for the
// next external trigger.
func (s *Store) Refresh() {
	go func() {
		if err := s.RefreshSync(context.Background()); err != nil {
			s.log.WarnObj("background refresh failed", "refresh_error", map[string]any{
				"category": s.category.String(),
				"error":    err.Error(),
			})
		}
	}()
}

// RefreshSync fetches the feed and, when it yields at least one article,
// replaces the in-memory list wholesale, persists it and notifies
// subscribers. A fetch error or an empty result changes nothing.
func (s *Store) RefreshSync(ctx context.Context) error {
	articles, err := s.fetcher.Fetch(ctx, s.category, s.sourceURL)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		s.log.InfoObj("refresh returned no articles, keeping current list", "refresh_empty", map[string]any{
			"category": s.category.String(),
		})
		return nil
	}

	s.apply(articles)
	return nil
}

// apply installs a fresh snapshot: replace, persist, notify, in that order.
// A cache write failure is logged and swallowed since the in-memory data is
// still good to serve.
func (s *Store) apply(articles []domain.Article) {
	s.mu.Lock()
	fresh := countNew(s.articles, articles)
	s.articles = articles
	subs := make([]func([]domain.Article), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if err := s.cache.Save(s.category, articles); err != nil {
		s.log.WarnObj("cache write failed, serving from memory", "cache_write_error", map[string]any{
			"category": s.category.String(),
			"error":    err.Error(),
		})
	}

	s.log.InfoObj("articles replaced", "store_update", map[string]any{
		"category": s.category.String(),
		"total":    len(articles),
		"new":      fresh,
	})

	for _, fn := range subs {
		fn(copyArticles(articles))
	}
}

// Articles runs the category's default query: future-looking categories keep
// everything dated today or later, past-looking categories keep the newest
// entries in feed order.
func (s *Store) Articles() []domain.Article {
	if s.settings.Direction == domain.DirectionFuture {
		return s.ArticlesFrom(time.Now())
	}
	return s.Limit(defaultPastLimit)
}

// ArticlesFrom returns every article dated on or after the given date at day
// granularity, preserving feed order.
func (s *Store) ArticlesFrom(date time.Time) []domain.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if a.SameDayOrAfter(date) {
			out = append(out, a)
		}
	}
	return out
}

// Limit returns the first min(n, len) articles in feed order.
func (s *Store) Limit(n int) []domain.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n > len(s.articles) {
		n = len(s.articles)
	}
	if n < 0 {
		n = 0
	}
	return copyArticles(s.articles[:n])
}

// ContainsEquivalent reports whether an article with exactly matching fields
// is already in the list. Diagnostic only; the refresh path never merges.
func (s *Store) ContainsEquivalent(article domain.Article) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.articles {
		if a.Equals(article) {
			return true
		}
	}
	return false
}

// IndexByTitle returns the position of the first article whose title matches
// exactly, or -1 when absent.
func (s *Store) IndexByTitle(title string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.articles {
		if a.Title == title {
			return i
		}
	}
	return -1
}

// countNew counts incoming articles with no equivalent in the previous list.
func countNew(prev, next []domain.Article) int {
	fresh := 0
	for _, n := range next {
		seen := false
		for _, p := range prev {
			if p.Equals(n) {
				seen = true
				break
			}
		}
		if !seen {
			fresh++
		}
	}
	return fresh
}

func copyArticles(articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	copy(out, articles)
	return out
}
