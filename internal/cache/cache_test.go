package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusline/campusfeed/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "articles.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleArticles() []domain.Article {
	return []domain.Article{
		{
			Title:    "Game Day",
			Date:     time.Date(2024, 3, 4, 7, 30, 0, 0, time.UTC),
			URL:      "http://blog/game-day",
			Details:  "<p>Kickoff at noon</p>",
			ImageURL: "http://x/y.png",
		},
		{
			Title: "A Day",
			Date:  time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	articles := sampleArticles()

	require.NoError(t, s.Save(domain.CategoryNews, articles))

	loaded, ok := s.Load(domain.CategoryNews)
	require.True(t, ok)
	require.Len(t, loaded, len(articles))
	for i := range articles {
		assert.True(t, articles[i].Equals(loaded[i]), "article %d lost fields in round trip", i)
	}

	// Saving what was loaded and loading again must be lossless too.
	require.NoError(t, s.Save(domain.CategoryNews, loaded))
	again, ok := s.Load(domain.CategoryNews)
	require.True(t, ok)
	require.Len(t, again, len(articles))
	for i := range articles {
		assert.True(t, articles[i].Equals(again[i]))
	}
}

func TestLoadMissingCategoryIsAbsent(t *testing.T) {
	s := testStore(t)

	articles, ok := s.Load(domain.CategoryLunch)
	assert.False(t, ok)
	assert.Nil(t, articles)
}

func TestLoadEmptyListIsAbsent(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save(domain.CategoryNews, nil))

	_, ok := s.Load(domain.CategoryNews)
	assert.False(t, ok, "an empty snapshot is treated as nothing useful")
}

func TestSaveOverwritesPriorSnapshot(t *testing.T) {
	s := testStore(t)
	articles := sampleArticles()

	require.NoError(t, s.Save(domain.CategoryNews, articles))
	require.NoError(t, s.Save(domain.CategoryNews, articles[:1]))

	loaded, ok := s.Load(domain.CategoryNews)
	require.True(t, ok)
	assert.Len(t, loaded, 1)
}

func TestCategoriesAreIsolated(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save(domain.CategoryNews, sampleArticles()))

	_, ok := s.Load(domain.CategoryDailyAnn)
	assert.False(t, ok)
}

func TestSaveUnknownCategory(t *testing.T) {
	s := testStore(t)

	err := s.Save(domain.Category("homework"), sampleArticles())
	assert.Error(t, err)
}
