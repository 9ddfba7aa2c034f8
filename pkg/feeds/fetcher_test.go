package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusline/campusfeed/internal/domain"
)

func TestFetcherAppendsTimeMinForCalendarCategories(t *testing.T) {
	var gotTimeMin string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTimeMin = r.URL.Query().Get("timeMin")
		w.Write([]byte(`{"items":[{"summary":"A Day","start":{"date":"2024-03-04"}}]}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(DefaultHTTPClient(), nil)
	now := time.Date(2024, 3, 4, 15, 30, 0, 0, time.Local)
	f.now = func() time.Time { return now }

	articles, err := f.Fetch(context.Background(), domain.CategorySchedules, srv.URL+"/cal?key=abc")
	require.NoError(t, err)
	require.Len(t, articles, 1)

	midnight := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	assert.Equal(t, midnight.Format(timeMinLayout), gotTimeMin)
}

func TestFetcherNoTimeMinForBlogCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("timeMin"))
		w.Write([]byte(`{"items":[{"title":"Post","content":"x","published":"2024-11-24T07:30:00-04:00"}]}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(DefaultHTTPClient(), nil)

	articles, err := f.Fetch(context.Background(), domain.CategoryNews, srv.URL+"/blog")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Post", articles[0].Title)
}

func TestFetcherSitesCategoryUsesAtomParser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sitesSample))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(DefaultHTTPClient(), nil)

	articles, err := f.Fetch(context.Background(), domain.CategoryDailyAnn, srv.URL)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Announcements for Nov. 12, 2017", articles[0].Title)
}

func TestFetcherNon2xxFailsWholeOperation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(DefaultHTTPClient(), nil)

	articles, err := f.Fetch(context.Background(), domain.CategoryNews, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Nil(t, articles)
}

func TestFetcherEmptyFeedSucceedsWithEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(DefaultHTTPClient(), nil)

	articles, err := f.Fetch(context.Background(), domain.CategoryNews, srv.URL)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestFetcherRejectsUnknownCategory(t *testing.T) {
	f := NewHTTPFetcher(DefaultHTTPClient(), nil)

	_, err := f.Fetch(context.Background(), domain.Category("homework"), "http://example.com")
	require.Error(t, err)
}

func TestFetcherRejectsEmptySourceURL(t *testing.T) {
	f := NewHTTPFetcher(DefaultHTTPClient(), nil)

	_, err := f.Fetch(context.Background(), domain.CategoryNews, "   ")
	require.Error(t, err)
}
