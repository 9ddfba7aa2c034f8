package publishers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func httpConfig(url string) PublisherConfig {
	return sanitizePublisherConfig(PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{
			URL:     url,
			Headers: map[string]string{"X-Token": "abc"},
		},
	})
}

func TestHTTPPublisherDeliversEvent(t *testing.T) {
	var got Event
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), httpConfig(srv.URL), nil)
	require.NoError(t, err)

	evt := Event{Category: "news", Count: 3, RefreshedAt: time.Now()}
	require.NoError(t, pub.Publish(context.Background(), evt))

	assert.Equal(t, "news", got.Category)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, "abc", gotToken)
}

func TestHTTPPublisherNon2xxIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), httpConfig(srv.URL), nil)
	require.NoError(t, err)

	assert.Error(t, pub.Publish(context.Background(), Event{Category: "news"}))
}

func TestRegistryBuildsKnownTypes(t *testing.T) {
	reg := DefaultRegistry()

	pub, err := reg.PublisherFor(context.Background(), httpConfig("https://x/y"), nil)
	require.NoError(t, err)
	assert.Equal(t, "hook", pub.ID())
	assert.Equal(t, TypeHTTP, pub.Type())

	_, err = reg.PublisherFor(context.Background(), PublisherConfig{ID: "p", Type: "pigeon"}, nil)
	assert.Error(t, err)
}

func TestPublishAllSurvivesFailingSink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), httpConfig(srv.URL), nil)
	require.NoError(t, err)

	// Must not panic or abort; failures are logged and swallowed.
	PublishAll(context.Background(), []Publisher{pub}, Event{Category: "news"}, nil)
}
