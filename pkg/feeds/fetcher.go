package feeds

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/campusline/campusfeed/internal/domain"
	"github.com/campusline/campusfeed/internal/logger"
	"github.com/campusline/campusfeed/pkg/httpclient"
)

const defaultFetchTimeout = 15 * time.Second

// timeMinLayout renders local midnight with the zone offset, e.g.
// 2017-11-20T00:00:00-05:00. Calendar queries are scoped to the present and
// future with this value.
const timeMinLayout = "2006-01-02T15:04:05Z07:00"

// DefaultHTTPClient returns a tuned resty client for feed fetching.
func DefaultHTTPClient() httpclient.Client {
	return httpclient.NewRestyClient(defaultFetchTimeout)
}

// HTTPFetcher downloads a category's remote feed and runs it through the
// parser the category's format calls for.
type HTTPFetcher struct {
	client  httpclient.Client
	log     logger.Logger
	parsers map[domain.Format]Parser
	now     func() time.Time
}

// NewHTTPFetcher wires up a fetcher with one parser per wire format.
func NewHTTPFetcher(client httpclient.Client, log logger.Logger) *HTTPFetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	log = logger.Ensure(log)

	return &HTTPFetcher{
		client: client,
		log:    log,
		parsers: map[domain.Format]Parser{
			domain.FormatCalendar: NewCalendarParser(log),
			domain.FormatBlog:     NewBlogParser(log),
			domain.FormatSites:    NewSitesParser(log),
		},
		now: time.Now,
	}
}

// Fetch downloads and parses the feed for one category. Transport errors and
// non-2xx responses fail the whole operation; a response that parses to zero
// entries succeeds with an empty list.
func (f *HTTPFetcher) Fetch(ctx context.Context, category domain.Category, sourceURL string) ([]domain.Article, error) {
	settings, ok := domain.SettingsFor(category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	if strings.TrimSpace(sourceURL) == "" {
		return nil, fmt.Errorf("category %q has no source url configured", category)
	}

	parser, ok := f.parsers[settings.Format]
	if !ok {
		return nil, fmt.Errorf("no parser registered for format %q", settings.Format)
	}

	feedURL := sourceURL
	if settings.Format == domain.FormatCalendar {
		feedURL = appendTimeMin(sourceURL, f.now())
	}

	resp, err := f.client.Get(ctx, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s feed: %w", category, err)
	}

	body := resp.Body()
	if resp.StatusCode()/100 != 2 {
		return nil, fmt.Errorf("%s feed returned status %d body: %s: %w",
			category, resp.StatusCode(), responseSnippet(body), ErrUnexpectedStatus)
	}

	articles := parser.Parse(body)
	f.log.DebugObj("feed fetched", "feed_fetch", map[string]any{
		"category": category.String(),
		"articles": len(articles),
		"bytes":    len(body),
	})
	return articles, nil
}

// appendTimeMin scopes a calendar query to items starting today or later by
// adding a timeMin parameter set to local midnight.
func appendTimeMin(sourceURL string, now time.Time) string {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sep := "?"
	if strings.Contains(sourceURL, "?") {
		sep = "&"
	}
	return sourceURL + sep + "timeMin=" + url.QueryEscape(midnight.Format(timeMinLayout))
}

// responseSnippet returns a truncated snippet of the response body for logging.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
