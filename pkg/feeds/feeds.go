package feeds

import (
	"context"
	"errors"

	"github.com/campusline/campusfeed/internal/domain"
)

// Package feeds turns the three remote wire formats into the unified article
// model. One parser per format, plus an HTTP fetcher that picks the parser
// and endpoint for a category.

// Parser converts one raw feed document into articles. Malformed entries are
// skipped individually; a malformed document yields an empty, non-nil slice.
// Parse never returns an error: a batch is worth whatever entries survived.
type Parser interface {
	Parse(data []byte) []domain.Article
}

// Fetcher resolves a category's remote feed into parsed articles.
type Fetcher interface {
	Fetch(ctx context.Context, category domain.Category, sourceURL string) ([]domain.Article, error)
}

// ErrUnexpectedStatus marks a non-2xx response from a feed endpoint.
var ErrUnexpectedStatus = errors.New("unexpected feed response status")
