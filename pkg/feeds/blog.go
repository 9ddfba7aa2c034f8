package feeds

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/campusline/campusfeed/internal/domain"
	"github.com/campusline/campusfeed/internal/logger"
)

// blogFeed mirrors the Blogger API response shape:
//
//	{ "items": [ { "title": "...",
//	               "content": "<p>...<img src=...></p>",
//	               "published": "2017-11-24T07:30:00-04:00",
//	               "selfLink": "https://..." } ] }
type blogFeed struct {
	Items []blogItem `json:"items"`
}

type blogItem struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published string `json:"published"`
	SelfLink  string `json:"selfLink"`
}

// BlogParser parses blog-format JSON feeds (news posts).
type BlogParser struct {
	log logger.Logger
}

// NewBlogParser builds a parser for blog JSON documents.
func NewBlogParser(log logger.Logger) *BlogParser {
	return &BlogParser{log: logger.Ensure(log)}
}

// Parse converts a blog JSON document into articles. When a post's content
// embeds an image, the first image's src becomes the article ImageURL and
// that tag is removed from the stored details; the rest of the markup is
// kept. Items without a parseable published date are dropped.
func (p *BlogParser) Parse(data []byte) []domain.Article {
	articles := make([]domain.Article, 0)

	var feed blogFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		p.log.WarnObj("blog feed is not valid json", "blog_decode_error", map[string]any{
			"error": err.Error(),
		})
		return articles
	}

	for _, item := range feed.Items {
		date, err := time.Parse(time.RFC3339, strings.TrimSpace(item.Published))
		if err != nil {
			continue
		}

		imageURL, details := extractFirstImage(item.Content)

		articles = append(articles, domain.Article{
			Title:    item.Title,
			Date:     date,
			URL:      item.SelfLink,
			Details:  details,
			ImageURL: imageURL,
		})
	}
	return articles
}
