package feeds

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/campusline/campusfeed/internal/domain"
	"github.com/campusline/campusfeed/internal/logger"
)

// sitesFeed mirrors the Atom shape of the announcements site feed:
//
//	<feed>
//	  <entry>
//	    <title>Announcements for Nov. 12, 2017</title>
//	    <published>2017-11-12T07:30:00.610Z</published>
//	    <content><div><h1>...</h1><p>...</p></div></content>
//	    <link rel="alternate" href="https://..."/>
//	  </entry>
//	</feed>
type sitesFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []sitesEntry `xml:"entry"`
}

type sitesEntry struct {
	Title     string       `xml:"title"`
	Published string       `xml:"published"`
	Content   sitesContent `xml:"content"`
	Links     []sitesLink  `xml:"link"`
}

// sitesContent keeps the entry body as raw inner markup. One entry carries a
// full day's worth of concatenated announcements, so the markup is passed
// through verbatim rather than stripped.
type sitesContent struct {
	Inner string `xml:",innerxml"`
}

type sitesLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

// SitesParser parses the Atom XML feed of daily announcements.
type SitesParser struct {
	log logger.Logger
}

// NewSitesParser builds a parser for announcement Atom documents.
func NewSitesParser(log logger.Logger) *SitesParser {
	return &SitesParser{log: logger.Ensure(log)}
}

// Parse converts an Atom document into articles. A document that fails XML
// decoding yields an empty result; entries without a parseable published
// date are dropped. The article URL comes from the link with rel="alternate",
// or stays empty when no link matches.
func (p *SitesParser) Parse(data []byte) []domain.Article {
	articles := make([]domain.Article, 0)

	var feed sitesFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		p.log.WarnObj("sites feed is not well-formed xml", "sites_decode_error", map[string]any{
			"error": err.Error(),
		})
		return articles
	}

	for _, entry := range feed.Entries {
		date, err := time.Parse(time.RFC3339, strings.TrimSpace(entry.Published))
		if err != nil {
			continue
		}

		articles = append(articles, domain.Article{
			Title:   entry.Title,
			Date:    date,
			URL:     alternateLink(entry.Links),
			Details: entry.Content.Inner,
		})
	}
	return articles
}

// alternateLink returns the href of the first link whose rel is "alternate".
func alternateLink(links []sitesLink) string {
	for _, link := range links {
		if link.Rel == "alternate" {
			return link.Href
		}
	}
	return ""
}
