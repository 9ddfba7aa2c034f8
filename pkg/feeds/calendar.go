package feeds

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/campusline/campusfeed/internal/domain"
	"github.com/campusline/campusfeed/internal/logger"
)

const calendarDateLayout = "2006-01-02"

// calendarFeed mirrors the Google Calendar API response shape:
//
//	{ "items": [ { "summary": "A Day",
//	               "description": "7:30 - 8:42 A block ...",
//	               "start": { "date": "2017-10-12" },
//	               "selfLink": "https://..." } ] }
type calendarFeed struct {
	Items []calendarItem `json:"items"`
}

type calendarItem struct {
	Summary     string        `json:"summary"`
	Description string        `json:"description"`
	Start       calendarStart `json:"start"`
	SelfLink    string        `json:"selfLink"`
}

// calendarStart holds either a date-only start or a full date-time start.
type calendarStart struct {
	Date     string `json:"date"`
	DateTime string `json:"dateTime"`
}

// CalendarParser parses calendar-format JSON feeds (schedules, events,
// lunch menus).
type CalendarParser struct {
	log logger.Logger
}

// NewCalendarParser builds a parser for calendar JSON documents.
func NewCalendarParser(log logger.Logger) *CalendarParser {
	return &CalendarParser{log: logger.Ensure(log)}
}

// Parse converts a calendar JSON document into articles. Items without a
// parseable start date are dropped; every other field defaults to empty.
func (p *CalendarParser) Parse(data []byte) []domain.Article {
	articles := make([]domain.Article, 0)

	var feed calendarFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		p.log.WarnObj("calendar feed is not valid json", "calendar_decode_error", map[string]any{
			"error": err.Error(),
		})
		return articles
	}

	for _, item := range feed.Items {
		date, ok := parseStartDate(item.Start)
		if !ok {
			continue
		}

		details := item.Description
		if strings.Contains(details, "<p>") {
			details = htmlToText(details)
		}

		articles = append(articles, domain.Article{
			Title:   item.Summary,
			Date:    date,
			URL:     item.SelfLink,
			Details: details,
		})
	}
	return articles
}

// parseStartDate derives the event start. The date-only form wins over the
// date-time form; a date-only start means local midnight of that day.
func parseStartDate(start calendarStart) (time.Time, bool) {
	if raw := strings.TrimSpace(start.Date); raw != "" {
		if t, err := time.ParseInLocation(calendarDateLayout, raw, time.Local); err == nil {
			return t, true
		}
	}
	if raw := strings.TrimSpace(start.DateTime); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
