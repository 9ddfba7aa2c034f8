package domain

import (
	"fmt"
	"strings"
)

// Category identifies one of the fixed content types the app syncs.
type Category string

const (
	CategorySchedules Category = "schedules"
	CategoryEvents    Category = "events"
	CategoryLunch     Category = "lunch"
	CategoryDailyAnn  Category = "dailyann"
	CategoryNews      Category = "news"
)

// Format selects the wire format a category's remote feed uses.
type Format string

const (
	FormatCalendar Format = "calendar"
	FormatBlog     Format = "blog"
	FormatSites    Format = "sites"
)

// Direction selects which way a category's default query looks in time.
type Direction string

const (
	// DirectionFuture keeps articles dated today or later.
	DirectionFuture Direction = "future"
	// DirectionPast keeps the newest articles as ordered by the feed.
	DirectionPast Direction = "past"
)

// Settings fixes everything a category implies: the feed format, the default
// query direction and the cache key. Looked up from a single table instead of
// switching on the category at every call site.
type Settings struct {
	Format    Format
	Direction Direction
	CacheKey  string
}

var categorySettings = map[Category]Settings{
	CategorySchedules: {Format: FormatCalendar, Direction: DirectionFuture, CacheKey: "articles-schedules"},
	CategoryEvents:    {Format: FormatCalendar, Direction: DirectionFuture, CacheKey: "articles-events"},
	CategoryLunch:     {Format: FormatCalendar, Direction: DirectionFuture, CacheKey: "articles-lunch"},
	CategoryDailyAnn:  {Format: FormatSites, Direction: DirectionPast, CacheKey: "articles-dailyann"},
	CategoryNews:      {Format: FormatBlog, Direction: DirectionPast, CacheKey: "articles-news"},
}

// Categories returns the fixed set of categories in presentation order.
func Categories() []Category {
	return []Category{
		CategorySchedules,
		CategoryEvents,
		CategoryLunch,
		CategoryDailyAnn,
		CategoryNews,
	}
}

// SettingsFor returns the settings record for the given category.
func SettingsFor(c Category) (Settings, bool) {
	s, ok := categorySettings[c]
	return s, ok
}

// ParseCategory normalizes a category name received from config or an
// external trigger.
func ParseCategory(name string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := categorySettings[c]; !ok {
		return "", fmt.Errorf("unknown category %q", name)
	}
	return c, nil
}

func (c Category) String() string { return string(c) }
