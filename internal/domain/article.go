package domain

import "time"

// Domain contains the core models shared by parsers, cache and stores.

// Article is the unified record for one feed item: a news post, a calendar
// event, a lunch-menu day or a day's worth of announcements.
type Article struct {
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	URL      string    `json:"url"`
	Details  string    `json:"details"`
	ImageURL string    `json:"image_url"`
}

// Key returns the identity key used for dedup diagnostics. It is the URL when
// present, otherwise the title concatenated with the date. Not guaranteed
// globally unique.
func (a Article) Key() string {
	if a.URL != "" {
		return a.URL
	}
	return a.Title + a.Date.Format(time.RFC3339)
}

// Equals reports whether every field of both articles matches exactly. Dates
// compare as instants, so the same moment in different zones still matches.
func (a Article) Equals(other Article) bool {
	return a.Title == other.Title &&
		a.Date.Equal(other.Date) &&
		a.Details == other.Details &&
		a.URL == other.URL &&
		a.ImageURL == other.ImageURL
}

// SameDayOrAfter reports whether the article's date falls on the same calendar
// day as t or later, ignoring time of day.
func (a Article) SameDayOrAfter(t time.Time) bool {
	ay, am, ad := a.Date.In(t.Location()).Date()
	ty, tm, td := t.Date()
	if ay != ty {
		return ay > ty
	}
	if am != tm {
		return am > tm
	}
	return ad >= td
}
