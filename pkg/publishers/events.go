package publishers

import (
	"context"
	"time"

	"github.com/campusline/campusfeed/internal/logger"
)

// Event is the payload sent to every sink when a category's article list has
// been replaced. Downstream services (push senders, digest builders) decide
// what to do with it; delivering notifications to devices is their problem.
type Event struct {
	Category    string    `json:"category"`
	Count       int       `json:"count"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// Publisher delivers category-update events to one configured sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// ensureLogger substitutes the nop logger for nil.
func ensureLogger(log logger.Logger) logger.Logger {
	return logger.Ensure(log)
}
