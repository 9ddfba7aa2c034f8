package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/campusline/campusfeed/internal/logger"
)

// httpPublisher posts events to a generic webhook sink.
type httpPublisher struct {
	id      string
	typ     string
	url     string
	method  string
	headers map[string]string
	client  *resty.Client
	log     logger.Logger
}

// newHTTPPublisher creates a webhook publisher from its declaration.
func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	client := resty.New().
		SetTimeout(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json")

	return &httpPublisher{
		id:      cfg.ID,
		typ:     cfg.Type,
		url:     cfg.HTTP.URL,
		method:  cfg.HTTP.Method,
		headers: cfg.HTTP.Headers,
		client:  client,
		log:     ensureLogger(log),
	}, nil
}

func (p *httpPublisher) ID() string   { return p.id }
func (p *httpPublisher) Type() string { return p.typ }

// Publish sends the event as a JSON body to the configured URL.
func (p *httpPublisher) Publish(ctx context.Context, evt Event) error {
	req := p.client.R().
		SetContext(ctx).
		SetBody(evt)
	if len(p.headers) > 0 {
		req.SetHeaders(p.headers)
	}

	resp, err := req.Execute(p.method, p.url)
	if err != nil {
		p.log.ErrorObj("http publisher send failed", "publisher_http_error", map[string]any{
			"url":   p.url,
			"error": err.Error(),
		})
		return fmt.Errorf("send event to %s: %w", p.url, err)
	}

	if resp.StatusCode()/100 != 2 {
		return fmt.Errorf("sink %s returned status %d", p.url, resp.StatusCode())
	}

	p.log.DebugObj("http publisher delivered event", "publisher_http_delivery", map[string]any{
		"url":    p.url,
		"status": resp.StatusCode(),
	})
	return nil
}
