package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response exposes the subset of an HTTP response the feed pipeline needs.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client is the minimal HTTP surface used by feed fetchers. Implementations
// must be safe for concurrent use.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

type restyClient struct {
	client *resty.Client
}

type restyResponse struct {
	resp *resty.Response
}

func (r restyResponse) StatusCode() int { return r.resp.StatusCode() }
func (r restyResponse) Body() []byte    { return r.resp.Body() }

// NewRestyClient builds a resty-backed Client with the given request timeout.
func NewRestyClient(timeout time.Duration) Client {
	c := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json, application/atom+xml, application/xml;q=0.9, */*;q=0.8")
	return &restyClient{client: c}
}

// Get issues a GET request with the provided headers.
func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := c.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return restyResponse{resp: resp}, nil
}
