package fetch

import (
	"context"
	"net/http"
)

// Fetcher performs one HTTP request.
// Implementations must send the headers set on req, including Cookie.
type Fetcher interface {
	Fetch(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Func adapts an ordinary function to Fetcher.
type Func func(ctx context.Context, req *http.Request) (*http.Response, error)

func (f Func) Fetch(ctx context.Context, req *http.Request) (*http.Response, error) {
	return f(ctx, req)
}

// FromClient adapts an *http.Client. A nil client means http.DefaultClient.
func FromClient(c *http.Client) Fetcher {
	if c == nil {
		c = http.DefaultClient
	}
	return Func(func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return c.Do(req.WithContext(ctx))
	})
}
