package cookiejar

import (
	"context"
	"net/http"
	stdjar "net/http/cookiejar"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

// MemoryStore is an in-memory Store backed by net/http/cookiejar.
// Domain and path matching follow RFC 6265 with the public suffix list.
type MemoryStore struct {
	jar *stdjar.Jar
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	// stdjar.New never fails.
	jar, _ := stdjar.New(&stdjar.Options{PublicSuffixList: publicsuffix.List})
	return &MemoryStore{jar: jar}
}

func (s *MemoryStore) SetCookies(_ context.Context, rawURL string, cookies []*http.Cookie) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	s.jar.SetCookies(u, cookies)
	return nil
}

func (s *MemoryStore) Cookies(_ context.Context, rawURL string) ([]*http.Cookie, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return s.jar.Cookies(u), nil
}
