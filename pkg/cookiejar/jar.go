package cookiejar

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
)

// Jar is the contract the login engine uses to attach and capture cookies.
type Jar interface {
	// Read returns the cookies stored for domain.
	Read(ctx context.Context, domain string) ([]*http.Cookie, error)
	// Write stores cookies for domain. The batch is applied as a unit with
	// respect to other reads and writes of the same domain.
	Write(ctx context.Context, domain string, cookies []*http.Cookie) error
}

// NativeManager is a platform cookie manager keyed by URL.
type NativeManager interface {
	Get(ctx context.Context, url string) (map[string]*http.Cookie, error)
	Set(ctx context.Context, url string, cookie *http.Cookie) error
}

// Store is a generic cookie jar that stores and retrieves batches by URL.
type Store interface {
	SetCookies(ctx context.Context, url string, cookies []*http.Cookie) error
	Cookies(ctx context.Context, url string) ([]*http.Cookie, error)
}

// NormalizeDomain lowercases domain and strips a leading dot, a scheme and a port.
func NormalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+3:]
	}
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	if host, _, err := net.SplitHostPort(d); err == nil {
		d = host
	}
	return strings.TrimPrefix(d, ".")
}

// domainURL is the URL both backends are keyed by for a domain.
func domainURL(domain string) string {
	return "https://" + domain + "/"
}

// domainLocks hands out one RWMutex per domain.
type domainLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func (l *domainLocks) get(domain string) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.RWMutex)
	}
	m, ok := l.locks[domain]
	if !ok {
		m = &sync.RWMutex{}
		l.locks[domain] = m
	}
	return m
}

func validate(domain string, cookies []*http.Cookie) error {
	if domain == "" {
		return ErrEmptyDomain
	}
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			return ErrInvalidCookie
		}
	}
	return nil
}
