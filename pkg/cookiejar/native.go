package cookiejar

import (
	"context"
	"net/http"
	"sort"
)

// NativeManagerJar adapts a NativeManager to Jar.
type NativeManagerJar struct {
	manager NativeManager
	locks   domainLocks
}

var _ Jar = (*NativeManagerJar)(nil)

// NewNativeManagerJar wraps a platform cookie manager.
func NewNativeManagerJar(m NativeManager) *NativeManagerJar {
	return &NativeManagerJar{manager: m}
}

func (j *NativeManagerJar) Read(ctx context.Context, domain string) ([]*http.Cookie, error) {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return nil, readError(domain, ErrEmptyDomain)
	}

	lock := j.locks.get(domain)
	lock.RLock()
	defer lock.RUnlock()

	byName, err := j.manager.Get(ctx, domainURL(domain))
	if err != nil {
		return nil, readError(domain, err)
	}

	cookies := make([]*http.Cookie, 0, len(byName))
	for name, c := range byName {
		if c == nil {
			continue
		}
		if c.Name == "" {
			c.Name = name
		}
		cookies = append(cookies, c)
	}
	sort.Slice(cookies, func(a, b int) bool { return cookies[a].Name < cookies[b].Name })
	return cookies, nil
}

// Write stores cookies one by one through the manager. The first failure
// aborts the batch.
func (j *NativeManagerJar) Write(ctx context.Context, domain string, cookies []*http.Cookie) error {
	domain = NormalizeDomain(domain)
	if err := validate(domain, cookies); err != nil {
		return writeError(domain, err)
	}
	if len(cookies) == 0 {
		return nil
	}

	lock := j.locks.get(domain)
	lock.Lock()
	defer lock.Unlock()

	u := domainURL(domain)
	for _, c := range cookies {
		if err := j.manager.Set(ctx, u, c); err != nil {
			return writeError(domain, err)
		}
	}
	return nil
}
