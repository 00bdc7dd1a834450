package cookiejar

import (
	"context"
	"net/http"
)

// GenericJar adapts a Store to Jar.
type GenericJar struct {
	store Store
	locks domainLocks
}

var _ Jar = (*GenericJar)(nil)

// NewGenericJar wraps a generic cookie store.
func NewGenericJar(s Store) *GenericJar {
	return &GenericJar{store: s}
}

func (j *GenericJar) Read(ctx context.Context, domain string) ([]*http.Cookie, error) {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return nil, readError(domain, ErrEmptyDomain)
	}

	lock := j.locks.get(domain)
	lock.RLock()
	defer lock.RUnlock()

	cookies, err := j.store.Cookies(ctx, domainURL(domain))
	if err != nil {
		return nil, readError(domain, err)
	}
	return cookies, nil
}

func (j *GenericJar) Write(ctx context.Context, domain string, cookies []*http.Cookie) error {
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

	if err := j.store.SetCookies(ctx, domainURL(domain), cookies); err != nil {
		return writeError(domain, err)
	}
	return nil
}
