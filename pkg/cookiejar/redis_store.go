package cookiejar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "eid:cookies"

// RedisStore is a persistent Store keeping one hash per domain.
// Hash fields are cookie names, values are Set-Cookie serializations.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix sets the prefix of the per-domain hash keys.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL expires a domain hash ttl after its last write. Zero keeps it forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = max(ttl, 0)
	}
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: defaultRedisKeyPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	domain := NormalizeDomain(u.Host)
	if domain == "" {
		return "", ErrEmptyDomain
	}
	return s.prefix + ":" + domain, nil
}

// SetCookies stores the batch in a single MULTI/EXEC. Expired cookies are deleted.
func (s *RedisStore) SetCookies(ctx context.Context, rawURL string, cookies []*http.Cookie) error {
	key, err := s.key(rawURL)
	if err != nil {
		return err
	}
	now := s.now()

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, c := range cookies {
			if expired(c, now) {
				p.HDel(ctx, key, c.Name)
				continue
			}
			v := absolute(c, now).String()
			if v == "" {
				return fmt.Errorf("%w: %q", ErrInvalidCookie, c.Name)
			}
			p.HSet(ctx, key, c.Name, v)
		}
		if s.ttl > 0 {
			p.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Cookies(ctx context.Context, rawURL string) ([]*http.Cookie, error) {
	key, err := s.key(rawURL)
	if err != nil {
		return nil, err
	}

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	now := s.now()
	cookies := make([]*http.Cookie, 0, len(fields))
	for name, raw := range fields {
		c, err := http.ParseSetCookie(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: stored cookie %q: %v", ErrInvalidCookie, name, err)
		}
		if expired(c, now) {
			continue
		}
		cookies = append(cookies, c)
	}
	sort.Slice(cookies, func(a, b int) bool { return cookies[a].Name < cookies[b].Name })
	return cookies, nil
}

func expired(c *http.Cookie, now time.Time) bool {
	return c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now))
}

// absolute turns a relative Max-Age into an Expires so the stored value stays
// meaningful after a restart.
func absolute(c *http.Cookie, now time.Time) *http.Cookie {
	if c.MaxAge <= 0 {
		return c
	}
	cp := *c
	cp.Expires = now.Add(time.Duration(c.MaxAge) * time.Second).UTC()
	cp.MaxAge = 0
	return &cp
}
