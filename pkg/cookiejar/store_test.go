package cookiejar_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eidsession/pkg/cookiejar"
)

func newRedisStore(t *testing.T, opts ...cookiejar.RedisOption) (*cookiejar.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cookiejar.NewRedisStore(rdb, opts...), mr
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	jar := cookiejar.NewGenericJar(cookiejar.NewMemoryStore())

	require.NoError(t, jar.Write(ctx, "auth.example.com", []*http.Cookie{
		{Name: "sid", Value: "abc", Path: "/"},
	}))

	cookies, err := jar.Read(ctx, "auth.example.com")
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)

	other, err := jar.Read(ctx, "other.example.org")
	require.NoError(t, err)
	assert.Empty(t, other)

	// A negative Max-Age deletes.
	require.NoError(t, jar.Write(ctx, "auth.example.com", []*http.Cookie{{Name: "sid", Path: "/", MaxAge: -1}}))
	cookies, err = jar.Read(ctx, "auth.example.com")
	require.NoError(t, err)
	assert.Empty(t, cookies)
}

func TestRedisStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		store, _ := newRedisStore(t)
		jar := cookiejar.NewGenericJar(store)

		require.NoError(t, jar.Write(ctx, "auth.example.com", []*http.Cookie{
			{Name: "sid", Value: "abc", Path: "/", HttpOnly: true, Secure: true},
			{Name: "lang", Value: "sv", MaxAge: 3600},
		}))

		cookies, err := jar.Read(ctx, "auth.example.com")
		require.NoError(t, err)
		require.Len(t, cookies, 2)
		assert.Equal(t, "lang", cookies[0].Name)
		assert.False(t, cookies[0].Expires.IsZero(), "max-age is stored as an absolute expiry")
		assert.Equal(t, "sid", cookies[1].Name)
		assert.Equal(t, "abc", cookies[1].Value)
		assert.True(t, cookies[1].HttpOnly)
		assert.True(t, cookies[1].Secure)
	})

	t.Run("expired cookies are deleted", func(t *testing.T) {
		t.Parallel()
		store, mr := newRedisStore(t, cookiejar.WithKeyPrefix("test"))
		jar := cookiejar.NewGenericJar(store)

		require.NoError(t, jar.Write(ctx, "auth.example.com", []*http.Cookie{{Name: "sid", Value: "abc"}}))
		assert.True(t, mr.Exists("test:auth.example.com"))

		require.NoError(t, jar.Write(ctx, "auth.example.com", []*http.Cookie{
			{Name: "sid", Expires: time.Now().Add(-time.Hour)},
		}))
		cookies, err := jar.Read(ctx, "auth.example.com")
		require.NoError(t, err)
		assert.Empty(t, cookies)
	})

	t.Run("ttl is applied to the domain hash", func(t *testing.T) {
		t.Parallel()
		store, mr := newRedisStore(t, cookiejar.WithTTL(time.Hour))
		require.NoError(t, store.SetCookies(ctx, "https://auth.example.com/", []*http.Cookie{{Name: "sid", Value: "1"}}))
		assert.Equal(t, time.Hour, mr.TTL("eid:cookies:auth.example.com"))
	})

	t.Run("unknown domain is empty", func(t *testing.T) {
		t.Parallel()
		store, _ := newRedisStore(t)
		cookies, err := store.Cookies(ctx, "https://nothing.example.com/")
		require.NoError(t, err)
		assert.Empty(t, cookies)
	})

	t.Run("backend failure is a storage error", func(t *testing.T) {
		t.Parallel()
		store, mr := newRedisStore(t)
		mr.Close()

		err := cookiejar.NewGenericJar(store).Write(ctx, "auth.example.com", []*http.Cookie{{Name: "sid", Value: "1"}})
		assert.ErrorIs(t, err, cookiejar.ErrStorage)
	})
}

func TestHTTPJar(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/set":
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
		case "/echo":
			c, err := r.Cookie("sid")
			if err != nil {
				http.Error(w, "no cookie", http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(c.Value))
		}
	}))
	t.Cleanup(srv.Close)

	jar := cookiejar.NewGenericJar(cookiejar.NewMemoryStore())
	client := &http.Client{Jar: cookiejar.HTTPJar(jar, nil)}

	resp, err := client.Get(srv.URL + "/set")
	require.NoError(t, err)
	resp.Body.Close()

	stored, err := jar.Read(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	require.Len(t, stored, 1)

	resp, err = client.Get(srv.URL + "/echo")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
