package login_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eidsession/pkg/cookiejar"
	"github.com/dmitrymomot/eidsession/pkg/fetch"
	"github.com/dmitrymomot/eidsession/pkg/login"
)

const testBaseURL = "https://auth.example.com"

func testOptions() fetch.Options {
	opts := fetch.DefaultOptions(testBaseURL)
	opts.PollInterval = 2 * time.Millisecond
	opts.Timeout = time.Second
	opts.MaxPollAttempts = 50
	return opts
}

func jsonResponse(code int, body string, cookies ...*http.Cookie) *http.Response {
	h := http.Header{"Content-Type": {"application/json"}}
	for _, c := range cookies {
		h.Add("Set-Cookie", c.String())
	}
	return &http.Response{
		StatusCode: code,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// authorityDouble answers the init and status paths from canned bodies.
// The last poll body repeats.
type authorityDouble struct {
	initCode int
	initBody string
	initErr  error
	polls    []string
	pollCode int
	pollErr  error

	mu      sync.Mutex
	inits   int
	pollN   int
	cookies []string
}

func newDouble(polls ...string) *authorityDouble {
	return &authorityDouble{
		initCode: http.StatusOK,
		initBody: `{"token":"tok-1","orderRef":"ref-1","status":"PENDING"}`,
		polls:    polls,
		pollCode: http.StatusOK,
	}
}

func (d *authorityDouble) Fetch(_ context.Context, req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cookies = append(d.cookies, req.Header.Get("Cookie"))

	switch req.URL.Path {
	case "/auth/bankid/init":
		d.inits++
		if d.initErr != nil {
			return nil, d.initErr
		}
		return jsonResponse(d.initCode, d.initBody, &http.Cookie{Name: "order", Value: "ref-1"}), nil
	case "/auth/bankid/status":
		d.pollN++
		if d.pollErr != nil {
			return nil, d.pollErr
		}
		body := d.polls[min(d.pollN, len(d.polls))-1]
		var cookies []*http.Cookie
		if strings.Contains(body, `"OK"`) {
			cookies = append(cookies, &http.Cookie{Name: "session", Value: "s3cr3t"})
		}
		return jsonResponse(d.pollCode, body, cookies...), nil
	}
	return jsonResponse(http.StatusNotFound, `{}`), nil
}

func (d *authorityDouble) Polls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pollN
}

func (d *authorityDouble) CookieHeaders() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.cookies...)
}

// recorder collects events in emission order.
type recorder struct {
	mu     sync.Mutex
	events []login.Event
}

func (r *recorder) Handle(_ context.Context, e login.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) States() []login.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	states := make([]login.State, 0, len(r.events))
	for _, e := range r.events {
		states = append(states, e.State)
	}
	return states
}

func (r *recorder) Events() []login.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]login.Event(nil), r.events...)
}

// MockJar is a mock implementation of cookiejar.Jar.
type MockJar struct {
	mock.Mock
}

func (m *MockJar) Read(ctx context.Context, domain string) ([]*http.Cookie, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*http.Cookie), args.Error(1)
}

func (m *MockJar) Write(ctx context.Context, domain string, cookies []*http.Cookie) error {
	args := m.Called(ctx, domain, cookies)
	return args.Error(0)
}

func memoryJar() *cookiejar.GenericJar {
	return cookiejar.NewGenericJar(cookiejar.NewMemoryStore())
}

func newAPI(t *testing.T, f fetch.Fetcher, jar cookiejar.Jar, opts fetch.Options, options ...login.Option) *login.Api {
	t.Helper()
	api, err := login.New(f, jar, opts, options...)
	require.NoError(t, err)
	return api
}

func wait(t *testing.T, s *login.Status) (login.State, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := s.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "login attempt did not finish")
	return st, err
}
