package login

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/eidsession/pkg/cookiejar"
	"github.com/dmitrymomot/eidsession/pkg/events"
	"github.com/dmitrymomot/eidsession/pkg/fetch"
	"github.com/dmitrymomot/eidsession/pkg/logger"
)

// FakeToken is the challenge token of a test user login.
const FakeToken = "fake"

// Api is the session client. It owns the fetch port and the cookie jar and
// starts login attempts against the remote authority.
type Api struct {
	fetcher      fetch.Fetcher
	jar          cookiejar.Jar
	opts         fetch.Options
	domain       string
	log          *slog.Logger
	bus          *events.Bus[Event]
	loginTimeout time.Duration
	loggedIn     atomic.Bool
}

// Option configures an Api.
type Option func(*Api)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Api) {
		if l != nil {
			a.log = l
		}
	}
}

// WithLoginTimeout bounds the total duration of the polling phase of each
// login attempt. Zero means only the poll attempt budget applies.
func WithLoginTimeout(d time.Duration) Option {
	return func(a *Api) {
		a.loginTimeout = max(d, 0)
	}
}

// New creates a session client. opts is copied.
func New(f fetch.Fetcher, jar cookiejar.Jar, opts fetch.Options, options ...Option) (*Api, error) {
	if f == nil {
		return nil, ErrNilFetcher
	}
	if jar == nil {
		return nil, ErrNilJar
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	a := &Api{
		fetcher: f,
		jar:     jar,
		opts:    opts.Clone(),
		domain:  opts.Domain(),
		log:     logger.Discard(),
	}
	for _, opt := range options {
		opt(a)
	}
	a.log = a.log.With(logger.Component("login"))
	a.bus = events.New[Event](events.WithLogger(a.log))

	return a, nil
}

// LoginOption configures a single login attempt.
type LoginOption func(*Status)

// OnState subscribes h to state before the attempt starts, so h cannot miss
// an event.
func OnState(state State, h events.Handler[Event]) LoginOption {
	return func(s *Status) {
		s.On(state, h)
	}
}

// OnAny subscribes h to every state before the attempt starts.
func OnAny(h events.Handler[Event]) LoginOption {
	return func(s *Status) {
		s.OnAny(h)
	}
}

// Login starts a login attempt for identifier and returns its handle.
//
// The initiation request runs synchronously and its failures are returned.
// Polling then runs detached from ctx (its values are kept, its cancellation
// is not); use Status.Cancel to stop it. The handle is fully built, including
// the subscriptions given as options, before polling is scheduled.
//
// The configured test user never reaches the network: its token is FakeToken
// and the attempt goes straight from PENDING to OK.
func (a *Api) Login(ctx context.Context, identifier string, opts ...LoginOption) (*Status, error) {
	id := uuid.NewString()
	log := a.log.With(logger.LoginID(id))

	var c challenge
	testUser := a.opts.TestUser != "" && identifier == a.opts.TestUser
	if testUser {
		c = challenge{token: FakeToken, orderRef: FakeToken}
		log.InfoContext(ctx, "test user login")
	} else {
		var err error
		if c, err = a.initiate(ctx, identifier); err != nil {
			log.ErrorContext(ctx, "login initiation failed", logger.Error(err))
			return nil, err
		}
		log.InfoContext(ctx, "login initiated")
	}

	s := newStatus(id, c, testUser, a, log)
	for _, opt := range opts {
		opt(s)
	}

	base := context.WithoutCancel(ctx)
	var (
		loopCtx context.Context
		cancel  context.CancelFunc
	)
	if a.loginTimeout > 0 {
		loopCtx, cancel = context.WithTimeout(base, a.loginTimeout)
	} else {
		loopCtx, cancel = context.WithCancel(base)
	}
	s.cancel = cancel

	go s.run(loopCtx, base)

	return s, nil
}

// On subscribes to a session client topic (EventLogin or EventLogout).
// Unsubscribe the returned subscription to stop receiving events.
func (a *Api) On(topic string, h events.Handler[Event]) *events.Subscription {
	return a.bus.Subscribe(topic, h)
}

// IsLoggedIn reports whether a login attempt has succeeded since the last Logout.
func (a *Api) IsLoggedIn() bool {
	return a.loggedIn.Load()
}

// Options returns a copy of the options the client was built with.
func (a *Api) Options() fetch.Options {
	return a.opts.Clone()
}

// Logout ends the authenticated session at the remote authority. Cookies the
// authority sends back (typically expired ones) are written through the jar.
func (a *Api) Logout(ctx context.Context) error {
	req, err := a.newRequest(ctx, http.MethodPost, a.opts.LogoutPath, nil, nil)
	if err != nil {
		return err
	}
	resp, err := a.do(ctx, "logout", req)
	if err != nil {
		return err
	}
	if err := a.capture(ctx, resp.cookies); err != nil {
		return err
	}
	if !resp.ok() {
		return &ProtocolError{Op: "logout", StatusCode: resp.code}
	}

	a.loggedIn.Store(false)
	a.log.InfoContext(ctx, "logged out")
	a.bus.Emit(ctx, EventLogout, Event{At: time.Now()})
	return nil
}

// completed runs after s reached OK and its cookies were persisted.
func (a *Api) completed(ctx context.Context, s *Status) {
	a.loggedIn.Store(true)
	a.log.InfoContext(ctx, "login completed", logger.LoginID(s.id))
	a.bus.Emit(ctx, EventLogin, Event{
		LoginID: s.id,
		State:   StateOK,
		Token:   s.token,
		At:      time.Now(),
	})
}
