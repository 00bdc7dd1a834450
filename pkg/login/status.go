package login

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/eidsession/pkg/async"
	"github.com/dmitrymomot/eidsession/pkg/events"
	"github.com/dmitrymomot/eidsession/pkg/logger"
)

// anyTopic receives every event of a Status after the per-state handlers.
const anyTopic = "*"

// Status is the handle of one login attempt. Its state only moves forward:
// PENDING, optionally USER_SIGN, then exactly one of OK, ERROR or CANCELLED.
// Nothing is emitted after the terminal state.
type Status struct {
	id       string
	token    string
	orderRef string
	testUser bool

	api     *Api
	log     *slog.Logger
	bus     *events.Bus[Event]
	cancel  context.CancelFunc
	stopped *async.Promise[State]

	mu    sync.RWMutex
	state State
	err   error
}

func newStatus(id string, c challenge, testUser bool, a *Api, log *slog.Logger) *Status {
	return &Status{
		id:       id,
		token:    c.token,
		orderRef: c.orderRef,
		testUser: testUser,
		api:      a,
		log:      log,
		bus:      events.New[Event](events.WithLogger(log)),
		stopped:  async.NewPromise[State](),
		state:    StateInit,
	}
}

// ID identifies the attempt in logs and events.
func (s *Status) ID() string {
	return s.id
}

// Token is the opaque challenge token to hand to the authenticator.
func (s *Status) Token() string {
	return s.token
}

func (s *Status) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err is the error detail of an ERROR state, nil otherwise.
func (s *Status) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// On subscribes h to transitions into state. Handlers run on the polling
// goroutine in subscription order, before the next poll is issued. Events
// emitted before the call are not replayed; use OnState to subscribe before
// the attempt starts.
func (s *Status) On(state State, h events.Handler[Event]) *events.Subscription {
	return s.bus.Subscribe(state.Name(), h)
}

// OnAny subscribes h to every transition.
func (s *Status) OnAny(h events.Handler[Event]) *events.Subscription {
	return s.bus.Subscribe(anyTopic, h)
}

// Cancel asks the attempt to stop. If it is not terminal yet it ends in
// CANCELLED; a poll in flight is left to finish and its result is dropped.
// Calling Cancel on a terminal attempt, or more than once, has no effect.
// The returned future settles with the final state once polling has stopped;
// do not await it from inside a handler of the same attempt.
func (s *Status) Cancel() *async.Future[State] {
	if s.cancel != nil {
		s.cancel()
	}
	return s.stopped.Future()
}

// Done is closed once the attempt is terminal and all its handlers have run.
func (s *Status) Done() <-chan struct{} {
	return s.stopped.Future().Done()
}

// Wait blocks until the attempt is terminal or ctx is done. It returns the
// terminal state and, for ERROR, the error detail. CANCELLED is not an error.
func (s *Status) Wait(ctx context.Context) (State, error) {
	st, err := s.stopped.Future().AwaitContext(ctx)
	if err != nil {
		return s.State(), err
	}
	return st, s.Err()
}

// run drives the attempt. ctx carries cancellation and the time budget; base
// is the uncancellable parent used for requests and handlers.
func (s *Status) run(ctx, base context.Context) {
	defer func() {
		s.cancel()
		s.stopped.Resolve(s.State(), nil)
	}()

	s.fire(base, StatePending, nil)

	if s.testUser {
		if s.fire(base, StateOK, nil) {
			s.api.completed(base, s)
		}
		return
	}

	opts := s.api.opts
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			s.interrupt(ctx, base)
			return
		}
		if attempt > opts.MaxPollAttempts {
			s.fire(base, StateError, ErrPollBudgetExceeded)
			return
		}

		resp, err := s.poll(ctx, base)
		if ctx.Err() != nil {
			s.interrupt(ctx, base)
			return
		}
		if err != nil {
			s.log.WarnContext(base, "poll failed", logger.Attempt(attempt), logger.Error(err))
			s.fire(base, StateError, err)
			return
		}
		if s.handle(base, resp, attempt) {
			return
		}

		timer := time.NewTimer(opts.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.interrupt(ctx, base)
			return
		case <-timer.C:
		}
	}
}

// poll issues one status check on base so cancellation does not abort it,
// but stops waiting for it as soon as ctx is done.
func (s *Status) poll(ctx, base context.Context) (*response, error) {
	type result struct {
		resp *response
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := s.api.fetchStatus(base, s.orderRef)
		ch <- result{resp, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.resp, r.err
	}
}

// handle applies one poll response and reports whether the attempt is over.
func (s *Status) handle(ctx context.Context, resp *response, attempt int) bool {
	if err := s.api.capture(ctx, resp.cookies); err != nil {
		s.fire(ctx, StateError, err)
		return true
	}
	if !resp.ok() {
		s.fire(ctx, StateError, &ProtocolError{Op: "poll", StatusCode: resp.code})
		return true
	}

	raw, hint := parseStatus(resp.body)
	st, err := remoteState(raw)
	if err != nil {
		s.fire(ctx, StateError, err)
		return true
	}
	s.log.DebugContext(ctx, "poll answered", logger.Attempt(attempt), logger.State(raw))

	switch st {
	case StateOK:
		if s.fire(ctx, StateOK, nil) {
			s.api.completed(ctx, s)
		}
		return true
	case StateError:
		s.fire(ctx, StateError, &RejectedError{Status: raw, Hint: hint})
		return true
	default:
		s.fire(ctx, st, nil)
		return false
	}
}

// interrupt ends an attempt whose loop context is done.
func (s *Status) interrupt(ctx, base context.Context) {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		s.fire(base, StateError, ErrLoginTimeout)
		return
	}
	s.fire(base, StateCancelled, nil)
}

// fire commits a transition and then notifies subscribers. It reports whether
// the transition was committed. Only the polling goroutine calls it.
func (s *Status) fire(ctx context.Context, to State, cause error) bool {
	s.mu.Lock()
	from := s.state
	if from.Terminal() {
		s.mu.Unlock()
		return false
	}
	to = settle(from, to)
	if !canTransition(from, to) {
		s.mu.Unlock()
		s.log.WarnContext(ctx, "transition refused",
			logger.Transition(from.Name(), to.Name()),
			logger.Error(ErrInvalidTransition),
		)
		return false
	}
	s.state = to
	if to == StateError {
		s.err = cause
	}
	s.mu.Unlock()

	if !emits(from, to) {
		return true
	}

	level := slog.LevelDebug
	if to.Terminal() {
		level = slog.LevelInfo
	}
	s.log.Log(ctx, level, "state changed", logger.Transition(from.Name(), to.Name()), logger.Error(cause))

	ev := Event{
		LoginID: s.id,
		State:   to,
		Token:   s.token,
		Err:     cause,
		At:      time.Now(),
	}
	s.bus.Emit(ctx, to.Name(), ev)
	s.bus.Emit(ctx, anyTopic, ev)
	return true
}
