// Package fakeauthority is an in-process stand-in for the remote electronic-ID
// authority. It serves the initiation, status and logout endpoints with a
// scripted sequence of statuses per order and issues a session cookie once an
// order completes. It backs the login tests and cmd/eid-authority-stub.
package fakeauthority

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/eidsession/pkg/fetch"
	"github.com/dmitrymomot/eidsession/pkg/logger"
	"github.com/dmitrymomot/eidsession/pkg/requestid"
)

const (
	OrderCookie   = "eid_order"
	SessionCookie = "eid_session"
)

type order struct {
	identifier string
	polls      int
	completed  bool
}

// Authority is safe for concurrent use.
type Authority struct {
	paths  fetch.Options
	script []string
	log    *slog.Logger

	mu     sync.Mutex
	orders map[string]*order
}

type Option func(*Authority)

// WithScript sets the statuses returned by consecutive polls of every order.
// The last status repeats.
func WithScript(statuses ...string) Option {
	return func(a *Authority) {
		if len(statuses) > 0 {
			a.script = statuses
		}
	}
}

// WithPaths serves the endpoints at the paths of opts.
func WithPaths(opts fetch.Options) Option {
	return func(a *Authority) {
		a.paths = opts
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Authority) {
		if l != nil {
			a.log = l
		}
	}
}

func New(opts ...Option) *Authority {
	a := &Authority{
		paths:  fetch.DefaultOptions("http://localhost"),
		script: []string{"PENDING", "USER_SIGN", "OK"},
		log:    logger.Discard(),
		orders: make(map[string]*order),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(logger.Component("fakeauthority"))
	return a
}

// Handler returns the HTTP handler of the authority.
func (a *Authority) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Post(a.paths.InitPath, a.initiate)
	r.Get(a.paths.StatusPath, a.status)
	r.Post(a.paths.LogoutPath, a.logout)
	return r
}

// Polls returns how many status checks were answered for orderRef.
func (a *Authority) Polls(orderRef string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if o, ok := a.orders[orderRef]; ok {
		return o.polls
	}
	return 0
}

// Orders returns the number of initiated orders.
func (a *Authority) Orders() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.orders)
}

func (a *Authority) initiate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Identifier string `json:"identifier"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
	}

	ref := uuid.NewString()
	token := uuid.NewString()

	a.mu.Lock()
	a.orders[ref] = &order{identifier: body.Identifier}
	a.mu.Unlock()

	a.log.InfoContext(r.Context(), "order initiated", slog.String("order_ref", ref))
	http.SetCookie(w, &http.Cookie{Name: OrderCookie, Value: ref, Path: "/", HttpOnly: true})
	writeJSON(w, map[string]string{"token": token, "orderRef": ref, "status": "PENDING"})
}

func (a *Authority) status(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("orderRef")

	a.mu.Lock()
	o, ok := a.orders[ref]
	if !ok {
		a.mu.Unlock()
		http.Error(w, "unknown order", http.StatusNotFound)
		return
	}
	st := a.script[min(o.polls, len(a.script)-1)]
	o.polls++
	completed := st == "OK" || st == "COMPLETE"
	o.completed = o.completed || completed
	a.mu.Unlock()

	if completed {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    uuid.NewString(),
			Path:     "/",
			HttpOnly: true,
			Expires:  time.Now().Add(time.Hour),
		})
	}
	writeJSON(w, map[string]string{"status": st})
}

func (a *Authority) logout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(SessionCookie); err != nil {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
