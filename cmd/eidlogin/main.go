// Command eidlogin runs one login against the remote authority configured in
// the environment, prints the autostart link and a QR code for the
// authenticator app, and follows the attempt until it ends. Ctrl-C cancels.
//
// Cookies live in memory unless EID_REDIS_URL is set, in which case the
// session survives restarts and `eidlogin -logout` can end it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/eidsession/pkg/config"
	"github.com/dmitrymomot/eidsession/pkg/cookiejar"
	"github.com/dmitrymomot/eidsession/pkg/fetch"
	"github.com/dmitrymomot/eidsession/pkg/handoff"
	"github.com/dmitrymomot/eidsession/pkg/logger"
	"github.com/dmitrymomot/eidsession/pkg/login"
	"github.com/dmitrymomot/eidsession/pkg/redis"
)

type appConfig struct {
	Identifier   string        `env:"EID_IDENTIFIER"`
	Redirect     string        `env:"EID_REDIRECT"`
	LoginTimeout time.Duration `env:"EID_LOGIN_TIMEOUT" envDefault:"3m"`
	CookieTTL    time.Duration `env:"EID_COOKIE_TTL" envDefault:"24h"`
	LogLevel     string        `env:"EID_LOG_LEVEL" envDefault:"info"`
	LogFormat    string        `env:"EID_LOG_FORMAT" envDefault:"text"`
	Redis        redis.Config
}

var errCancelled = errors.New("login cancelled")

func main() {
	logout := flag.Bool("logout", false, "end the stored session instead of logging in")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: eidlogin [-logout] [identifier]")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*logout, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "eidlogin:", err)
		os.Exit(1)
	}
}

func run(logout bool, identifier string) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	opts, err := fetch.LoadOptions()
	if err != nil {
		return err
	}
	if identifier == "" {
		identifier = cfg.Identifier
	}

	log := logger.New(
		logger.WithLevelName(cfg.LogLevel),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithService("eidlogin"),
		logger.WithOutput(os.Stderr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := cookieStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	api, err := login.New(
		fetch.FromClient(&http.Client{}),
		cookiejar.NewGenericJar(store),
		opts,
		login.WithLogger(log),
		login.WithLoginTimeout(cfg.LoginTimeout),
	)
	if err != nil {
		return err
	}

	if logout {
		return api.Logout(ctx)
	}
	return loginOnce(ctx, api, identifier, cfg.Redirect, log)
}

func loginOnce(ctx context.Context, api *login.Api, identifier, redirect string, log *slog.Logger) error {
	api.On(login.EventLogin, func(ctx context.Context, e login.Event) {
		log.InfoContext(ctx, "session established", logger.LoginID(e.LoginID))
	})

	var waiting sync.Once
	s, err := api.Login(ctx, identifier,
		login.OnState(login.StatePending, func(context.Context, login.Event) {
			waiting.Do(func() { fmt.Fprintln(os.Stderr, "Waiting for the authenticator app...") })
		}),
		login.OnState(login.StateUserSign, func(context.Context, login.Event) {
			fmt.Fprintln(os.Stderr, "Confirm the login in the app.")
		}),
	)
	if err != nil {
		return err
	}

	if err := printHandoff(s.Token(), redirect); err != nil {
		if !errors.Is(err, handoff.ErrFakeToken) {
			s.Cancel()
			return err
		}
		log.InfoContext(ctx, "test user login, nothing to hand off")
	}

	select {
	case <-ctx.Done():
		s.Cancel()
	case <-s.Done():
	}

	st, err := s.Wait(context.Background())
	switch st {
	case login.StateOK:
		fmt.Println("Logged in.")
		return nil
	case login.StateCancelled:
		return errCancelled
	default:
		return err
	}
}

func printHandoff(token, redirect string) error {
	link, err := handoff.AutostartURL(token, handoff.Options{Redirect: redirect})
	if err != nil {
		return err
	}
	qr, err := handoff.Terminal(token)
	if err != nil {
		return err
	}
	fmt.Println("Open on this device:", link)
	fmt.Println("Or scan with the app on another device:")
	fmt.Print(qr)
	return nil
}

// cookieStore picks the redis store when a connection URL is configured.
func cookieStore(ctx context.Context, cfg appConfig) (cookiejar.Store, func(), error) {
	if !cfg.Redis.Enabled() {
		return cookiejar.NewMemoryStore(), func() {}, nil
	}
	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if err := redis.Healthcheck(client)(ctx); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return cookiejar.NewRedisStore(client, cookiejar.WithTTL(cfg.CookieTTL)), func() { _ = client.Close() }, nil
}
