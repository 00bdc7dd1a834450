// Command eid-authority-stub serves an in-process stand-in for the remote
// authority, for trying eidlogin without a real relying party.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/eidsession/internal/fakeauthority"
	"github.com/dmitrymomot/eidsession/pkg/config"
	"github.com/dmitrymomot/eidsession/pkg/httpserver"
	"github.com/dmitrymomot/eidsession/pkg/logger"
	"github.com/dmitrymomot/eidsession/pkg/requestid"
)

type appConfig struct {
	Server    httpserver.Config
	Script    []string `env:"EID_STUB_SCRIPT" envSeparator:"," envDefault:"PENDING,PENDING,USER_SIGN,OK"`
	LogLevel  string   `env:"EID_LOG_LEVEL" envDefault:"info"`
	LogFormat string   `env:"EID_LOG_FORMAT" envDefault:"text"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "eid-authority-stub:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithLevelName(cfg.LogLevel),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithService("eid-authority-stub"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auth := fakeauthority.New(
		fakeauthority.WithScript(cfg.Script...),
		fakeauthority.WithLogger(log),
	)
	return httpserver.New(cfg.Server, httpserver.WithLogger(log)).Run(ctx, auth.Handler())
}
