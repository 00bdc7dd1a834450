// Package logger builds the *slog.Logger used across eidsession.
//
// New assembles a text or JSON handler from functional options, attaches static
// attributes and wraps the result in LogHandlerDecorator so values stored in a
// context.Context (for example the id of the login attempt being polled) are
// added to every record logged with that context.
//
// The attribute helpers in attr.go keep key names consistent between the login
// engine, the cookie jar adapters and the command line tools:
//
//	log := logger.New(logger.WithTextFormatter(), logger.WithLevel(slog.LevelDebug))
//	log.InfoContext(ctx, "state changed",
//		logger.Component("login"),
//		logger.State("PENDING"),
//		logger.Attempt(3),
//	)
//
// Libraries in this module never construct a logger themselves; they accept one
// through a WithLogger option and fall back to Discard.
package logger
