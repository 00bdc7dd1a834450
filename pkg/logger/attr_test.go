package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eidsession/pkg/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestTransition(t *testing.T) {
	t.Parallel()
	attr := logger.Transition("PENDING", "OK")
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "PENDING", g[0].Value.String())
	assert.Equal(t, "OK", g[1].Value.String())
}

func TestDomainAttrs(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "login", logger.Component("login").Value.String())
	assert.Equal(t, "USER_SIGN", logger.State("USER_SIGN").Value.String())
	assert.Equal(t, "example.com", logger.Domain("example.com").Value.String())
	assert.Equal(t, int64(4), logger.Attempt(4).Value.Int64())
	assert.Equal(t, int64(502), logger.StatusCode(502).Value.Int64())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.True(t, logger.LoginID("").Equal(slog.Attr{}))
	assert.Equal(t, "id-1", logger.LoginID("id-1").Value.String())
}
