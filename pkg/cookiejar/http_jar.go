package cookiejar

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/eidsession/pkg/logger"
)

// HTTPJar exposes a Jar as an http.CookieJar so an http.Client used to build
// the fetch port shares the engine's cookie state. http.CookieJar cannot report
// errors; they are logged instead.
func HTTPJar(j Jar, log *slog.Logger) http.CookieJar {
	if log == nil {
		log = logger.Discard()
	}
	return &httpJar{jar: j, log: log}
}

type httpJar struct {
	jar Jar
	log *slog.Logger
}

func (h *httpJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	ctx := context.Background()
	if err := h.jar.Write(ctx, u.Hostname(), cookies); err != nil {
		h.log.ErrorContext(ctx, "failed to store cookies",
			logger.Component("cookiejar"),
			logger.Domain(u.Hostname()),
			logger.Error(err),
		)
	}
}

func (h *httpJar) Cookies(u *url.URL) []*http.Cookie {
	ctx := context.Background()
	cookies, err := h.jar.Read(ctx, u.Hostname())
	if err != nil {
		h.log.ErrorContext(ctx, "failed to load cookies",
			logger.Component("cookiejar"),
			logger.Domain(u.Hostname()),
			logger.Error(err),
		)
		return nil
	}

	out := cookies[:0:0]
	for _, c := range cookies {
		if c.Secure && u.Scheme != "https" {
			continue
		}
		out = append(out, c)
	}
	return out
}
