package fetch

import (
	"maps"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/eidsession/pkg/config"
	"github.com/dmitrymomot/eidsession/pkg/cookiejar"
)

// Options describes the remote authority and how to talk to it.
type Options struct {
	BaseURL         string            `env:"EID_BASE_URL,required"`
	Timeout         time.Duration     `env:"EID_REQUEST_TIMEOUT" envDefault:"10s"`
	Headers         map[string]string `env:"EID_HEADERS"`
	PollInterval    time.Duration     `env:"EID_POLL_INTERVAL" envDefault:"1s"`
	MaxPollAttempts int               `env:"EID_MAX_POLL_ATTEMPTS" envDefault:"180"`
	// TestUser is the identifier that logs in without contacting the authority.
	// Empty disables the bypass.
	TestUser   string `env:"EID_TEST_USER" envDefault:"201212121212"`
	InitPath   string `env:"EID_INIT_PATH" envDefault:"/auth/bankid/init"`
	StatusPath string `env:"EID_STATUS_PATH" envDefault:"/auth/bankid/status"`
	LogoutPath string `env:"EID_LOGOUT_PATH" envDefault:"/auth/logout"`
}

// DefaultOptions returns the defaults for baseURL, matching the env defaults.
func DefaultOptions(baseURL string) Options {
	return Options{
		BaseURL:         baseURL,
		Timeout:         10 * time.Second,
		PollInterval:    time.Second,
		MaxPollAttempts: 180,
		TestUser:        "201212121212",
		InitPath:        "/auth/bankid/init",
		StatusPath:      "/auth/bankid/status",
		LogoutPath:      "/auth/logout",
	}
}

// LoadOptions reads Options from the environment.
func LoadOptions(opts ...config.Option) (Options, error) {
	var o Options
	if err := config.Load(&o, opts...); err != nil {
		return Options{}, err
	}
	return o, o.Validate()
}

// Validate checks the options that the engine cannot work without.
func (o Options) Validate() error {
	u, err := url.Parse(o.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}
	if o.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if o.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}
	if o.MaxPollAttempts <= 0 {
		return ErrInvalidPollAttempts
	}
	return nil
}

// URL joins path onto BaseURL.
func (o Options) URL(path string) string {
	return strings.TrimRight(o.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Domain is the cookie domain of BaseURL.
func (o Options) Domain() string {
	u, err := url.Parse(o.BaseURL)
	if err != nil {
		return ""
	}
	return cookiejar.NormalizeDomain(u.Host)
}

// Clone returns a copy that shares no mutable state with o.
func (o Options) Clone() Options {
	o.Headers = maps.Clone(o.Headers)
	return o
}
