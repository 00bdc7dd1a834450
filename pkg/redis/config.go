package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"EID_REDIS_URL"`                           // ConnectionURL in the form "redis://:password@localhost:6379/0". Empty disables redis.
	RetryAttempts  int           `env:"EID_REDIS_RETRY_ATTEMPTS" envDefault:"3"` // RetryAttempts is the number of ping attempts before giving up.
	RetryInterval  time.Duration `env:"EID_REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"EID_REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether a connection URL was configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
