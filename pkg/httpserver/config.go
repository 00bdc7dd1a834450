package httpserver

import "time"

// Config holds the listener settings, loaded with pkg/config.
type Config struct {
	Addr            string        `env:"EID_STUB_ADDR" envDefault:"127.0.0.1:8089"`
	ReadTimeout     time.Duration `env:"EID_STUB_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"EID_STUB_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"EID_STUB_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}
