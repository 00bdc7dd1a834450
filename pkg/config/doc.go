// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: a .env file
// in the working directory is read once per process (missing files are fine),
// then the environment is parsed into a struct using env tags.
//
//	type Config struct {
//		BaseURL      string        `env:"BASE_URL,required"`
//		PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"1s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("EID_")); err != nil {
//		return err
//	}
//
// Values already present in the process environment win over .env files.
package config
