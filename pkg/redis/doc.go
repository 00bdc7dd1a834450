// Package redis connects to the Redis server that backs the persistent cookie
// store (cookiejar.RedisStore).
//
// Connect retries the initial ping according to Config, which can be populated
// from the environment with pkg/config:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
//
// Healthcheck returns a probe that the command line tools call before starting
// a login.
package redis
