// SPDX-License-Identifier: MIT

package storage

import (
	"context"
	stdlibtime "time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	appcfg "github.com/jschibelli/accountguard/config"
	"github.com/jschibelli/accountguard/log"
)

//nolint:gomnd // Connection tuning.
func MustConnectKV(ctx context.Context, applicationYamlKey string) KV {
	var cfg redisConfig
	appcfg.MustLoadFromKey(applicationYamlKey, &cfg)
	if cfg.AccountguardStorage.URL == "" {
		log.Panic(errors.New("kv storage url is required"))
	}
	opts, err := redis.ParseURL(cfg.AccountguardStorage.URL)
	log.Panic(errors.Wrap(err, "failed to parse kv storage url"))
	if opts.Username == "" {
		opts.Username = cfg.AccountguardStorage.Credentials.User
	}
	if opts.Password == "" {
		opts.Password = cfg.AccountguardStorage.Credentials.Password
	}
	opts.ClientName = applicationYamlKey
	opts.MaxRetries = 25
	opts.MinRetryBackoff = 10 * stdlibtime.Millisecond
	opts.MaxRetryBackoff = 1 * stdlibtime.Second
	opts.DialTimeout = 30 * stdlibtime.Second
	opts.ReadTimeout = 30 * stdlibtime.Second
	opts.WriteTimeout = 30 * stdlibtime.Second
	opts.ContextTimeoutEnabled = true
	opts.PoolFIFO = true
	client := redis.NewClient(opts)
	result, err := client.Ping(ctx).Result()
	log.Panic(errors.Wrap(err, "failed to ping kv storage"))
	if result != "PONG" {
		log.Panic(errors.Errorf("unexpected ping response: %v", result))
	}

	return client
}
