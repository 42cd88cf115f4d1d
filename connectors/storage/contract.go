// SPDX-License-Identifier: MIT

// Package storage provides the durable backends the repositories write
// through to: a redis KV connector and a postgres connector, both configured
// from application.yaml.
package storage

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Public API.

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

type (
	KV interface {
		redis.Cmdable
		io.Closer
		Ping(ctx context.Context) *redis.StatusCmd
	}
)

// Private API.

type (
	redisConfig struct {
		AccountguardStorage struct {
			Credentials struct {
				User     string `yaml:"user"`
				Password string `yaml:"password"`
			} `yaml:"credentials" mapstructure:"credentials"`
			URL string `yaml:"url" mapstructure:"url"`
		} `yaml:"accountguard/storage/kv" mapstructure:"accountguard/storage/kv"` //nolint:tagliatelle // .
	}
	pgConfig struct {
		AccountguardStorage struct {
			URL    string `yaml:"url" mapstructure:"url"`
			RunDDL bool   `yaml:"runDDL" mapstructure:"runDDL"` //nolint:tagliatelle // .
		} `yaml:"accountguard/storage/sql" mapstructure:"accountguard/storage/sql"` //nolint:tagliatelle // .
	}
)
