// SPDX-License-Identifier: MIT

package storage

import (
	"context"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	appcfg "github.com/jschibelli/accountguard/config"
	"github.com/jschibelli/accountguard/log"
	"github.com/jschibelli/accountguard/terror"
)

type (
	Querier interface {
		pgxscan.Querier
	}
	Execer interface {
		Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error)
	}
	QueryExecer interface {
		Querier
		Execer
	}
)

func MustConnectSQL(ctx context.Context, ddl, applicationYamlKey string) *pgxpool.Pool {
	var cfg pgConfig
	appcfg.MustLoadFromKey(applicationYamlKey, &cfg)
	if cfg.AccountguardStorage.URL == "" {
		log.Panic(errors.New("sql storage url is required"))
	}
	pool, err := pgxpool.New(ctx, cfg.AccountguardStorage.URL)
	log.Panic(errors.Wrap(err, "failed to build sql storage pool"))
	log.Panic(errors.Wrap(pool.Ping(ctx), "failed to ping sql storage"))
	if cfg.AccountguardStorage.RunDDL && ddl != "" {
		for _, statement := range strings.Split(ddl, "----") {
			_, err = pool.Exec(ctx, statement)
			log.Panic(errors.Wrapf(err, "failed to run DDL %v", statement))
		}
	}

	return pool
}

func DoInTransaction(ctx context.Context, pool *pgxpool.Pool, fn func(conn QueryExecer) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadWrite, DeferrableMode: pgx.NotDeferrable}

	return pgx.BeginTxFunc(ctx, pool, opts, func(tx pgx.Tx) error { return fn(tx) }) //nolint:wrapcheck // Nothing relevant to wrap.
}

func Get[T any](ctx context.Context, db Querier, sql string, args ...any) (*T, error) {
	resp := new(T)
	if err := pgxscan.Get(ctx, db, resp, sql, args...); err != nil {
		return nil, parseDBError(err)
	}

	return resp, nil
}

func Select[T any](ctx context.Context, db Querier, sql string, args ...any) ([]*T, error) {
	var resp []*T
	if err := pgxscan.Select(ctx, db, &resp, sql, args...); err != nil {
		return nil, parseDBError(err)
	}

	return resp, nil
}

func Exec(ctx context.Context, db Execer, sql string, args ...any) (affectedRows uint64, err error) {
	resp, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, parseDBError(err)
	}

	return uint64(resp.RowsAffected()), nil
}

func parseDBError(err error) error {
	var dbErr *pgconn.PgError
	if errors.As(err, &dbErr) && dbErr.SQLState() == pgerrcode.UniqueViolation {
		return terror.New(ErrDuplicate, map[string]any{"constraint": dbErr.ConstraintName})
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	return err
}
