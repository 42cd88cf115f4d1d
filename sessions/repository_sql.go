// SPDX-License-Identifier: MIT

package sessions

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/jschibelli/accountguard/connectors/storage"
)

// DDL is the schema for the SQL-backed Repository; pass it to
// storage.MustConnectSQL.
const DDL = `
CREATE TABLE IF NOT EXISTS account_sessions (
	created_at     TIMESTAMPTZ NOT NULL,
	last_active_at TIMESTAMPTZ NOT NULL,
	id             TEXT NOT NULL PRIMARY KEY,
	account_id     TEXT NOT NULL,
	device         TEXT NOT NULL DEFAULT '',
	location       TEXT NOT NULL DEFAULT '',
	network_origin TEXT NOT NULL DEFAULT '',
	user_agent     TEXT NOT NULL DEFAULT '',
	is_current     BOOLEAN NOT NULL DEFAULT FALSE
);
----
CREATE INDEX IF NOT EXISTS account_sessions_account_id_ix ON account_sessions (account_id);`

type (
	sqlRepository struct {
		db *pgxpool.Pool
	}
)

func NewSQLRepository(db *pgxpool.Pool) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) ListSessions(ctx context.Context, accountID string) ([]*Session, error) {
	sql := `SELECT created_at, last_active_at, id, account_id, device, location, network_origin, user_agent, is_current
			FROM account_sessions
			WHERE account_id = $1
			ORDER BY created_at`

	return storage.Select[Session](ctx, r.db, sql, accountID) //nolint:wrapcheck // Sentinel errors must flow through unchanged.
}

// SaveSessions replaces the account's whole list transactionally, preserving
// the whole-list consistency contract on the SQL backend too.
func (r *sqlRepository) SaveSessions(ctx context.Context, accountID string, sessions []*Session) error {
	err := storage.DoInTransaction(ctx, r.db, func(conn storage.QueryExecer) error {
		if _, err := storage.Exec(ctx, conn, `DELETE FROM account_sessions WHERE account_id = $1`, accountID); err != nil {
			return err //nolint:wrapcheck // It is wrapped outside.
		}
		sql := `INSERT INTO account_sessions (created_at, last_active_at, id, account_id, device, location, network_origin, user_agent, is_current)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		for _, session := range sessions {
			if _, err := storage.Exec(ctx, conn, sql,
				session.CreatedAt.Time, session.LastActiveAt.Time, session.ID, session.AccountID,
				session.Device, session.Location, session.NetworkOrigin, session.UserAgent, session.IsCurrent); err != nil {
				return err //nolint:wrapcheck // It is wrapped outside.
			}
		}

		return nil
	})

	return errors.Wrapf(err, "failed to replace sessions for account %v", accountID)
}

func (r *sqlRepository) DeleteSessions(ctx context.Context, accountID string) error {
	_, err := storage.Exec(ctx, r.db, `DELETE FROM account_sessions WHERE account_id = $1`, accountID)

	return errors.Wrapf(err, "failed to delete sessions for account %v", accountID)
}
