// SPDX-License-Identifier: MIT

package twofactor

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/jschibelli/accountguard/connectors/storage"
)

// DDL is the schema for the SQL-backed Repository; pass it to
// storage.MustConnectSQL.
const DDL = `
CREATE TABLE IF NOT EXISTS two_factor_records (
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL,
	account_id   TEXT NOT NULL PRIMARY KEY,
	secret       TEXT NOT NULL,
	backup_codes TEXT[] NOT NULL DEFAULT '{}',
	enabled      BOOLEAN NOT NULL DEFAULT FALSE
);`

type (
	sqlRepository struct {
		db *pgxpool.Pool
	}
)

func NewSQLRepository(db *pgxpool.Pool) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) GetRecord(ctx context.Context, accountID string) (*Record, error) {
	sql := `SELECT created_at, updated_at, account_id, secret, backup_codes, enabled
			FROM two_factor_records
			WHERE account_id = $1`

	return storage.Get[Record](ctx, r.db, sql, accountID) //nolint:wrapcheck // Sentinel errors must flow through unchanged.
}

func (r *sqlRepository) SaveRecord(ctx context.Context, record *Record) error {
	sql := `INSERT INTO two_factor_records (created_at, updated_at, account_id, secret, backup_codes, enabled)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (account_id) DO UPDATE
				SET updated_at = EXCLUDED.updated_at,
					secret = EXCLUDED.secret,
					backup_codes = EXCLUDED.backup_codes,
					enabled = EXCLUDED.enabled`
	_, err := storage.Exec(ctx, r.db, sql,
		record.CreatedAt.Time, record.UpdatedAt.Time, record.AccountID, record.Secret, record.BackupCodes, record.Enabled)

	return errors.Wrapf(err, "failed to upsert two-factor record for account %v", record.AccountID)
}

func (r *sqlRepository) DeleteRecord(ctx context.Context, accountID string) error {
	_, err := storage.Exec(ctx, r.db, `DELETE FROM two_factor_records WHERE account_id = $1`, accountID)

	return errors.Wrapf(err, "failed to delete two-factor record for account %v", accountID)
}
