// SPDX-License-Identifier: MIT

package twofactor

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/jschibelli/accountguard/connectors/storage"
)

type (
	kvRepository struct {
		db storage.KV
	}
)

// NewKVRepository is the redis-backed Repository; each account's whole record
// is one JSON value, so every mutation is a single atomic write.
func NewKVRepository(db storage.KV) Repository {
	return &kvRepository{db: db}
}

func (r *kvRepository) GetRecord(ctx context.Context, accountID string) (*Record, error) {
	value, err := r.db.Get(ctx, recordKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}

		return nil, errors.Wrapf(err, "failed to get two-factor record for account %v", accountID)
	}
	record := new(Record)
	if err = json.UnmarshalContext(ctx, []byte(value), record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal two-factor record for account %v", accountID)
	}

	return record, nil
}

func (r *kvRepository) SaveRecord(ctx context.Context, record *Record) error {
	value, err := json.MarshalContext(ctx, record)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal two-factor record for account %v", record.AccountID)
	}

	return errors.Wrapf(r.db.Set(ctx, recordKey(record.AccountID), value, 0).Err(),
		"failed to set two-factor record for account %v", record.AccountID)
}

func (r *kvRepository) DeleteRecord(ctx context.Context, accountID string) error {
	return errors.Wrapf(r.db.Del(ctx, recordKey(accountID)).Err(),
		"failed to del two-factor record for account %v", accountID)
}

func recordKey(accountID string) string {
	return "twofactor:" + accountID
}
