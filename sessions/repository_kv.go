// SPDX-License-Identifier: MIT

package sessions

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/jschibelli/accountguard/connectors/storage"
)

type (
	kvRepository struct {
		db storage.KV
	}
)

// NewKVRepository is the redis-backed Repository; the whole session list of
// an account is one JSON value, matching the whole-list write contract.
func NewKVRepository(db storage.KV) Repository {
	return &kvRepository{db: db}
}

func (r *kvRepository) ListSessions(ctx context.Context, accountID string) ([]*Session, error) {
	value, err := r.db.Get(ctx, sessionsKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, errors.Wrapf(err, "failed to get sessions for account %v", accountID)
	}
	var sessions []*Session
	if err = json.UnmarshalContext(ctx, []byte(value), &sessions); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal sessions for account %v", accountID)
	}

	return sessions, nil
}

// SaveSessions replaces the key in one transactional pipeline, so readers
// never observe a half-written list.
func (r *kvRepository) SaveSessions(ctx context.Context, accountID string, sessions []*Session) error {
	value, err := json.MarshalContext(ctx, sessions)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal sessions for account %v", accountID)
	}
	cmds, err := r.db.TxPipelined(ctx, func(pipeliner redis.Pipeliner) error {
		if dErr := pipeliner.Del(ctx, sessionsKey(accountID)).Err(); dErr != nil {
			return dErr //nolint:wrapcheck // Not needed.
		}
		if len(sessions) == 0 {
			return nil
		}

		return pipeliner.Set(ctx, sessionsKey(accountID), value, 0).Err() //nolint:wrapcheck // Not needed.
	})
	if err != nil {
		return errors.Wrapf(err, "failed to replace sessions for account %v", accountID)
	}
	errs := make([]error, 0, len(cmds))
	for _, cmd := range cmds {
		errs = append(errs, cmd.Err())
	}

	return errors.Wrapf(multierror.Append(nil, errs...).ErrorOrNil(), "failed to replace sessions for account %v", accountID)
}

func (r *kvRepository) DeleteSessions(ctx context.Context, accountID string) error {
	return errors.Wrapf(r.db.Del(ctx, sessionsKey(accountID)).Err(),
		"failed to del sessions for account %v", accountID)
}

func sessionsKey(accountID string) string {
	return "sessions:" + accountID
}
