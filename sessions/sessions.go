// SPDX-License-Identifier: MIT

// Package sessions tracks active logins per account: creation demotes every
// other session of the account before marking the new one current, so at most
// one session is current at any time. Revoking the current session promotes
// nothing; the next login re-establishes currency.
package sessions

import (
	"context"
	"hash/fnv"
	"slices"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jschibelli/accountguard/log"
	"github.com/jschibelli/accountguard/time"
)

func New(repo Repository) Registry {
	return &registry{repo: repo}
}

func (r *registry) Create(ctx context.Context, accountID string, metadata *Metadata) (*Session, error) {
	defer r.lock(accountID)()
	existing, err := r.repo.ListSessions(ctx, accountID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list sessions for account %v", accountID)
	}
	for _, session := range existing {
		session.IsCurrent = false
	}
	now := time.Now()
	session := &Session{
		CreatedAt:     now,
		LastActiveAt:  now,
		ID:            uuid.NewString(),
		AccountID:     accountID,
		Device:        DeviceLabel(metadata.UserAgent),
		Location:      LocationLabel(metadata.NetworkOrigin),
		NetworkOrigin: metadata.NetworkOrigin,
		UserAgent:     metadata.UserAgent,
		IsCurrent:     true,
	}
	if err = r.repo.SaveSessions(ctx, accountID, append(existing, session)); err != nil {
		return nil, errors.Wrapf(err, "failed to save sessions for account %v", accountID)
	}
	log.Debug("session created", "accountId", accountID, "device", session.Device)

	return session, nil
}

func (r *registry) List(ctx context.Context, accountID string) ([]*Session, error) {
	sessions, err := r.repo.ListSessions(ctx, accountID)

	return sessions, errors.Wrapf(err, "failed to list sessions for account %v", accountID)
}

// Touch refreshes LastActiveAt. A missing session is not an error: a revoked
// or stale client simply stops being refreshed.
func (r *registry) Touch(ctx context.Context, accountID, sessionID string) error {
	defer r.lock(accountID)()
	sessions, err := r.repo.ListSessions(ctx, accountID)
	if err != nil {
		return errors.Wrapf(err, "failed to list sessions for account %v", accountID)
	}
	idx := slices.IndexFunc(sessions, func(s *Session) bool { return s.ID == sessionID })
	if idx < 0 {
		return nil
	}
	sessions[idx].LastActiveAt = time.Now()

	return errors.Wrapf(r.repo.SaveSessions(ctx, accountID, sessions), "failed to save sessions for account %v", accountID)
}

// Revoke reports whether a session was actually removed.
func (r *registry) Revoke(ctx context.Context, accountID, sessionID string) (bool, error) {
	defer r.lock(accountID)()
	sessions, err := r.repo.ListSessions(ctx, accountID)
	if err != nil {
		return false, errors.Wrapf(err, "failed to list sessions for account %v", accountID)
	}
	idx := slices.IndexFunc(sessions, func(s *Session) bool { return s.ID == sessionID })
	if idx < 0 {
		return false, nil
	}
	sessions = slices.Delete(sessions, idx, idx+1)
	if err = r.repo.SaveSessions(ctx, accountID, sessions); err != nil {
		return false, errors.Wrapf(err, "failed to save sessions for account %v", accountID)
	}
	log.Info("session revoked", "accountId", accountID, "sessionId", sessionID)

	return true, nil
}

// RevokeAll is unconditional; it backs "log out everywhere", password changes
// and account deletion.
func (r *registry) RevokeAll(ctx context.Context, accountID string) error {
	defer r.lock(accountID)()
	if err := r.repo.DeleteSessions(ctx, accountID); err != nil {
		return errors.Wrapf(err, "failed to delete sessions for account %v", accountID)
	}
	log.Info("all sessions revoked", "accountId", accountID)

	return nil
}

func (r *registry) lock(accountID string) (unlock func()) {
	hash := fnv.New32a()
	hash.Write([]byte(accountID)) //nolint:errcheck,gosec // It cannot fail.
	mx := &r.accountMxs[hash.Sum32()%accountLockStripes]
	mx.Lock()

	return mx.Unlock
}
