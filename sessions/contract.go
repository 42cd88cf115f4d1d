// SPDX-License-Identifier: MIT

package sessions

import (
	"context"
	"sync"

	"github.com/jschibelli/accountguard/time"
)

// Public API.

type (
	// Session is one active login. Device and Location are derived,
	// non-authoritative labels; NetworkOrigin and UserAgent keep the raw
	// inputs so labels can be recomputed if the classifier changes.
	Session struct {
		CreatedAt     *time.Time `json:"createdAt" db:"created_at"`
		LastActiveAt  *time.Time `json:"lastActiveAt" db:"last_active_at"`
		ID            string     `json:"id" db:"id"`
		AccountID     string     `json:"accountId" db:"account_id"`
		Device        string     `json:"device" db:"device"`
		Location      string     `json:"location" db:"location"`
		NetworkOrigin string     `json:"networkOrigin" db:"network_origin"`
		UserAgent     string     `json:"userAgent" db:"user_agent"`
		IsCurrent     bool       `json:"isCurrent" db:"is_current"`
	}
	Metadata struct {
		NetworkOrigin string
		UserAgent     string
	}
	Registry interface {
		Create(ctx context.Context, accountID string, metadata *Metadata) (*Session, error)
		List(ctx context.Context, accountID string) ([]*Session, error)
		Touch(ctx context.Context, accountID, sessionID string) error
		Revoke(ctx context.Context, accountID, sessionID string) (bool, error)
		RevokeAll(ctx context.Context, accountID string) error
	}
	// Repository persists an account's whole session list per write; reads of
	// an account with no sessions return an empty list, not an error.
	Repository interface {
		ListSessions(ctx context.Context, accountID string) ([]*Session, error)
		SaveSessions(ctx context.Context, accountID string, sessions []*Session) error
		DeleteSessions(ctx context.Context, accountID string) error
	}
)

// Private API.

const (
	accountLockStripes = 64
)

type (
	registry struct {
		repo       Repository
		accountMxs [accountLockStripes]sync.Mutex
	}
)
