// SPDX-License-Identifier: MIT

package twofactor

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/jschibelli/accountguard/time"
	"github.com/jschibelli/accountguard/totp"
)

// Public API.

var (
	ErrVerificationFailed = errors.New("verification failed")
	ErrInvalidBackupCode  = errors.New("invalid backup code")
	ErrNotEnabled         = errors.New("two-factor authentication is not enabled")
	ErrAlreadyEnabled     = errors.New("two-factor authentication is already enabled")
)

type (
	// Record is the per-account two-factor enrollment state. Enabled stays
	// false between BeginEnrollment and the first successful ConfirmEnrollment.
	Record struct {
		CreatedAt   *time.Time `json:"createdAt" db:"created_at"`
		UpdatedAt   *time.Time `json:"updatedAt" db:"updated_at"`
		AccountID   string     `json:"accountId" db:"account_id"`
		Secret      string     `json:"secret" db:"secret"`
		BackupCodes []string   `json:"backupCodes" db:"backup_codes"`
		Enabled     bool       `json:"enabled" db:"enabled"`
	}
	Enrollment struct {
		SecretBase32  string `json:"secretBase32"`
		EnrollmentURI string `json:"enrollmentUri"`
	}
	Processor interface {
		BeginEnrollment(ctx context.Context, accountID, accountLabel string) (*Enrollment, error)
		ConfirmEnrollment(ctx context.Context, accountID, secretBase32, code string) (backupCodes []string, err error)
		VerifyLoginCode(ctx context.Context, accountID, code string) (bool, error)
		Disable(ctx context.Context, accountID, code string) error
		RegenerateBackupCodes(ctx context.Context, accountID string) ([]string, error)
		RedeemBackupCode(ctx context.Context, accountID, code string) error
	}
	// Repository persists whole records, keyed by account id. Reads of a
	// missing account return storage.ErrNotFound.
	Repository interface {
		GetRecord(ctx context.Context, accountID string) (*Record, error)
		SaveRecord(ctx context.Context, record *Record) error
		DeleteRecord(ctx context.Context, accountID string) error
	}
)

const (
	BackupCodeCount = 10
)

// Private API.

const (
	backupCodeBytes    = 4
	accountLockStripes = 64
)

type (
	processor struct {
		repo       Repository
		totp       totp.TOTP
		accountMxs [accountLockStripes]sync.Mutex
	}
)
