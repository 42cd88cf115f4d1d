// SPDX-License-Identifier: MIT

// Package twofactor implements TOTP enrollment, login-code verification,
// single-use backup codes and the per-account two-factor state machine:
// no record -> pending (secret issued, disabled) -> active (enabled, backup
// codes issued) -> deleted on disable.
package twofactor

import (
	"context"
	"hash/fnv"
	"slices"

	"github.com/pkg/errors"

	"github.com/jschibelli/accountguard/connectors/storage"
	"github.com/jschibelli/accountguard/log"
	"github.com/jschibelli/accountguard/time"
	"github.com/jschibelli/accountguard/totp"
)

func New(repo Repository, applicationYamlKey string) Processor {
	return &processor{repo: repo, totp: totp.New(applicationYamlKey)}
}

// BeginEnrollment issues a fresh shared secret for the account and stores it
// as a pending (disabled) record. Re-running it while still pending replaces
// the secret; running it while active fails with ErrAlreadyEnabled.
func (p *processor) BeginEnrollment(ctx context.Context, accountID, accountLabel string) (*Enrollment, error) {
	defer p.lock(accountID)()
	record, err := p.repo.GetRecord(ctx, accountID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, errors.Wrapf(err, "failed to get two-factor record for account %v", accountID)
	}
	if record != nil && record.Enabled {
		return nil, ErrAlreadyEnabled
	}
	secret, err := p.totp.GenerateSecret()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate shared secret")
	}
	now := time.Now()
	if record == nil {
		record = &Record{AccountID: accountID, CreatedAt: now}
	}
	record.Secret = secret
	record.UpdatedAt = now
	if err = p.repo.SaveRecord(ctx, record); err != nil {
		return nil, errors.Wrapf(err, "failed to save pending two-factor record for account %v", accountID)
	}
	log.Debug("two-factor enrollment started", "accountId", accountID)

	return &Enrollment{SecretBase32: secret, EnrollmentURI: p.totp.GenerateURI(secret, accountLabel)}, nil
}

// ConfirmEnrollment verifies the first user-submitted code against the
// pending secret; on success the record flips to enabled and a fresh batch of
// backup codes is issued. A wrong code leaves the pending secret in place so
// the user can retry.
func (p *processor) ConfirmEnrollment(ctx context.Context, accountID, secretBase32, code string) ([]string, error) {
	defer p.lock(accountID)()
	record, err := p.repo.GetRecord(ctx, accountID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, errors.Wrapf(err, "failed to get two-factor record for account %v", accountID)
	}
	if record == nil {
		if secretBase32 == "" {
			return nil, ErrNotEnabled
		}
		record = &Record{AccountID: accountID, Secret: secretBase32, CreatedAt: time.Now()}
	}
	if record.Enabled {
		return nil, ErrAlreadyEnabled
	}
	if secretBase32 != "" && secretBase32 != record.Secret {
		return nil, ErrVerificationFailed
	}
	if !p.totp.Verify(time.Now(), record.Secret, code) {
		return nil, ErrVerificationFailed
	}
	backupCodes, err := generateBackupCodes(BackupCodeCount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate backup codes")
	}
	record.Enabled = true
	record.BackupCodes = backupCodes
	record.UpdatedAt = time.Now()
	if err = p.repo.SaveRecord(ctx, record); err != nil {
		return nil, errors.Wrapf(err, "failed to save enabled two-factor record for account %v", accountID)
	}
	log.Info("two-factor authentication enabled", "accountId", accountID)

	return backupCodes, nil
}

func (p *processor) VerifyLoginCode(ctx context.Context, accountID, code string) (bool, error) {
	record, err := p.activeRecord(ctx, accountID)
	if err != nil {
		return false, err
	}

	return p.totp.Verify(time.Now(), record.Secret, code), nil
}

// Disable requires a currently-valid code and deletes the whole record, so a
// later re-enrollment starts from scratch.
func (p *processor) Disable(ctx context.Context, accountID, code string) error {
	defer p.lock(accountID)()
	record, err := p.activeRecord(ctx, accountID)
	if err != nil {
		return err
	}
	if !p.totp.Verify(time.Now(), record.Secret, code) {
		return ErrVerificationFailed
	}
	if err = p.repo.DeleteRecord(ctx, accountID); err != nil {
		return errors.Wrapf(err, "failed to delete two-factor record for account %v", accountID)
	}
	log.Info("two-factor authentication disabled", "accountId", accountID)

	return nil
}

// RegenerateBackupCodes replaces the batch wholesale: every previously issued
// code stops working the moment this returns.
func (p *processor) RegenerateBackupCodes(ctx context.Context, accountID string) ([]string, error) {
	defer p.lock(accountID)()
	record, err := p.activeRecord(ctx, accountID)
	if err != nil {
		return nil, err
	}
	backupCodes, err := generateBackupCodes(BackupCodeCount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate backup codes")
	}
	record.BackupCodes = backupCodes
	record.UpdatedAt = time.Now()
	if err = p.repo.SaveRecord(ctx, record); err != nil {
		return nil, errors.Wrapf(err, "failed to save two-factor record for account %v", accountID)
	}

	return backupCodes, nil
}

// RedeemBackupCode atomically removes the code from the active set, so a
// concurrent second use of the same code fails with ErrInvalidBackupCode.
func (p *processor) RedeemBackupCode(ctx context.Context, accountID, code string) error {
	defer p.lock(accountID)()
	record, err := p.activeRecord(ctx, accountID)
	if err != nil {
		return err
	}
	idx := slices.Index(record.BackupCodes, normalizeBackupCode(code))
	if idx < 0 {
		return ErrInvalidBackupCode
	}
	record.BackupCodes = slices.Delete(record.BackupCodes, idx, idx+1)
	record.UpdatedAt = time.Now()
	if err = p.repo.SaveRecord(ctx, record); err != nil {
		return errors.Wrapf(err, "failed to save two-factor record for account %v", accountID)
	}
	log.Info("backup code redeemed", "accountId", accountID)

	return nil
}

func (p *processor) activeRecord(ctx context.Context, accountID string) (*Record, error) {
	record, err := p.repo.GetRecord(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotEnabled
		}

		return nil, errors.Wrapf(err, "failed to get two-factor record for account %v", accountID)
	}
	if record == nil || !record.Enabled {
		return nil, ErrNotEnabled
	}

	return record, nil
}

// lock serializes read-modify-write cycles per account; cross-account calls
// proceed in parallel, modulo stripe collisions.
func (p *processor) lock(accountID string) (unlock func()) {
	hash := fnv.New32a()
	hash.Write([]byte(accountID)) //nolint:errcheck,gosec // It cannot fail.
	mx := &p.accountMxs[hash.Sum32()%accountLockStripes]
	mx.Lock()

	return mx.Unlock
}
