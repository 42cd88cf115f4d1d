// SPDX-License-Identifier: MIT

package twofactor

import (
	"context"
	"strings"
	"testing"
	stdlibtime "time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jschibelli/accountguard/connectors/storage"
	. "github.com/jschibelli/accountguard/testing"
	"github.com/jschibelli/accountguard/time"
	"github.com/jschibelli/accountguard/totp"
)

func newTestProcessor() (Processor, *InMemoryRepository, totp.TOTP) {
	repo := NewInMemoryRepository()

	return New(repo, "self"), repo, totp.New("self")
}

func currentCode(t *testing.T, engine totp.TOTP, secret string) string {
	t.Helper()
	code, err := engine.GenerateCode(time.Now(), secret)
	require.NoError(t, err)

	return code
}

func staleCode(t *testing.T, engine totp.TOTP, secret string) string {
	t.Helper()
	code, err := engine.GenerateCode(time.New(stdlibtime.Now().Add(-5*stdlibtime.Minute)), secret)
	require.NoError(t, err)

	return code
}

//nolint:funlen // It's better to keep the whole scenario together.
func TestEnrollmentLifecycle(t *testing.T) {
	t.Parallel()
	proc, repo, engine := newTestProcessor()
	var enrollment *Enrollment
	var backupCodes []string
	GIVEN("an account that starts 2FA enrollment", func() {
		var err error
		enrollment, err = proc.BeginEnrollment(t.Context(), "acct1", "acct1@example.com")
		require.NoError(t, err)
		assert.Len(t, enrollment.SecretBase32, 32)
		assert.True(t, strings.HasPrefix(enrollment.EnrollmentURI, "otpauth://totp/"))
		assert.Contains(t, enrollment.EnrollmentURI, enrollment.SecretBase32)
	})
	WHEN("a wrong code is submitted", func() {
		_, err := proc.ConfirmEnrollment(t.Context(), "acct1", enrollment.SecretBase32, "000001")
		require.ErrorIs(t, err, ErrVerificationFailed)
		IT("stays pending, so login codes are still rejected as not enabled", func() {
			_, vErr := proc.VerifyLoginCode(t.Context(), "acct1", currentCode(t, engine, enrollment.SecretBase32))
			require.ErrorIs(t, vErr, ErrNotEnabled)
		})
		AND("the pending secret survives for a retry", func() {
			record, rErr := repo.GetRecord(t.Context(), "acct1")
			require.NoError(t, rErr)
			assert.False(t, record.Enabled)
			assert.Equal(t, enrollment.SecretBase32, record.Secret)
		})
	})
	WHEN("the correct code for the current window is submitted", func() {
		var err error
		backupCodes, err = proc.ConfirmEnrollment(t.Context(), "acct1", enrollment.SecretBase32, currentCode(t, engine, enrollment.SecretBase32))
		require.NoError(t, err)
		IT("enables the record and issues exactly 10 backup codes", func() {
			require.Len(t, backupCodes, BackupCodeCount)
			for _, code := range backupCodes {
				assert.Regexp(t, `^[0-9A-F]{8}$`, code)
			}
			record, rErr := repo.GetRecord(t.Context(), "acct1")
			require.NoError(t, rErr)
			assert.True(t, record.Enabled)
			assert.NotEmpty(t, record.Secret)
		})
		AND("a second confirmation is rejected", func() {
			_, cErr := proc.ConfirmEnrollment(t.Context(), "acct1", enrollment.SecretBase32, currentCode(t, engine, enrollment.SecretBase32))
			require.ErrorIs(t, cErr, ErrAlreadyEnabled)
		})
	})
	THEN(func() {
		ok, err := proc.VerifyLoginCode(t.Context(), "acct1", currentCode(t, engine, enrollment.SecretBase32))
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = proc.VerifyLoginCode(t.Context(), "acct1", "000001")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestBeginEnrollmentWhileActive(t *testing.T) {
	t.Parallel()
	proc, _, engine := newTestProcessor()
	enrollment, err := proc.BeginEnrollment(t.Context(), "acct1", "acct1@example.com")
	require.NoError(t, err)
	_, err = proc.ConfirmEnrollment(t.Context(), "acct1", enrollment.SecretBase32, currentCode(t, engine, enrollment.SecretBase32))
	require.NoError(t, err)
	_, err = proc.BeginEnrollment(t.Context(), "acct1", "acct1@example.com")
	require.ErrorIs(t, err, ErrAlreadyEnabled)
}

func TestBeginEnrollmentReplacesPendingSecret(t *testing.T) {
	t.Parallel()
	proc, repo, _ := newTestProcessor()
	first, err := proc.BeginEnrollment(t.Context(), "acct1", "acct1@example.com")
	require.NoError(t, err)
	second, err := proc.BeginEnrollment(t.Context(), "acct1", "acct1@example.com")
	require.NoError(t, err)
	require.NotEqual(t, first.SecretBase32, second.SecretBase32)
	record, err := repo.GetRecord(t.Context(), "acct1")
	require.NoError(t, err)
	assert.Equal(t, second.SecretBase32, record.Secret)
}

func TestConfirmEnrollmentSecretMismatch(t *testing.T) {
	t.Parallel()
	proc, _, engine := newTestProcessor()
	_, err := proc.BeginEnrollment(t.Context(), "acct1", "acct1@example.com")
	require.NoError(t, err)
	otherSecret := "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"
	_, err = proc.ConfirmEnrollment(t.Context(), "acct1", otherSecret, currentCode(t, engine, otherSecret))
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestBackupCodeRedemption(t *testing.T) {
	t.Parallel()
	proc, _, engine := newTestProcessor()
	enrollment, err := proc.BeginEnrollment(t.Context(), "acct1", "acct1@example.com")
	require.NoError(t, err)
	backupCodes, err := proc.ConfirmEnrollment(t.Context(), "acct1", enrollment.SecretBase32, currentCode(t, engine, enrollment.SecretBase32))
	require.NoError(t, err)

	require.NoError(t, proc.RedeemBackupCode(t.Context(), "acct1", backupCodes[0]))
	require.ErrorIs(t, proc.RedeemBackupCode(t.Context(), "acct1", backupCodes[0]), ErrInvalidBackupCode)

	// Human-formatted entry is tolerated.
	require.NoError(t, proc.RedeemBackupCode(t.Context(), "acct1", " "+strings.ToLower(backupCodes[1])+" "))

	regenerated, err := proc.RegenerateBackupCodes(t.Context(), "acct1")
	require.NoError(t, err)
	require.Len(t, regenerated, BackupCodeCount)
	require.ErrorIs(t, proc.RedeemBackupCode(t.Context(), "acct1", backupCodes[2]), ErrInvalidBackupCode)
	require.NoError(t, proc.RedeemBackupCode(t.Context(), "acct1", regenerated[0]))
}

var errStorageDown = errors.New("storage is down")

// flakyRepository fails writes on demand, so tests can assert that a rejected
// save surfaces to the caller without mutating the stored record.
type flakyRepository struct {
	*InMemoryRepository
	failWrites bool
}

func (r *flakyRepository) SaveRecord(ctx context.Context, record *Record) error {
	if r.failWrites {
		return errStorageDown
	}

	return r.InMemoryRepository.SaveRecord(ctx, record)
}

func TestPersistenceFailuresPropagate(t *testing.T) {
	t.Parallel()
	repo := &flakyRepository{InMemoryRepository: NewInMemoryRepository()}
	proc := New(repo, "self")
	engine := totp.New("self")
	enrollment, err := proc.BeginEnrollment(t.Context(), "acct1", "acct1@example.com")
	require.NoError(t, err)

	repo.failWrites = true
	_, err = proc.ConfirmEnrollment(t.Context(), "acct1", enrollment.SecretBase32, currentCode(t, engine, enrollment.SecretBase32))
	require.ErrorIs(t, err, errStorageDown)
	record, err := repo.GetRecord(t.Context(), "acct1")
	require.NoError(t, err)
	assert.False(t, record.Enabled)
	assert.Empty(t, record.BackupCodes)

	repo.failWrites = false
	backupCodes, err := proc.ConfirmEnrollment(t.Context(), "acct1", enrollment.SecretBase32, currentCode(t, engine, enrollment.SecretBase32))
	require.NoError(t, err)

	repo.failWrites = true
	require.ErrorIs(t, proc.RedeemBackupCode(t.Context(), "acct1", backupCodes[0]), errStorageDown)
	_, err = proc.RegenerateBackupCodes(t.Context(), "acct1")
	require.ErrorIs(t, err, errStorageDown)

	// The failed writes consumed nothing: the code is still redeemable.
	repo.failWrites = false
	require.NoError(t, proc.RedeemBackupCode(t.Context(), "acct1", backupCodes[0]))
}

func TestOperationsRequireActiveRecord(t *testing.T) {
	t.Parallel()
	proc, _, _ := newTestProcessor()
	_, err := proc.VerifyLoginCode(t.Context(), "nobody", "123456")
	require.ErrorIs(t, err, ErrNotEnabled)
	_, err = proc.RegenerateBackupCodes(t.Context(), "nobody")
	require.ErrorIs(t, err, ErrNotEnabled)
	require.ErrorIs(t, proc.RedeemBackupCode(t.Context(), "nobody", "AABBCCDD"), ErrNotEnabled)
	require.ErrorIs(t, proc.Disable(t.Context(), "nobody", "123456"), ErrNotEnabled)
	_, err = proc.ConfirmEnrollment(t.Context(), "nobody", "", "123456")
	require.ErrorIs(t, err, ErrNotEnabled)
}

func TestDisable(t *testing.T) {
	t.Parallel()
	proc, repo, engine := newTestProcessor()
	enrollment, err := proc.BeginEnrollment(t.Context(), "acct1", "acct1@example.com")
	require.NoError(t, err)
	_, err = proc.ConfirmEnrollment(t.Context(), "acct1", enrollment.SecretBase32, currentCode(t, engine, enrollment.SecretBase32))
	require.NoError(t, err)

	require.ErrorIs(t, proc.Disable(t.Context(), "acct1", staleCode(t, engine, enrollment.SecretBase32)), ErrVerificationFailed)
	record, err := repo.GetRecord(t.Context(), "acct1")
	require.NoError(t, err)
	assert.True(t, record.Enabled)

	require.NoError(t, proc.Disable(t.Context(), "acct1", currentCode(t, engine, enrollment.SecretBase32)))
	_, err = repo.GetRecord(t.Context(), "acct1")
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = proc.VerifyLoginCode(t.Context(), "acct1", "123456")
	require.ErrorIs(t, err, ErrNotEnabled)
}
