// SPDX-License-Identifier: MIT

package totp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"net/url"

	"github.com/pkg/errors"

	appcfg "github.com/jschibelli/accountguard/config"
	"github.com/jschibelli/accountguard/time"
	"github.com/jschibelli/accountguard/totp/internal/base32enc"
	"github.com/jschibelli/accountguard/totp/internal/hotp"
)

const (
	secretLength       = 20
	defaultWindowSteps = 1
)

func New(applicationYamlKey string) TOTP {
	var cfg config
	appcfg.MustLoadFromKey(applicationYamlKey, &cfg)
	if cfg.AccountguardTOTP.WindowSteps == nil {
		windowSteps := defaultWindowSteps
		cfg.AccountguardTOTP.WindowSteps = &windowSteps
	}

	return &totp{cfg: &cfg}
}

// GenerateSecret issues a fresh 20-byte shared secret, surfaced only as its
// Base32 encoding. The raw bytes never leave this function.
func (*totp) GenerateSecret() (string, error) {
	secret := make([]byte, secretLength)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Wrap(err, "failed to read crypto/rand")
	}

	return base32enc.Encode(secret), nil
}

func (t *totp) GenerateURI(userSecret, account string) string {
	issuer := t.cfg.AccountguardTOTP.Issuer

	return fmt.Sprintf("otpauth://totp/%v:%v?secret=%v&issuer=%v&algorithm=SHA1&digits=%v&period=%v",
		url.PathEscape(issuer), url.PathEscape(account), userSecret, url.QueryEscape(issuer), hotp.Digits, hotp.Period)
}

func (*totp) GenerateCode(now *time.Time, userSecret string) (string, error) {
	code, ok := hotp.Code(base32enc.Decode(userSecret), uint64(now.Unix())/hotp.Period)
	if !ok {
		return "", errors.Errorf("failed to compute one-time code for counter %v", now.Unix()/hotp.Period)
	}

	return code, nil
}

// Verify accepts the code if it matches any counter within ±windowSteps of
// the current one, tolerating windowSteps*30s of clock skew either way.
// It never fails hard: a malformed secret or code simply never matches.
func (t *totp) Verify(now *time.Time, userSecret, totpCode string) bool {
	if len(totpCode) != hotp.Digits {
		return false
	}
	counter := now.Unix() / hotp.Period
	secret := base32enc.Decode(userSecret)
	windowSteps := *t.cfg.AccountguardTOTP.WindowSteps
	for step := -windowSteps; step <= windowSteps; step++ {
		if counter+int64(step) < 0 {
			continue
		}
		if expected, ok := hotp.Code(secret, uint64(counter+int64(step))); ok &&
			subtle.ConstantTimeCompare([]byte(expected), []byte(totpCode)) == 1 {
			return true
		}
	}

	return false
}
