// SPDX-License-Identifier: MIT

package totp

import (
	"github.com/jschibelli/accountguard/time"
)

// Public API.

type (
	TOTP interface {
		Generator
		Verifier
	}
	Generator interface {
		GenerateSecret() (string, error)
		GenerateURI(userSecret, account string) string
		GenerateCode(now *time.Time, userSecret string) (string, error)
	}
	Verifier interface {
		Verify(now *time.Time, userSecret, totpCode string) bool
	}
)

// Private API.

type (
	totp struct {
		cfg *config
	}
	config struct {
		AccountguardTOTP struct {
			// WindowSteps nil means the default of 1; an explicit 0 demands an exact-counter match.
			Issuer      string `yaml:"issuer" mapstructure:"issuer"`
			WindowSteps *int   `yaml:"windowSteps" mapstructure:"windowSteps"` //nolint:tagliatelle // .
		} `yaml:"accountguard/totp" mapstructure:"accountguard/totp"` //nolint:tagliatelle // .
	}
)
