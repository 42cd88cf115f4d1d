// SPDX-License-Identifier: MIT

package twofactor

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// generateBackupCodes issues a batch of single-use recovery codes, each 8
// uppercase hex characters from 4 CSPRNG bytes. 32 bits of entropy per code
// makes an in-batch collision negligible.
func generateBackupCodes(count int) ([]string, error) {
	codes := make([]string, 0, count)
	buffer := make([]byte, backupCodeBytes)
	for range count {
		if _, err := rand.Read(buffer); err != nil {
			return nil, errors.Wrap(err, "failed to read crypto/rand")
		}
		codes = append(codes, strings.ToUpper(hex.EncodeToString(buffer)))
	}

	return codes, nil
}

func normalizeBackupCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
