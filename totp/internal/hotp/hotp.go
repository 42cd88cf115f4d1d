// SPDX-License-Identifier: MIT

// Package hotp implements the RFC 4226 HMAC-based one-time password
// computation: HMAC-SHA1 over an 8-byte big-endian counter, dynamic
// truncation, modulo 10^Digits.
package hotp

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // SHA-1 is what RFC 4226/6238 and authenticator apps interoperate on.
	"encoding/binary"
	"fmt"
)

const (
	Digits = 6
	// Period is the TOTP rotation interval, in seconds.
	Period = 30

	modulus = 1_000_000
)

// Code computes the one-time code for the given shared secret and counter.
// The second return reports whether the computation was valid; it is false
// only if the dynamic-truncation offset would read past the digest, which is
// unreachable with HMAC-SHA1 output but guarded anyway.
func Code(secret []byte, counter uint64) (string, bool) {
	mac := hmac.New(sha1.New, secret)
	var counterBytes [8]byte
	binary.BigEndian.PutUint64(counterBytes[:], counter)
	mac.Write(counterBytes[:])
	digest := mac.Sum(nil)
	offset := int(digest[len(digest)-1] & 0x0f)
	if offset+4 > len(digest) {
		return "", false
	}
	value := uint32(digest[offset]&0x7f)<<24 |
		uint32(digest[offset+1])<<16 |
		uint32(digest[offset+2])<<8 |
		uint32(digest[offset+3])

	return fmt.Sprintf("%0*d", Digits, value%modulus), true
}
