// SPDX-License-Identifier: MIT

// Package base32enc implements the unpadded RFC 4648 Base32 flavor used for
// authenticator-app shared secrets. Decoding is forgiving: case is ignored
// and any character outside the alphabet (dashes, spaces, padding) is
// skipped, so human-formatted input round-trips cleanly.
package base32enc

import (
	"strings"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

func Encode(data []byte) string {
	var out strings.Builder
	out.Grow((len(data)*8 + 4) / 5)
	var buffer, bits uint
	for _, b := range data {
		buffer = buffer<<8 | uint(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out.WriteByte(alphabet[(buffer>>bits)&31])
		}
	}
	if bits > 0 {
		out.WriteByte(alphabet[(buffer<<(5-bits))&31])
	}

	return out.String()
}

// Decode never fails: an empty or fully-invalid input yields empty bytes.
func Decode(encoded string) []byte {
	out := make([]byte, 0, len(encoded)*5/8) //nolint:gomnd // 5 Base32 chars per 8 bits.
	var buffer, bits uint
	for _, char := range strings.ToUpper(encoded) {
		idx := strings.IndexRune(alphabet, char)
		if idx < 0 {
			continue
		}
		buffer = buffer<<5 | uint(idx)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buffer>>bits))
		}
	}

	return out
}
