// SPDX-License-Identifier: MIT

package base32enc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRFC4648Vectors(t *testing.T) {
	t.Parallel()
	for input, expected := range map[string]string{
		"":       "",
		"f":      "MY",
		"fo":     "MZXQ",
		"foo":    "MZXW6",
		"foob":   "MZXW6YQ",
		"fooba":  "MZXW6YTB",
		"foobar": "MZXW6YTBOI",
	} {
		assert.Equal(t, expected, Encode([]byte(input)), "input %q", input)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	for length := range 64 {
		data := make([]byte, length)
		for i := range data {
			data[i] = byte(i*31 + length)
		}
		require.Equal(t, data, Decode(Encode(data)), "length %v", length)
	}
	require.Empty(t, Decode(Encode(nil)))
}

func TestDecodeForgiving(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []byte("foobar"), Decode("mzxw6ytboi"))
	assert.Equal(t, []byte("foobar"), Decode("MZXW-6YTB-OI"))
	assert.Equal(t, []byte("foobar"), Decode(" mzxw 6ytb oi "))
	assert.Empty(t, Decode(""))
	assert.Empty(t, Decode("!!!019"))
	assert.Empty(t, Decode("----"))
}
