// SPDX-License-Identifier: MIT

package sessions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceLabel(t *testing.T) {
	t.Parallel()
	for userAgent, expected := range map[string]string{
		iphoneUA:  "iPhone",
		macUA:     "Mac",
		windowsUA: "Windows PC",
		"Mozilla/5.0 (iPad; CPU OS 17_5 like Mac OS X)":      "iPad",
		"Mozilla/5.0 (Linux; Android 14; Pixel 8)":           "Android Device",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36": "Linux PC",
		"curl/8.5.0": "Unknown Device",
		"":           "Unknown Device",
	} {
		assert.Equal(t, expected, DeviceLabel(userAgent), "user agent %q", userAgent)
	}
}

func TestLocationLabel(t *testing.T) {
	t.Parallel()
	for networkOrigin, expected := range map[string]string{
		"127.0.0.1":    "Localhost",
		"::1":          "Localhost",
		"localhost":    "Localhost",
		"10.1.2.3":     "Local Network",
		"192.168.0.42": "Local Network",
		"172.16.0.1":   "Local Network",
		"172.31.200.9": "Local Network",
		"172.32.0.1":   "Unknown Location",
		"172.8.0.1":    "Unknown Location",
		"8.8.8.8":      "Unknown Location",
		"2606:4700::1": "Unknown Location",
		"":             "Unknown Location",
	} {
		assert.Equal(t, expected, LocationLabel(networkOrigin), "origin %q", networkOrigin)
	}
}
