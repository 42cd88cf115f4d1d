// SPDX-License-Identifier: MIT

package sessions

import (
	"strconv"
	"strings"
)

// DeviceLabel maps a user-agent string to a coarse device label. It is a
// deliberately crude substring sniff, kept as a pure function so a real
// device-fingerprinting service can be substituted without touching the
// session store.
func DeviceLabel(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "iPhone"):
		return "iPhone"
	case strings.Contains(userAgent, "iPad"):
		return "iPad"
	case strings.Contains(userAgent, "Android"):
		return "Android Device"
	case strings.Contains(userAgent, "Macintosh"):
		return "Mac"
	case strings.Contains(userAgent, "Windows"):
		return "Windows PC"
	case strings.Contains(userAgent, "Linux"):
		return "Linux PC"
	default:
		return "Unknown Device"
	}
}

// LocationLabel maps a network origin to a coarse location label. Anything
// beyond loopback/private-range detection is left to a real geolocation
// lookup, substituted the same way as DeviceLabel.
func LocationLabel(networkOrigin string) string {
	if networkOrigin == "127.0.0.1" || networkOrigin == "::1" || networkOrigin == "localhost" {
		return "Localhost"
	}
	if isPrivateNetwork(networkOrigin) {
		return "Local Network"
	}

	return "Unknown Location"
}

func isPrivateNetwork(networkOrigin string) bool {
	if strings.HasPrefix(networkOrigin, "10.") || strings.HasPrefix(networkOrigin, "192.168.") {
		return true
	}
	if rest, found := strings.CutPrefix(networkOrigin, "172."); found {
		octet, _, _ := strings.Cut(rest, ".")
		if val, err := strconv.Atoi(octet); err == nil && val >= 16 && val <= 31 {
			return true
		}
	}

	return false
}
