// Package format holds pure display formatting helpers shared by the JSON
// API and the HTML templates.
package format

import (
	"fmt"
	"time"
)

type interval struct {
	unit    string
	seconds int64
}

// Ordered largest first so the first matching interval wins.
var intervals = []interval{
	{"year", 31536000},
	{"month", 2592000},
	{"week", 604800},
	{"day", 86400},
	{"hour", 3600},
	{"minute", 60},
}

// TimeAgo renders t relative to now ("3 hours ago", "just now").
func TimeAgo(t, now time.Time) string {
	seconds := int64(now.Sub(t).Seconds())

	if seconds < 0 {
		return "in the future"
	}
	if seconds < 60 {
		return "just now"
	}

	for _, iv := range intervals {
		if n := seconds / iv.seconds; n >= 1 {
			if n == 1 {
				return fmt.Sprintf("1 %s ago", iv.unit)
			}
			return fmt.Sprintf("%d %ss ago", n, iv.unit)
		}
	}
	return "just now"
}

// TruncateAddress shortens a wallet address for display, keeping the first
// start and last end characters: "0x1234...5678". Addresses already shorter
// than the combined window are returned unchanged.
func TruncateAddress(address string, start, end int) string {
	if address == "" {
		return ""
	}
	if len(address) <= start+end {
		return address
	}
	return address[:start] + "..." + address[len(address)-end:]
}
