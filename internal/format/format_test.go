package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"future", now.Add(time.Minute), "in the future"},
		{"just now", now.Add(-30 * time.Second), "just now"},
		{"one minute", now.Add(-90 * time.Second), "1 minute ago"},
		{"minutes", now.Add(-10 * time.Minute), "10 minutes ago"},
		{"one hour", now.Add(-time.Hour), "1 hour ago"},
		{"hours", now.Add(-5 * time.Hour), "5 hours ago"},
		{"one day", now.Add(-25 * time.Hour), "1 day ago"},
		{"weeks", now.Add(-15 * 24 * time.Hour), "2 weeks ago"},
		{"months", now.Add(-70 * 24 * time.Hour), "2 months ago"},
		{"years", now.Add(-800 * 24 * time.Hour), "2 years ago"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TimeAgo(tc.t, now))
		})
	}
}

func TestTruncateAddress(t *testing.T) {
	addr := "0xAbCdEf0123456789AbCdEf0123456789AbCdEf01"

	assert.Equal(t, "0xAbCd...Ef01", TruncateAddress(addr, 6, 4))
	assert.Equal(t, "", TruncateAddress("", 6, 4))
	assert.Equal(t, "0x1234", TruncateAddress("0x1234", 6, 4))
}
