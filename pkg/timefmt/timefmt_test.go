package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_TimeAgo_Buckets(t *testing.T) {
	req := require.New(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	req.Equal("0 seconds ago", TimeAgo(now, now))
	req.Equal("1 second ago", TimeAgo(now.Add(-1*time.Second), now))
	req.Equal("59 seconds ago", TimeAgo(now.Add(-59*time.Second), now))
	req.Equal("1 minute ago", TimeAgo(now.Add(-60*time.Second), now))
	req.Equal("59 minutes ago", TimeAgo(now.Add(-59*time.Minute), now))
	req.Equal("1 hour ago", TimeAgo(now.Add(-1*time.Hour), now))
	req.Equal("23 hours ago", TimeAgo(now.Add(-23*time.Hour), now))
	req.Equal("1 day ago", TimeAgo(now.Add(-24*time.Hour), now))
	req.Equal("3 days ago", TimeAgo(now.Add(-72*time.Hour), now))
}

func Test_TimeAgo_FutureClockSkew(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "0 seconds ago", TimeAgo(now.Add(5*time.Second), now))
}

func Test_DateBucket(t *testing.T) {
	req := require.New(t)
	// A Monday.
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	req.Equal("Today", DateBucket(now.Add(-2*time.Hour), now))
	// Crossing midnight matters, not the 24h delta.
	req.Equal("Yesterday", DateBucket(time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC), now))
	req.Equal("Saturday", DateBucket(time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC), now))
	req.Equal("Tuesday", DateBucket(time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC), now))
	// Seven days back falls out of the weekday window.
	req.Equal("March 3, 2025", DateBucket(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), now))
	req.Equal("December 25, 2024", DateBucket(time.Date(2024, 12, 25, 18, 0, 0, 0, time.UTC), now))
}
