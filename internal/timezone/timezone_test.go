package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLongitude(t *testing.T) {
	cases := []struct {
		lon  float64
		want string
	}{
		{-122.3, "America/Los_Angeles"},
		{-74.0, "America/New_York"},
		{-27.0, "America/Noronha"},
		{2.3, "Europe/London"},
		{139.7, "Asia/Tokyo"},
		{-180, "Etc/GMT+12"},
		{180, "Pacific/Guadalcanal"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FromLongitude(tc.lon), "lon=%v", tc.lon)
	}
}

func TestOutOfRangeLongitudeClamps(t *testing.T) {
	assert.Equal(t, "Etc/GMT+12", FromLongitude(-500))
	assert.Equal(t, "Pacific/Guadalcanal", FromLongitude(500))
}

// Every band entry must resolve against the host zone database.
func TestBandsAreResolvable(t *testing.T) {
	for lon := -180.0; lon <= 180; lon += 15 {
		name := FromLongitude(lon)
		_, err := time.LoadLocation(name)
		require.NoError(t, err, "zone %s for lon=%v", name, lon)
	}
}
