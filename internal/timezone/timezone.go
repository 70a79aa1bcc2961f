// Package timezone derives a representative IANA zone from a longitude.
package timezone

import "math"

// bands maps each of the 24 fifteen-degree longitude bands, centered on the
// UTC offset meridians from -12 to +11, to a representative IANA zone.
// Purely a lookup; political zone boundaries are out of scope.
var bands = [24]string{
	"Etc/GMT+12",          // UTC-12
	"Pacific/Pago_Pago",   // UTC-11
	"Pacific/Honolulu",    // UTC-10
	"America/Anchorage",   // UTC-9
	"America/Los_Angeles", // UTC-8
	"America/Denver",      // UTC-7
	"America/Chicago",     // UTC-6
	"America/New_York",    // UTC-5
	"America/Halifax",     // UTC-4
	"America/Sao_Paulo",   // UTC-3
	"America/Noronha",     // UTC-2
	"Atlantic/Azores",     // UTC-1
	"Europe/London",       // UTC+0
	"Europe/Paris",        // UTC+1
	"Europe/Athens",       // UTC+2
	"Europe/Moscow",       // UTC+3
	"Asia/Dubai",          // UTC+4
	"Asia/Karachi",        // UTC+5
	"Asia/Dhaka",          // UTC+6
	"Asia/Bangkok",        // UTC+7
	"Asia/Shanghai",       // UTC+8
	"Asia/Tokyo",          // UTC+9
	"Australia/Sydney",    // UTC+10
	"Pacific/Guadalcanal", // UTC+11
}

// FromLongitude returns the representative zone for the band containing lon.
// Each band spans 7.5 degrees either side of its offset meridian; longitudes
// outside [-180, 180] are clamped to the nearest band.
func FromLongitude(lon float64) string {
	idx := int(math.Floor((lon + 187.5) / 15))
	if idx < 0 {
		idx = 0
	}
	if idx > len(bands)-1 {
		idx = len(bands) - 1
	}
	return bands[idx]
}
