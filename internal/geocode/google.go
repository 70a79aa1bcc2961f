package geocode

import (
	"context"

	"github.com/kelvins/geocoder"
)

// Google is an alternative Geocoder backed by the Google Geocoding API via
// kelvins/geocoder, selected when an API key is configured.
type Google struct{}

// NewGoogle configures the backend with the given API key. The underlying
// library keys the whole process, so construct at most one.
func NewGoogle(apiKey string) *Google {
	geocoder.ApiKey = apiKey
	return &Google{}
}

func (g *Google) Forward(ctx context.Context, query string) (Place, error) {
	location, err := geocoder.Geocoding(geocoder.Address{Street: query})
	if err != nil {
		return Place{}, ErrNoResult
	}
	return Place{
		Lat:         location.Latitude,
		Lon:         location.Longitude,
		DisplayName: query,
	}, nil
}

func (g *Google) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{
		Latitude:  lat,
		Longitude: lon,
	})
	if err != nil || len(addresses) == 0 {
		return "", ErrNoResult
	}
	return addresses[0].FormatAddress(), nil
}
