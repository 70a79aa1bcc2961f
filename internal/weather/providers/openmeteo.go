package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-map/internal/weather"
)

// OpenMeteoProvider implements weather.HistoricalProvider against the
// Open-Meteo ERA5 archive. It serves as the secondary source when NASA POWER
// is unavailable; fields are remapped onto the MERRA-2 variable names.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo-archive",
		baseURL: "https://archive-api.open-meteo.com/v1/archive",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newBreaker("openmeteo-archive"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchDay(ctx context.Context, lat, lon float64, day time.Time) (weather.Variables, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("start_date", day.Format("2006-01-02"))
		values.Set("end_date", day.Format("2006-01-02"))
		values.Set("hourly", "temperature_2m,dew_point_2m,surface_pressure,wind_speed_10m,wind_direction_10m")
		values.Set("wind_speed_unit", "ms")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Temperature   []float64 `json:"temperature_2m"`
			DewPoint      []float64 `json:"dew_point_2m"`
			Pressure      []float64 `json:"surface_pressure"`
			WindSpeed     []float64 `json:"wind_speed_10m"`
			WindDirection []float64 `json:"wind_direction_10m"`
		} `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	h := payload.Hourly
	if len(h.Temperature) == 0 {
		return nil, fmt.Errorf("openmeteo archive returned no samples for %s", day.Format("2006-01-02"))
	}

	tempC := mean(h.Temperature)
	pressHpa := mean(h.Pressure)
	dewC := mean(h.DewPoint)

	vars := weather.Variables{
		"T2M": tempC + 273.15,
		"PS":  pressHpa * 100,
	}

	// Specific humidity from dew point and pressure (Magnus formula); the
	// archive does not expose QV2M directly.
	if pressHpa > 0 {
		e := 6.112 * math.Exp(17.67*dewC/(dewC+243.5))
		vars["QV2M"] = 0.622 * e / (pressHpa - 0.378*e)
	}

	// Decompose wind into eastward/northward components. Meteorological
	// convention: direction is where the wind blows from.
	if len(h.WindSpeed) > 0 && len(h.WindSpeed) == len(h.WindDirection) {
		var sumU, sumV float64
		for i, speed := range h.WindSpeed {
			rad := h.WindDirection[i] * math.Pi / 180
			sumU += -speed * math.Sin(rad)
			sumV += -speed * math.Cos(rad)
		}
		n := float64(len(h.WindSpeed))
		vars["U2M"] = sumU / n
		vars["V2M"] = sumV / n
	}

	return vars, nil
}

func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	return sum / float64(len(samples))
}
