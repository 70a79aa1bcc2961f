package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-map/internal/weather"
)

// powerFillValue marks missing samples in POWER responses.
const powerFillValue = -999

// PowerProvider implements weather.HistoricalProvider against NASA POWER,
// which serves the MERRA-2 single-level diagnostics this application consumes.
type PowerProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewPowerProvider(client *http.Client) *PowerProvider {
	return &PowerProvider{
		name:    "nasa-power",
		baseURL: "https://power.larc.nasa.gov/api/temporal/hourly/point",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newBreaker("nasa-power"),
	}
}

func (p *PowerProvider) Name() string {
	return p.name
}

// FetchDay retrieves hourly samples for one calendar date and reduces them to
// daily means in raw MERRA-2 conventions (T2M in Kelvin, PS in Pa, QV2M in
// kg/kg). POWER reports Celsius, kPa and g/kg, so values are converted at
// this boundary.
func (p *PowerProvider) FetchDay(ctx context.Context, lat, lon float64, day time.Time) (weather.Variables, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("parameters", "T2M,PS,QV2M,U2M,V2M")
		values.Set("community", "RE")
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("start", day.Format("20060102"))
		values.Set("end", day.Format("20060102"))
		values.Set("format", "JSON")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Properties struct {
			Parameter map[string]map[string]float64 `json:"parameter"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	vars := make(weather.Variables)
	for name, samples := range payload.Properties.Parameter {
		var sum float64
		var n int
		for _, v := range samples {
			if v == powerFillValue {
				continue
			}
			sum += v
			n++
		}
		if n == 0 {
			continue
		}
		vars[name] = normalizePowerValue(name, sum/float64(n))
	}

	if len(vars) == 0 {
		return nil, fmt.Errorf("nasa power returned no usable samples for %s", day.Format("2006-01-02"))
	}
	return vars, nil
}

func normalizePowerValue(name string, v float64) float64 {
	switch name {
	case "T2M":
		return v + 273.15 // °C -> K
	case "PS":
		return v * 1000 // kPa -> Pa
	case "QV2M":
		return v / 1000 // g/kg -> kg/kg
	default:
		return v
	}
}
