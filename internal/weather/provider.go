package weather

import (
	"context"
	"time"
)

// Variables is a mapping of provider variable names (T2M, QV2M, ...) to
// daily-mean values in the raw MERRA-2 conventions (temperature in Kelvin,
// pressure in Pa, humidity in kg/kg).
type Variables map[string]float64

// HistoricalProvider abstracts a historical weather data source
// (e.g. NASA POWER, Open-Meteo archive).
type HistoricalProvider interface {
	Name() string
	FetchDay(ctx context.Context, lat, lon float64, day time.Time) (Variables, error)
}
