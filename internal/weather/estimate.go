package weather

import (
	"math"
	"math/rand/v2"
)

// Estimate is the synthesized approximate reading shown when the real data
// path fails. It is an approximation by design, never a measurement.
type Estimate struct {
	TemperatureC    float64 `json:"temperatureC"`
	PrecipitationMM float64 `json:"precipitationMm"`
	Approximate     bool    `json:"approximate"`
}

// EstimateForLocation synthesizes a plausible temperature/precipitation pair
// from latitude and longitude alone. The base values are deterministic; the
// jitter on top is random, so two calls for the same point differ.
// Output is always within [-20, 45] °C and [0, 25] mm.
func EstimateForLocation(lat, lon float64) Estimate {
	baseTemp := 30 - 0.5*math.Abs(lat)
	temp := clamp(baseTemp+rand.Float64()*10-5, -20, 45)

	basePrecip := 4.0
	if math.Abs(lon) > 100 {
		basePrecip = 10.0
	}
	precip := clamp(basePrecip+rand.Float64()*8-2, 0, 25)

	return Estimate{
		TemperatureC:    temp,
		PrecipitationMM: precip,
		Approximate:     true,
	}
}

// Data maps the estimate onto the same display shape the real path uses.
func (e Estimate) Data() (temperature, precipitation Datum) {
	tb, tl := temperatureBand(e.TemperatureC)
	pb, pl := precipitationBand(e.PrecipitationMM)
	temperature = Datum{Value: e.TemperatureC, ColorBand: tb, ConditionLabel: tl}
	precipitation = Datum{Value: e.PrecipitationMM, ColorBand: pb, ConditionLabel: pl}
	return temperature, precipitation
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
