package weather

const (
	kelvinOffset = 273.15

	// Specific humidity (kg/kg) scaled to a rough precipitation proxy in
	// mm/day for display purposes.
	precipProxyScale = 500
)

// Band is a normalized display color band derived from a value by fixed
// thresholds.
type Band string

const (
	BandBlue   Band = "blue"
	BandTeal   Band = "teal"
	BandGreen  Band = "green"
	BandOrange Band = "orange"
	BandRed    Band = "red"
)

// Datum is a display-ready value with its derived band and label. It has no
// lifecycle of its own; it is recomputed from the raw result on demand.
type Datum struct {
	Value          float64 `json:"value"`
	ColorBand      Band    `json:"colorBand"`
	ConditionLabel string  `json:"conditionLabel"`
}

// TemperatureDatum converts a raw T2M reading in Kelvin to a Celsius display
// datum.
func TemperatureDatum(t2mKelvin float64) Datum {
	c := t2mKelvin - kelvinOffset
	band, label := temperatureBand(c)
	return Datum{Value: c, ColorBand: band, ConditionLabel: label}
}

// PrecipitationDatum scales a raw QV2M reading (kg/kg) to the mm/day proxy
// display datum.
func PrecipitationDatum(qv2m float64) Datum {
	mm := qv2m * precipProxyScale
	band, label := precipitationBand(mm)
	return Datum{Value: mm, ColorBand: band, ConditionLabel: label}
}

func temperatureBand(c float64) (Band, string) {
	switch {
	case c < 0:
		return BandBlue, "freezing"
	case c < 10:
		return BandTeal, "cold"
	case c < 20:
		return BandGreen, "mild"
	case c < 30:
		return BandOrange, "warm"
	default:
		return BandRed, "hot"
	}
}

func precipitationBand(mm float64) (Band, string) {
	switch {
	case mm < 2:
		return BandOrange, "dry"
	case mm < 6:
		return BandGreen, "light"
	case mm < 12:
		return BandTeal, "moderate"
	default:
		return BandBlue, "wet"
	}
}
