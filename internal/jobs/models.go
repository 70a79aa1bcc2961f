package jobs

import (
	"time"
)

// Status represents the lifecycle state of a fetch job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether a job in this status can no longer change.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Variable names returned by the data provider for a single-level query.
const (
	VarTemperature2M    = "T2M"  // 2-meter air temperature (K)
	VarSurfacePressure  = "PS"   // surface pressure (Pa)
	VarSpecificHumidity = "QV2M" // 2-meter specific humidity (kg/kg)
	VarEastwardWind2M   = "U2M"  // 2-meter eastward wind (m/s)
	VarNorthwardWind2M  = "V2M"  // 2-meter northward wind (m/s)
)

// Request describes one historical weather lookup.
// Timezone may be left empty; it is then derived from the longitude band.
type Request struct {
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Date      string  `json:"date" validate:"required"`
	Timezone  string  `json:"timezone,omitempty"`
}

// Day parses the request date as a calendar date.
func (r Request) Day() (time.Time, error) {
	return time.Parse("2006-01-02", r.Date)
}

// Job is the authoritative record for one submitted request.
// After creation only the owning worker writes to it; once the status is
// terminal the record never changes again.
type Job struct {
	ID          string             `json:"jobId"`
	Status      Status             `json:"status"`
	Request     Request            `json:"request"`
	Result      map[string]float64 `json:"result,omitempty"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`
}
