package strava

import "time"

// Activity represents a Strava activity from the API. Only the fields
// needed to match runs by date and pull reference elevations are kept.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
	Distance           float64   `json:"distance"`             // meters
	MovingTime         int       `json:"moving_time"`          // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
}

// IsRun reports whether the activity is a run of any kind.
func (a Activity) IsRun() bool {
	return a.Type == "Run" || a.SportType == "Run" || a.SportType == "TrailRun"
}

// LocalDate returns the activity's local start date as YYYY-MM-DD.
func (a Activity) LocalDate() string {
	return a.StartDateLocal.Format("2006-01-02")
}

// ElevationGainFeet returns the reported elevation gain converted to feet.
func (a Activity) ElevationGainFeet() float64 {
	return a.TotalElevationGain * 3.28084
}
