package store

import "time"

// Run is one day's cached run summary. Distance is in miles, Duration in
// milliseconds, ElevGain in feet. ElevGain is nil until either the
// estimator or a Strava reference has produced a value; ElevSource records
// which one ("estimated" or "strava").
type Run struct {
	Date         string
	Distance     float64
	Duration     int64
	Steps        int
	MinHR        int
	MaxHR        int
	AvgHR        int
	Calories     int
	RestingHR    int
	ActivityType string
	ElevGain     *float64
	ElevSource   string
	LogID        int64
}

// ElevSource values.
const (
	ElevSourceEstimated = "estimated"
	ElevSourceStrava    = "strava"
)

// TCXFile is a cached raw TCX document for a run.
type TCXFile struct {
	Date      string
	Body      string
	FetchedAt time.Time
}

// ReferenceElevation is a trusted elevation gain for a date, in feet.
type ReferenceElevation struct {
	Date       string
	ElevGain   float64
	Source     string
	ActivityID int64
}

// Auth holds the stored OAuth tokens.
type Auth struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
