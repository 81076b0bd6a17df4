package tui

import (
	"fmt"

	"github.com/BBrav0/FitbitDataReader/internal/config"
)

const (
	kmPerMile    = 1.609344
	feetPerMeter = 3.28084
)

// Units provides unit conversion and formatting based on user preferences.
// Cached distances are in miles and elevations in feet.
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatDistance formats a distance in miles to the user's preferred unit
func (u Units) FormatDistance(miles float64) string {
	if u.cfg.DistanceUnit == "km" {
		return fmt.Sprintf("%.1f km", miles*kmPerMile)
	}
	return fmt.Sprintf("%.1f mi", miles)
}

// FormatElevation formats an elevation gain in feet to the user's
// preferred unit
func (u Units) FormatElevation(feet float64) string {
	if u.cfg.ElevationUnit == "m" {
		return fmt.Sprintf("%.0f m", feet/feetPerMeter)
	}
	return fmt.Sprintf("%.0f ft", feet)
}

// FormatPace formats pace from a duration in milliseconds and miles
func (u Units) FormatPace(durationMS int64, miles float64) string {
	if miles <= 0 || durationMS <= 0 {
		return "-"
	}

	seconds := float64(durationMS) / 1000
	var paceSeconds float64
	if u.cfg.DistanceUnit == "km" {
		paceSeconds = seconds / (miles * kmPerMile)
	} else {
		paceSeconds = seconds / miles
	}

	mins := int(paceSeconds) / 60
	secs := int(paceSeconds) % 60
	return fmt.Sprintf("%d:%02d/%s", mins, secs, u.DistanceLabel())
}

// FormatDuration formats a duration in milliseconds as "1h 23m" or "45m"
func (u Units) FormatDuration(durationMS int64) string {
	totalMins := durationMS / 60000
	h := totalMins / 60
	m := totalMins % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.cfg.DistanceUnit == "km" {
		return "km"
	}
	return "mi"
}

// ElevationLabel returns the short unit label ("ft" or "m")
func (u Units) ElevationLabel() string {
	if u.cfg.ElevationUnit == "m" {
		return "m"
	}
	return "ft"
}
