package fitbit

// ActivityLog is a single logged activity from the daily activity endpoint.
// Distance is in miles (requests are sent with Accept-Language: en_US),
// Duration in milliseconds.
type ActivityLog struct {
	LogID            int64           `json:"logId"`
	Name             string          `json:"name"`
	Distance         float64         `json:"distance"`
	Duration         int64           `json:"duration"`
	Steps            int             `json:"steps"`
	Calories         int             `json:"calories"`
	AverageHeartRate int             `json:"averageHeartRate"`
	HasGPS           bool            `json:"hasGps"`
	StartTime        string          `json:"startTime"`
	HeartRateZones   []HeartRateZone `json:"heartRateZones"`
}

// HeartRateZone is one HR zone band within an activity.
type HeartRateZone struct {
	Name    string `json:"name"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Minutes int    `json:"minutes"`
}

// MinHeartRate returns the lowest zone boundary the activity touched,
// or 0 when no zone data is present.
func (a ActivityLog) MinHeartRate() int {
	min := 0
	for _, z := range a.HeartRateZones {
		if z.Minutes == 0 {
			continue
		}
		if min == 0 || z.Min < min {
			min = z.Min
		}
	}
	return min
}

// MaxHeartRate returns the highest zone boundary the activity touched,
// or 0 when no zone data is present.
func (a ActivityLog) MaxHeartRate() int {
	max := 0
	for _, z := range a.HeartRateZones {
		if z.Minutes == 0 {
			continue
		}
		if z.Max > max {
			max = z.Max
		}
	}
	return max
}

// DailyActivities is the response from the activities-by-date endpoint.
type DailyActivities struct {
	Activities []ActivityLog `json:"activities"`
	Summary    DailySummary  `json:"summary"`
}

// DailySummary holds the day-level totals we care about.
type DailySummary struct {
	RestingHeartRate int `json:"restingHeartRate"`
	Steps            int `json:"steps"`
	CaloriesOut      int `json:"caloriesOut"`
}

// heartByDate is the response from the heart rate time series endpoint.
type heartByDate struct {
	ActivitiesHeart []struct {
		Value struct {
			RestingHeartRate int `json:"restingHeartRate"`
		} `json:"value"`
	} `json:"activities-heart"`
}
