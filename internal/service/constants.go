package service

const (
	// DefaultBackfillDays is how far back the first sync reaches when the
	// cache is empty.
	DefaultBackfillDays = 90

	// ChartWeeks is the number of weeks shown in the mileage chart
	ChartWeeks = 12

	// RecentRunsLimit caps the runs shown on the dashboard
	RecentRunsLimit = 10

	// TCXBatchSize caps TCX downloads per sync to stay inside the hourly
	// API quota alongside the daily log requests.
	TCXBatchSize = 50

	// DateLayout is the date format used throughout (and as the runs
	// primary key)
	DateLayout = "2006-01-02"
)

// RunActivityNames are the Fitbit activity names treated as runs.
var RunActivityNames = map[string]bool{
	"Run":           true,
	"Treadmill run": true,
}
