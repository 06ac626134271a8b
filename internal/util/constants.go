package util

const (
	DateFormat  = "2006-01-02"
	HourFormat  = "2006-01-02 15:00"
	MonthFormat = "2006-01"
	TimeFormat  = "2006-01-02 15:04:05"
)

const (
	GranularityHourly  = "hourly"
	GranularityDaily   = "daily"
	GranularityWeekly  = "weekly"
	GranularityMonthly = "monthly"
)

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

const (
	StatTypeDaily    = "daily"
	StatTypeWeekly   = "weekly"
	StatTypeMonthly  = "monthly"
	StatTypeLifetime = "lifetime"
)
