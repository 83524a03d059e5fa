package stats

import "time"

// DailyStats is the planned study time of one day column.
type DailyStats struct {
	DayIndex  int
	Weekday   time.Weekday
	Subjects  []SubjectStats
	TotalTime time.Duration
	// TargetTime is the study time aimed for on every day.
	TargetTime time.Duration
}

// SubjectStats groups the events of one subject.
type SubjectStats struct {
	Subject  string
	Color    string
	Sessions int
	Duration time.Duration
}

type StatsSummary struct {
	Days       []DailyStats
	Subjects   []SubjectStats
	TotalTime  time.Duration
	TargetTime time.Duration
}

// WeekdayOf maps a day column to its weekday. Column 0 is Monday.
func WeekdayOf(dayIndex int) time.Weekday {
	return time.Weekday((dayIndex + 1) % 7)
}
