package grid

import (
	"fmt"
	"time"
)

const MinutesPerHour = 60

// TimeOfDay is a wall-clock minute of the day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// TimeOfDayFromMinutes converts minutes since midnight to a TimeOfDay.
// Values outside a single day wrap around midnight.
func TimeOfDayFromMinutes(minutes int) TimeOfDay {
	minutes = ((minutes % (24 * MinutesPerHour)) + 24*MinutesPerHour) % (24 * MinutesPerHour)
	return TimeOfDay{Hour: minutes / MinutesPerHour, Minute: minutes % MinutesPerHour}
}

// ParseTimeOfDay parses the "HH:MM" 24-hour format, e.g. "09:30".
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", value, err)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*MinutesPerHour + t.Minute
}

func (t TimeOfDay) AddMinutes(minutes int) TimeOfDay {
	return TimeOfDayFromMinutes(t.Minutes() + minutes)
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// Valid reports whether the hour is in [0,23] and the minute in [0,59].
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// String returns the "HH:MM" representation.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
