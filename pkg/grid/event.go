package grid

import (
	"errors"
	"fmt"
)

var ErrDurationTooShort = fmt.Errorf("duration must be at least %d minutes", MinDurationMinutes)
var ErrInvalidDayIndex = errors.New("day index must be between 0 and 6")
var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// Event is a timed block on the week grid.
type Event struct {
	ID              string
	StartTime       TimeOfDay
	DurationMinutes int
	// DayIndex is the day column, Monday=0 ... Sunday=6.
	DayIndex int
}

// Placement is the part of an event a drag can change.
type Placement struct {
	StartTime TimeOfDay
	DayIndex  int
}

// Point is a pointer position or delta in pixels.
type Point struct {
	X float64
	Y float64
}

// Box is the rendered vertical extent of an event inside its day column.
type Box struct {
	TopPx    float64 `json:"topPx"`
	HeightPx float64 `json:"heightPx"`
}

// EndTime is StartTime + DurationMinutes. It is derived, never stored.
func (e Event) EndTime() TimeOfDay {
	return e.StartTime.AddMinutes(e.DurationMinutes)
}

func (e Event) endMinutes() int {
	return e.StartTime.Minutes() + e.DurationMinutes
}

func (e Event) Placement() Placement {
	return Placement{StartTime: e.StartTime, DayIndex: e.DayIndex}
}

// WithPlacement returns a copy of e moved to p. The duration is unchanged.
func (e Event) WithPlacement(p Placement) Event {
	e.StartTime = p.StartTime
	e.DayIndex = p.DayIndex
	return e
}

func (e Event) Validate() error {
	if !e.StartTime.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidTimeOfDay, e.StartTime)
	}
	if e.DurationMinutes < MinDurationMinutes {
		return fmt.Errorf("%w: got %d", ErrDurationTooShort, e.DurationMinutes)
	}
	if e.DayIndex < 0 || e.DayIndex >= DaysPerWeek {
		return fmt.Errorf("%w: got %d", ErrInvalidDayIndex, e.DayIndex)
	}
	return nil
}

// Overlaps reports whether both events share a day and their time ranges intersect.
func (e Event) Overlaps(other Event) bool {
	if e.DayIndex != other.DayIndex {
		return false
	}
	return e.StartTime.Minutes() < other.endMinutes() && other.StartTime.Minutes() < e.endMinutes()
}

// EventGeometry computes where the event is drawn inside its column. The height never
// drops below geo.MinHeightPx.
func EventGeometry(event Event, geo Geometry) Box {
	height := float64(event.DurationMinutes) / MinutesPerHour * geo.HourHeightPx
	return Box{
		TopPx:    TimeToOffsetPx(event.StartTime, geo),
		HeightPx: max(height, geo.MinHeightPx),
	}
}
