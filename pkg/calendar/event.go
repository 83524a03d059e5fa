package calendar

import (
	"regexp"
	"time"

	"github.com/klokku/studygrid/pkg/grid"
)

type EventType string

const (
	TypeTask     EventType = "task"
	TypeSession  EventType = "session"
	TypeDeadline EventType = "deadline"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

const (
	DefaultSubject  = "General"
	DefaultTitle    = "New Task"
	DefaultDuration = 60
)

// Colors are either hex codes or gradient tokens such as "from-sky-300/80 to-sky-400/80".
var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|from-[a-z]+-\d{2,3}(/\d{1,3})? to-[a-z]+-\d{2,3}(/\d{1,3})?)$`)

var typeColors = map[EventType]string{
	TypeTask:     "from-blue-300/80 to-blue-400/80",
	TypeSession:  "from-green-300/80 to-green-400/80",
	TypeDeadline: "from-red-300/80 to-red-400/80",
}

var typeIcons = map[EventType]string{
	TypeTask:     "📋",
	TypeSession:  "📚",
	TypeDeadline: "⏰",
}

// Event is a study session, task or deadline placed on the weekly grid.
type Event struct {
	UID             string
	Title           string
	Type            EventType
	Subject         string
	StartTime       grid.TimeOfDay
	DurationMinutes int
	DayIndex        int
	Difficulty      Difficulty
	Priority        Priority
	// Progress is the completion percentage, 0-100.
	Progress    int
	Completed   bool
	Color       string
	Icon        string
	Description string
}

// GridEvent returns the part of the event the layout engine works with.
func (e Event) GridEvent() grid.Event {
	return grid.Event{
		ID:              e.UID,
		StartTime:       e.StartTime,
		DurationMinutes: e.DurationMinutes,
		DayIndex:        e.DayIndex,
	}
}

// WithGridEvent copies time, duration and day from g, keeping everything else.
func (e Event) WithGridEvent(g grid.Event) Event {
	e.StartTime = g.StartTime
	e.DurationMinutes = g.DurationMinutes
	e.DayIndex = g.DayIndex
	return e
}

// WithPlacement moves the event to p. The duration is kept.
func (e Event) WithPlacement(p grid.Placement) Event {
	e.StartTime = p.StartTime
	e.DayIndex = p.DayIndex
	return e
}

// withDefaults fills the fields a new event may leave empty. Color and icon follow the
// event type.
func (e Event) withDefaults() Event {
	if e.Type == "" {
		e.Type = TypeTask
	}
	if e.Subject == "" {
		e.Subject = DefaultSubject
	}
	if e.Difficulty == "" {
		e.Difficulty = DifficultyMedium
	}
	if e.Priority == "" {
		e.Priority = PriorityMedium
	}
	if e.Color == "" {
		e.Color = typeColors[e.Type]
	}
	if e.Icon == "" {
		e.Icon = typeIcons[e.Type]
	}
	return e
}

// DayIndexOf returns the day column of date, Monday being 0 and Sunday 6.
func DayIndexOf(date time.Time) int {
	return (int(date.Weekday()) + 6) % grid.DaysPerWeek
}

// LaidOutEvent is an event together with its rendering box.
type LaidOutEvent struct {
	Event Event
	Box   grid.Box
	// Overlaps holds the UIDs of events sharing part of the same time slot.
	Overlaps []string
	// Previewing is set while a drag shows the event at a placement not yet committed.
	Previewing bool
}
