package event_bus

import "github.com/klokku/studygrid/pkg/grid"

const (
	// GestureChangePreviewed carries the placement a drag currently shows. It is not stored.
	GestureChangePreviewed EventType = "gesture.change.previewed"
	// GestureChangeCommitted carries a CalendarEventChanged to be applied by the event owner.
	GestureChangeCommitted EventType = "gesture.change.committed"
	// GestureChangeReverted carries the origin an event returns to. Any preview of the
	// event is dropped.
	GestureChangeReverted EventType = "gesture.change.reverted"
)

type CalendarEventChanged struct {
	SessionID string
	// Gesture is the gesture kind, e.g. "drag" or "resize-end".
	Gesture string
	// Event is the full event after the change, keyed by Event.ID.
	Event grid.Event
	// PlacementOnly limits the change to StartTime and DayIndex. Drags set it so that
	// the duration stored meanwhile is kept.
	PlacementOnly bool
}
