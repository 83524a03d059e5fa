package gesture

import (
	"errors"
	"time"

	"github.com/klokku/studygrid/pkg/grid"
)

var ErrGestureInProgress = errors.New("another gesture is active for this event")
var ErrSessionNotFound = errors.New("gesture session not found")
var ErrUnknownKind = errors.New("unknown gesture kind")

// Kind is the interaction a session drives.
type Kind string

const (
	Drag        Kind = "drag"
	ResizeStart Kind = "resize-start"
	ResizeEnd   Kind = "resize-end"
)

func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case Drag, ResizeStart, ResizeEnd:
		return Kind(value), nil
	}
	return "", ErrUnknownKind
}

func (k Kind) IsResize() bool {
	return k == ResizeStart || k == ResizeEnd
}

// Outcome is how a gesture ended.
type Outcome string

const (
	Committed Outcome = "committed"
	Reverted  Outcome = "reverted"
)

// Session is one pointer-down to pointer-up interaction on a single event.
type Session struct {
	ID   string
	Kind Kind
	// Origin is the event as it was when the gesture began.
	Origin       grid.Event
	StartPointer grid.Point
	// Current is the latest proposal. For resizes it is also the latest applied value.
	Current   grid.Event
	Accepted  bool
	StartedAt time.Time
	UpdatedAt time.Time
}

// Change is the proposal computed for one pointer update.
type Change struct {
	SessionID string
	Kind      Kind
	Event     grid.Event
	// Accepted is false when a drag preview is off the grid or a resize was rejected.
	Accepted bool
}

// Result is the final state of an ended gesture.
type Result struct {
	SessionID string
	Outcome   Outcome
	Event     grid.Event
}

// propose computes the event for the pointer at its current absolute position. All
// deltas are taken from the pointer position captured when the gesture began.
func (s *Session) propose(pointer grid.Point, geo grid.Geometry) (grid.Event, bool) {
	delta := grid.Point{X: pointer.X - s.StartPointer.X, Y: pointer.Y - s.StartPointer.Y}

	switch s.Kind {
	case Drag:
		placement, ok := grid.Move(s.Origin.Placement(), delta, pointer, geo)
		return s.Origin.WithPlacement(placement), ok
	case ResizeStart:
		resized, ok := grid.ResizeStart(s.Origin, delta.Y, geo)
		if !ok {
			return s.Current, false
		}
		return resized, true
	case ResizeEnd:
		return grid.ResizeEnd(s.Origin, delta.Y, geo), true
	}
	return s.Current, false
}
