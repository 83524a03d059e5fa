package gesture

import (
	"context"
	"testing"
	"time"

	"github.com/klokku/studygrid/internal/event_bus"
	"github.com/klokku/studygrid/internal/utils"
	"github.com/klokku/studygrid/pkg/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

var nineOClock = grid.Event{ID: "event-1", StartTime: grid.TimeOfDay{Hour: 9}, DurationMinutes: 90, DayIndex: 0}

type recorder struct {
	previewed []event_bus.CalendarEventChanged
	committed []event_bus.CalendarEventChanged
	reverted  []event_bus.CalendarEventChanged
}

func setupTracker(t *testing.T) (*Tracker, *recorder, *utils.MockClock) {
	t.Helper()
	bus := event_bus.NewEventBus()
	rec := &recorder{}
	event_bus.SubscribeTyped[event_bus.CalendarEventChanged](bus, event_bus.GestureChangePreviewed,
		func(e event_bus.EventT[event_bus.CalendarEventChanged]) error {
			rec.previewed = append(rec.previewed, e.Data)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.CalendarEventChanged](bus, event_bus.GestureChangeCommitted,
		func(e event_bus.EventT[event_bus.CalendarEventChanged]) error {
			rec.committed = append(rec.committed, e.Data)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.CalendarEventChanged](bus, event_bus.GestureChangeReverted,
		func(e event_bus.EventT[event_bus.CalendarEventChanged]) error {
			rec.reverted = append(rec.reverted, e.Data)
			return nil
		})
	clock := &utils.MockClock{FixedNow: time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)}
	return NewTracker(grid.DefaultGeometry(), bus, clock, time.Minute), rec, clock
}

func TestTracker_DragCommitsWhenReleasedOnGrid(t *testing.T) {
	tracker, rec, _ := setupTracker(t)
	start := grid.Point{X: 60, Y: 80}

	session, err := tracker.Begin(ctx, Drag, nineOClock, start)
	require.NoError(t, err)

	change, err := tracker.Update(ctx, session.ID, grid.Point{X: 300, Y: 155})
	require.NoError(t, err)
	assert.True(t, change.Accepted)
	assert.Equal(t, grid.TimeOfDay{Hour: 10, Minute: 15}, change.Event.StartTime)
	assert.Equal(t, 2, change.Event.DayIndex)
	assert.Empty(t, rec.committed, "drag previews are not committed")
	require.Len(t, rec.previewed, 1)
	assert.Equal(t, change.Event, rec.previewed[0].Event)
	assert.True(t, rec.previewed[0].PlacementOnly)

	result, err := tracker.End(ctx, session.ID, grid.Point{X: 300, Y: 155})
	require.NoError(t, err)

	assert.Equal(t, Committed, result.Outcome)
	assert.Equal(t, grid.Event{ID: "event-1", StartTime: grid.TimeOfDay{Hour: 10, Minute: 15}, DurationMinutes: 90, DayIndex: 2}, result.Event)
	require.Len(t, rec.committed, 1)
	assert.Equal(t, result.Event, rec.committed[0].Event)
	assert.Equal(t, "drag", rec.committed[0].Gesture)
	assert.True(t, rec.committed[0].PlacementOnly)
	assert.Empty(t, tracker.Active())
}

func TestTracker_DragRevertsWhenReleasedOffGrid(t *testing.T) {
	tracker, rec, _ := setupTracker(t)
	session, err := tracker.Begin(ctx, Drag, nineOClock, grid.Point{X: 60, Y: 80})
	require.NoError(t, err)

	change, err := tracker.Update(ctx, session.ID, grid.Point{X: 1200, Y: 155})
	require.NoError(t, err)
	assert.False(t, change.Accepted)

	result, err := tracker.End(ctx, session.ID, grid.Point{X: 1200, Y: 155})
	require.NoError(t, err)

	assert.Equal(t, Reverted, result.Outcome)
	assert.Equal(t, nineOClock, result.Event)
	assert.Empty(t, rec.committed)
	require.Len(t, rec.reverted, 1)
	assert.Equal(t, nineOClock, rec.reverted[0].Event)
}

func TestTracker_DragUsesFinalPointerOnly(t *testing.T) {
	tracker, _, _ := setupTracker(t)
	session, err := tracker.Begin(ctx, Drag, nineOClock, grid.Point{X: 60, Y: 80})
	require.NoError(t, err)

	_, err = tracker.Update(ctx, session.ID, grid.Point{X: 1200, Y: 155})
	require.NoError(t, err)
	result, err := tracker.End(ctx, session.ID, grid.Point{X: 60, Y: 140})
	require.NoError(t, err)

	assert.Equal(t, Committed, result.Outcome)
	assert.Equal(t, grid.TimeOfDay{Hour: 10}, result.Event.StartTime)
}

func TestTracker_ResizeEndCommitsEveryUpdate(t *testing.T) {
	tracker, rec, _ := setupTracker(t)
	session, err := tracker.Begin(ctx, ResizeEnd, nineOClock, grid.Point{X: 60, Y: 150})
	require.NoError(t, err)

	_, err = tracker.Update(ctx, session.ID, grid.Point{X: 60, Y: 180})
	require.NoError(t, err)
	change, err := tracker.Update(ctx, session.ID, grid.Point{X: 60, Y: 60})
	require.NoError(t, err)

	assert.True(t, change.Accepted)
	assert.Equal(t, 15, change.Event.DurationMinutes)
	require.Len(t, rec.committed, 2)
	assert.Equal(t, 120, rec.committed[0].Event.DurationMinutes)
	assert.Equal(t, 15, rec.committed[1].Event.DurationMinutes)

	result, err := tracker.End(ctx, session.ID, grid.Point{X: 60, Y: 165})
	require.NoError(t, err)
	assert.Equal(t, Committed, result.Outcome)
	assert.Equal(t, 105, result.Event.DurationMinutes)
	assert.Equal(t, nineOClock.StartTime, result.Event.StartTime)
}

func TestTracker_ResizeStartKeepsLastAcceptedValue(t *testing.T) {
	// 09:10-10:25 cannot start later than 10:00 once snapped
	event := grid.Event{ID: "event-2", StartTime: grid.TimeOfDay{Hour: 9, Minute: 10}, DurationMinutes: 75, DayIndex: 1}
	tracker, rec, _ := setupTracker(t)
	session, err := tracker.Begin(ctx, ResizeStart, event, grid.Point{X: 200, Y: 70})
	require.NoError(t, err)

	change, err := tracker.Update(ctx, session.ID, grid.Point{X: 200, Y: 90})
	require.NoError(t, err)
	require.True(t, change.Accepted)
	assert.Equal(t, grid.TimeOfDay{Hour: 9, Minute: 30}, change.Event.StartTime)
	assert.Equal(t, 55, change.Event.DurationMinutes)

	rejected, err := tracker.Update(ctx, session.ID, grid.Point{X: 200, Y: 600})
	require.NoError(t, err)
	assert.False(t, rejected.Accepted)
	assert.Equal(t, change.Event, rejected.Event)
	assert.Len(t, rec.committed, 1)

	result, err := tracker.End(ctx, session.ID, grid.Point{X: 200, Y: 600})
	require.NoError(t, err)
	assert.Equal(t, Committed, result.Outcome)
	assert.Equal(t, change.Event, result.Event)
	assert.GreaterOrEqual(t, result.Event.DurationMinutes, grid.MinDurationMinutes)
}

func TestTracker_RejectsSecondGestureOnSameEvent(t *testing.T) {
	tracker, _, _ := setupTracker(t)
	first, err := tracker.Begin(ctx, Drag, nineOClock, grid.Point{})
	require.NoError(t, err)

	_, err = tracker.Begin(ctx, ResizeEnd, nineOClock, grid.Point{})
	assert.ErrorIs(t, err, ErrGestureInProgress)

	other := nineOClock
	other.ID = "event-2"
	_, err = tracker.Begin(ctx, Drag, other, grid.Point{})
	assert.NoError(t, err)

	_, err = tracker.End(ctx, first.ID, grid.Point{X: 10, Y: 10})
	require.NoError(t, err)
	_, err = tracker.Begin(ctx, ResizeEnd, nineOClock, grid.Point{})
	assert.NoError(t, err)
}

func TestTracker_StaleSessionIsReplaced(t *testing.T) {
	tracker, rec, clock := setupTracker(t)
	stale, err := tracker.Begin(ctx, Drag, nineOClock, grid.Point{})
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	fresh, err := tracker.Begin(ctx, Drag, nineOClock, grid.Point{})

	require.NoError(t, err)
	assert.NotEqual(t, stale.ID, fresh.ID)
	_, found := tracker.Get(stale.ID)
	assert.False(t, found)
	require.Len(t, rec.reverted, 1)
	assert.Equal(t, stale.ID, rec.reverted[0].SessionID)
}

func TestTracker_ExpireStale(t *testing.T) {
	tracker, _, clock := setupTracker(t)
	old, err := tracker.Begin(ctx, Drag, nineOClock, grid.Point{})
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	other := nineOClock
	other.ID = "event-2"
	recent, err := tracker.Begin(ctx, ResizeEnd, other, grid.Point{})
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	expired := tracker.ExpireStale(ctx)

	assert.Equal(t, 1, expired)
	_, found := tracker.Get(old.ID)
	assert.False(t, found)
	_, found = tracker.Get(recent.ID)
	assert.True(t, found)
}

func TestTracker_Cancel(t *testing.T) {
	tracker, rec, _ := setupTracker(t)
	session, err := tracker.Begin(ctx, Drag, nineOClock, grid.Point{})
	require.NoError(t, err)

	result, err := tracker.Cancel(ctx, session.ID)

	require.NoError(t, err)
	assert.Equal(t, Reverted, result.Outcome)
	assert.Equal(t, nineOClock, result.Event)
	assert.Len(t, rec.reverted, 1)

	_, err = tracker.Cancel(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestTracker_UnknownSessionAndKind(t *testing.T) {
	tracker, _, _ := setupTracker(t)

	_, err := tracker.Update(ctx, "missing", grid.Point{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = tracker.End(ctx, "missing", grid.Point{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = tracker.Begin(ctx, Kind("pinch"), nineOClock, grid.Point{})
	assert.ErrorIs(t, err, ErrUnknownKind)
}
